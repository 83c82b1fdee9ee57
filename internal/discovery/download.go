// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxPDFBytes caps a single download at 100 MB.
const maxPDFBytes = 100 << 20

// DownloadRecord retrieves the document a record points at. The HTTP
// client follows redirects, which repository PDF URLs rely on. The caller
// stores the returned bytes in the cache.
func DownloadRecord(ctx context.Context, client *http.Client, pdfURL, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pdfURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading download: %w", err)
	}
	if len(data) > maxPDFBytes {
		return nil, fmt.Errorf("download from %s exceeds %d bytes", pdfURL, maxPDFBytes)
	}

	// Some repositories serve an HTML interstitial with a 200 status.
	if !looksLikePDF(data, resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("response from %s is not a PDF", pdfURL)
	}

	return data, nil
}

// looksLikePDF checks the magic bytes, falling back to the Content-Type
// header for servers that prepend a byte-order mark or whitespace.
func looksLikePDF(data []byte, contentType string) bool {
	if len(data) >= 5 && string(data[:5]) == "%PDF-" {
		return true
	}
	return strings.Contains(contentType, "application/pdf")
}
