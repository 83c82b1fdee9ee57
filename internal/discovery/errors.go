// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/pdf-pipeline/internal/httputil"
)

// APIError is a transport or protocol failure talking to a source. A zero
// StatusCode means the request never produced a response; Err then carries
// the transport error.
type APIError struct {
	Source     string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: request failed: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Source, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error { return e.Err }

// NoResultsError means the source's search yielded nothing for the paper.
type NoResultsError struct {
	Source string
	Query  string
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("%s: no results for query %q", e.Source, e.Query)
}

// NoPDFFoundError means the search found results but none exposed a
// retrievable document.
type NoPDFFoundError struct {
	Source         string
	ResultsChecked int
}

func (e *NoPDFFoundError) Error() string {
	return fmt.Sprintf("%s: no PDF among %d results", e.Source, e.ResultsChecked)
}

// RateLimitError means the remote signaled throttling. RetryAfter is the
// server's suggested delay, zero when the server did not provide one.
type RateLimitError struct {
	Source     string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited, retry after %v", e.Source, e.RetryAfter)
	}
	return fmt.Sprintf("%s: rate limited", e.Source)
}

// maxErrorBody bounds how much of an error response body is kept for the
// APIError context.
const maxErrorBody = 512

// checkResponse classifies a non-200 response into the discovery error
// taxonomy. It returns nil for 200 OK. The caller keeps ownership of the
// body on success; on error the body has been partially read.
func checkResponse(source string, resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusTooManyRequests:
		return &RateLimitError{Source: source, RetryAfter: httputil.RetryAfter(resp)}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Source: source, StatusCode: resp.StatusCode, Body: string(body)}
	}
}
