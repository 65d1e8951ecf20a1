// Package fetch performs the HTTP retrieval step of the download pipeline.
// It validates the response and extracts the metadata downstream stages
// depend on; it does not retry, and it never touches the filesystem.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a whole download request. A hung mirror should
	// fail the invocation rather than block the shell forever.
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "opswitch/1.0"
	// maxRedirects caps redirect chains; release hosts commonly bounce
	// through one or two CDN hops.
	maxRedirects = 10
)

var (
	// ErrVersionNotAvailable maps HTTP 404: the tool exists but the
	// requested version has no published artifact for this platform.
	ErrVersionNotAvailable = errors.New("tool version not available for download")
	// ErrMissingLength is returned when the response carries no
	// Content-Length. Progress reporting and persist sizing depend on the
	// declared length, so an unknown-size artifact is refused.
	ErrMissingLength = errors.New("response has no Content-Length header")
	// ErrMissingContentType is returned when the response carries no
	// Content-Type, which the archive normalizer needs for dispatch.
	ErrMissingContentType = errors.New("response has no Content-Type header")
)

// StatusError reports a non-200, non-404 response status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received a non-200 response when downloading the tool: %d %s", e.Code, http.StatusText(e.Code))
}

// Result is an open download session: the response stream plus the declared
// size and content type. The caller owns Body and must close it.
type Result struct {
	Body        io.ReadCloser
	Length      int64
	ContentType string
}

// Fetcher retrieves release artifacts over HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// New creates a fetcher with redirect-following enabled.
func New() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
	}
}

// Fetch performs a GET against url and validates the response. Any error
// leaves no open connection behind; on success the caller must close
// Result.Body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrVersionNotAvailable
	default:
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode}
	}

	if resp.ContentLength < 0 {
		resp.Body.Close()
		return nil, ErrMissingLength
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		resp.Body.Close()
		return nil, ErrMissingContentType
	}

	return &Result{
		Body:        resp.Body,
		Length:      resp.ContentLength,
		ContentType: contentType,
	}, nil
}
