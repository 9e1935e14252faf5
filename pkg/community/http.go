package community

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
)

// HTTPStatusError reports a non-2xx response
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound reports whether err was caused by an HTTP 404
func IsNotFound(err error) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// fetcher issues GET requests with a fixed User-Agent
type fetcher struct {
	client    *http.Client
	userAgent string
}

// open performs the request and returns the response of a 2xx reply.
// The caller closes the body.
func (f *fetcher) open(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, hubErrors.WrapError(err, hubErrors.ErrorTypeValidation, hubErrors.CodeInvalidArgument, "invalid request URL").
			WithContext("url", url)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, hubErrors.WrapError(ctxErr, hubErrors.ErrorTypeTimeout, hubErrors.CodeDownloadCancelled, "request aborted").
				WithContext("url", url)
		}
		return nil, hubErrors.NewNetworkError(err, "request failed").WithContext("url", url)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		statusErr := &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
		hubErr := hubErrors.WrapError(statusErr, hubErrors.ErrorTypeNetwork, hubErrors.CodeHTTPStatus, "unexpected HTTP status").
			WithContext("url", url)
		if resp.StatusCode == http.StatusNotFound {
			hubErr.Type = hubErrors.ErrorTypeNotFound
		} else if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			hubErr.SetRetryable(true)
		}
		return nil, hubErr
	}

	return resp, nil
}

// get returns the whole body of a 2xx reply
func (f *fetcher) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, hubErrors.NewNetworkError(err, "failed to read response body").WithContext("url", url)
	}
	return body, nil
}
