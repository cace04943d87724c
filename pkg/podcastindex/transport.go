package podcastindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 16 << 20

// get performs an authenticated GET against the directory API and decodes
// the JSON body into out.
//
// It handles:
// - Header signing via the shared HeaderCache
// - The per-request timeout
// - Mapping transport failures and HTTP status codes to error kinds
//
// get never retries.
func (c *Client) get(ctx context.Context, op, guid string, query url.Values, out interface{}) ([]byte, error) {
	headers, err := c.headers.Headers()
	if err != nil {
		var piErr *Error
		if errors.As(err, &piErr) {
			piErr.Op = op
		}
		return nil, err
	}

	endpoint := c.baseURL + op
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	c.logDebugf("podcastindex: calling %s", op)

	body, err := c.do(ctx, op, guid, endpoint, headers)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return nil, &Error{
			Kind:    ErrUpstream,
			Op:      op,
			GUID:    guid,
			Message: "failed to decode response",
			Err:     err,
		}
	}

	c.logDebugf("podcastindex: %s succeeded", op)
	return body, nil
}

// FetchRSS downloads the document at rawURL.
//
// RSS hosts are not part of the directory API, so only the User-Agent
// header is sent. Timeouts and status codes are handled like any other
// request.
func (c *Client) FetchRSS(ctx context.Context, rawURL string) ([]byte, error) {
	const op = "rss"

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, invalidInput(op, "RSS URL must not be empty")
	}

	headers := map[string]string{}
	if ua := c.headers.cfg.UserAgent; ua != "" {
		headers[HeaderUserAgent] = ua
	}

	c.logDebugf("podcastindex: fetching RSS %s", rawURL)
	return c.do(ctx, op, rawURL, rawURL, headers)
}

// do sends a GET request with the given headers and returns the body of a
// 200 response.
func (c *Client) do(ctx context.Context, op, guid, rawURL string, headers map[string]string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidInput, Op: op, GUID: guid, Message: "failed to create request", Err: err}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		msg := "request failed"
		if isTimeout(err) {
			msg = "request timed out"
		}
		return nil, &Error{Kind: ErrNetwork, Op: op, GUID: guid, Message: msg, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &Error{Kind: ErrNetwork, Op: op, GUID: guid, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Kind:       ErrUpstream,
			Op:         op,
			GUID:       guid,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
		}
	}

	return body, nil
}

// isTimeout checks if a transport error is a timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
