package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// upstreamResponse is the raw result of one outbound GET. It lives only for
// the duration of a single Fetch call.
type upstreamResponse struct {
	statusCode      int
	contentEncoding string
	contentType     string
	body            []byte
}

// request performs the single outbound GET for a cache miss.
// Every failure is returned as a transport FetchError.
func (c *Client) request(ctx context.Context, rawURL string, params Params) (*upstreamResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	target, err := buildURL(rawURL, params)
	if err != nil {
		return nil, newFetchError(ErrorKindTransport, rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, newFetchError(ErrorKindTransport, rawURL, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("User-Agent", c.config.UserAgent)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	upstreamRequestDuration.Observe(time.Since(startTime).Seconds())
	if err != nil {
		upstreamRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, newFetchError(ErrorKindTransport, rawURL, err)
	}
	defer resp.Body.Close()

	upstreamRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Kind:       ErrorKindTransport,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodyBytes+1))
	if err != nil {
		return nil, newFetchError(ErrorKindTransport, rawURL, fmt.Errorf("read response body: %w", err))
	}
	if int64(len(body)) > c.config.MaxBodyBytes {
		return nil, newFetchError(ErrorKindTransport, rawURL, fmt.Errorf("response body exceeds %d bytes", c.config.MaxBodyBytes))
	}

	return &upstreamResponse{
		statusCode:      resp.StatusCode,
		contentEncoding: resp.Header.Get("Content-Encoding"),
		contentType:     resp.Header.Get("Content-Type"),
		body:            body,
	}, nil
}

// buildURL appends the non-nil params to rawURL's query string.
func buildURL(rawURL string, params Params) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	query := u.Query()
	for name, value := range params {
		if value == nil {
			continue
		}
		query.Set(name, formatParam(value))
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

// formatParam renders a scalar parameter for a query string.
func formatParam(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
