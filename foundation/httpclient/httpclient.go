// Package httpclient provides basic http functions
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteFileInfo contains information identifying a version of a remote resource
type RemoteFileInfo struct {
	ETag                  string
	LastModifiedTimestamp int64
	Path                  string
}

func getRemoteFileInfo(url string, resp *http.Response) RemoteFileInfo {
	result := RemoteFileInfo{
		Path: url,
	}
	result.ETag = resp.Header.Get("ETag")

	lastModifiedString := resp.Header.Get("Last-Modified")

	if len(lastModifiedString) > 0 {
		parsedTime, err := time.Parse(time.RFC1123, lastModifiedString)
		if err == nil {
			result.LastModifiedTimestamp = parsedTime.Unix()
		}
	}
	return result

}

// IsDifferent reports whether df describes a different version than etag and lastModifiedTimestamp.
// When the server supplies no version information every response is treated as different.
func (df *RemoteFileInfo) IsDifferent(etag string, lastModifiedTimestamp int64) bool {
	if len(df.ETag) > 0 {
		return df.ETag != etag
	}
	if df.LastModifiedTimestamp == 0 {
		return true
	}
	return df.LastModifiedTimestamp != lastModifiedTimestamp
}

// Client wraps http.Client with the user agent and timeout used for scraping
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a Client whose requests time out after timeout
func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// GetBytes retrieves the body of url with a GET request.
// Responses outside the 2xx range are returned as errors.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, RemoteFileInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, RemoteFileInfo{}, err
	}
	if len(c.userAgent) > 0 {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, RemoteFileInfo{}, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, RemoteFileInfo{}, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, RemoteFileInfo{}, err
	}
	return body, getRemoteFileInfo(url, resp), nil
}
