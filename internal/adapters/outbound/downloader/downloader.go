package downloader

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sonarprep/sonarprep/internal/logging"
)

const defaultTimeout = 30 * time.Second

// Client fetches server payloads over HTTP and implements
// domain.Downloader. Request timeouts live here; callers stay blocking
// and plain.
type Client struct {
	httpClient *http.Client
	username   string
	password   string
}

func New() *Client {
	return &Client{httpClient: &http.Client{Timeout: defaultTimeout}}
}

// WithToken returns a copy authenticating with a server token. Tokens go
// in the basic-auth username slot with an empty password.
func (c *Client) WithToken(token string) *Client {
	return c.WithBasicAuth(token, "")
}

// WithBasicAuth returns a copy authenticating with username and password.
func (c *Client) WithBasicAuth(username, password string) *Client {
	cp := *c
	cp.username = username
	cp.password = password
	return &cp
}

// WithTimeout returns a copy using the given request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	cp := *c
	cp.httpClient = &http.Client{Timeout: d}
	return &cp
}

func (c *Client) get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("User-Agent", "sonarprep")
	logging.Debug("downloading", "url", url)
	return c.httpClient.Do(req)
}

// Download returns the response body or fails on any non-2xx status.
func (c *Client) Download(url string) (string, error) {
	resp, err := c.get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}

// DownloadIfExists treats 404 as an explicit negative outcome instead of
// an error.
func (c *Client) DownloadIfExists(url string) (string, bool, error) {
	resp, err := c.get(url)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), true, nil
}

// DownloadFileIfExists streams the body to filePath. On 404 no file is
// created and found is false.
func (c *Client) DownloadFileIfExists(url, filePath string) (bool, error) {
	resp, err := c.get(url)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", filePath, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return false, fmt.Errorf("writing %s: %w", filePath, err)
	}
	return true, f.Close()
}
