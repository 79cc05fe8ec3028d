package adapters

import (
	"io"
	"net/http"
	"time"
	"veo-prompt-director/application/ports/outbound"
)

type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
}

type contentFetcher struct {
	logger outbound.LoggerPort
	client *http.Client
}

// NewContentFetcher returns a fetcher whose requests give up after timeout.
// Zero means no limit beyond the request context.
func NewContentFetcher(logger outbound.LoggerPort, timeout time.Duration) ContentFetcher {
	return &contentFetcher{
		logger: logger,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    redactedURL(req),
		})
		return nil, err
	}

	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.ErrorWithFields(err, "Failed to close the response body", map[string]interface{}{
				"method": req.Method,
				"URL":    redactedURL(req),
			})
		}
	}(res.Body)

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    redactedURL(req),
		})
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		remoteErr := &outbound.RemoteError{StatusCode: res.StatusCode, Body: string(payload)}
		c.logger.ErrorWithFields(remoteErr, "HTTP request returned non-OK status code", map[string]interface{}{
			"method":  req.Method,
			"URL":     redactedURL(req),
			"status":  res.StatusCode,
			"message": string(payload),
		})
		return nil, remoteErr
	}

	return payload, nil
}

// redactedURL drops the query string, which may carry the API key.
func redactedURL(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	return u.String()
}
