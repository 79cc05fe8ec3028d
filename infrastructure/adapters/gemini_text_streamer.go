package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/config"

	"github.com/donovanhide/eventsource"
)

const MaxRetries = 3

type geminiTextStreamer struct {
	logger       outbound.LoggerPort
	geminiConfig *config.GeminiConfig
	workerPool   outbound.TaskDispatcher
}

func NewGeminiTextStreamer(geminiConfig *config.GeminiConfig, workerPool outbound.TaskDispatcher, logger outbound.LoggerPort) outbound.TextStreamPort {
	return &geminiTextStreamer{
		logger:       logger,
		geminiConfig: geminiConfig,
		workerPool:   workerPool,
	}
}

// Stream relays the text of every streamed chunk. Both channels close when the
// upstream closes the connection or ctx is done.
func (s *geminiTextStreamer) Stream(ctx context.Context, req outbound.ModelRequest) (<-chan string, <-chan error) {
	out := make(chan string)
	errCh := make(chan error, 1)

	retryCount := 0

	newCtx, cancel := context.WithCancel(ctx)

	err := s.workerPool.Submit(func() {
		defer close(out)
		defer close(errCh)
		defer cancel()

		httpReq, err := s.createRequest(newCtx, req)
		if err != nil {
			s.logger.Error(err, "Failed to create HTTP request for text stream")
			errCh <- err
			return
		}

		stream, err := eventsource.SubscribeWithRequest("", httpReq)
		if err != nil {
			s.logger.ErrorWithFields(err, "Failed to subscribe to text stream", map[string]interface{}{"op": req.Op})
			errCh <- subscriptionFailure(err)
			return
		}
		defer stream.Close()

		for {
			select {
			case <-newCtx.Done():
				return
			case ev, ok := <-stream.Events:
				if !ok {
					return
				}
				text, err := s.extractPayload(ev)
				if err != nil {
					errCh <- err
					return
				}
				if text != "" {
					select {
					case out <- text:
					case <-newCtx.Done():
						return
					}
				}
				retryCount = 0
			case err := <-stream.Errors:
				if errors.Is(err, io.EOF) {
					s.logger.Debug("Text stream closed")
					return
				} else if retryCount < MaxRetries {
					s.logger.ErrorWithFields(err, "Error occurred during streaming, retrying", map[string]interface{}{
						"retry_count": retryCount})
					retryCount++
					continue
				}
				s.logger.Error(err, "Error occurred during streaming, max retries reached")
				errCh <- err
				return
			}
		}
	})
	if err != nil {
		s.logger.Error(err, "Failed to submit task to worker pool")
		errCh <- err
		close(errCh)
		close(out)
		cancel()
	}

	return out, errCh
}

func (s *geminiTextStreamer) extractPayload(event eventsource.Event) (string, error) {
	var chunk geminiResponse
	if err := json.Unmarshal([]byte(event.Data()), &chunk); err != nil {
		s.logger.Error(err, "Failed to unmarshal event data")
		return "", err
	}
	return chunk.text(), nil
}

func (s *geminiTextStreamer) createRequest(ctx context.Context, req outbound.ModelRequest) (*http.Request, error) {
	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", s.geminiConfig.ApiUrl, req.Model)
	return newJSONRequest(ctx, http.MethodPost, url, req.APIKey, newGeminiRequest(req))
}

func subscriptionFailure(err error) error {
	var subErr eventsource.SubscriptionError
	if errors.As(err, &subErr) {
		return classifyRemoteError(&outbound.RemoteError{StatusCode: subErr.Code, Body: subErr.Message})
	}
	return err
}
