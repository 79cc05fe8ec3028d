package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/config"
)

type promptInstance struct {
	Prompt string `json:"prompt"`
}

type veoParameters struct {
	AspectRatio string `json:"aspectRatio"`
	Resolution  string `json:"resolution"`
	SampleCount int    `json:"sampleCount"`
}

type veoRequest struct {
	Instances  []promptInstance `json:"instances"`
	Parameters veoParameters    `json:"parameters"`
}

type veoOperation struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Response struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
}

func (o veoOperation) toPort() *outbound.VideoOperation {
	op := &outbound.VideoOperation{Name: o.Name, Done: o.Done}
	if o.Error != nil {
		op.Done = true
		op.ErrorMessage = o.Error.Message
		if op.ErrorMessage == "" {
			op.ErrorMessage = fmt.Sprintf("operation failed with code %d", o.Error.Code)
		}
	}
	if samples := o.Response.GenerateVideoResponse.GeneratedSamples; len(samples) > 0 {
		op.VideoURI = samples[0].Video.URI
	}
	return op
}

type veoVideoClient struct {
	ContentFetcher
	logger       outbound.LoggerPort
	geminiConfig *config.GeminiConfig
}

func NewVeoVideoClient(contentFetcher ContentFetcher, geminiConfig *config.GeminiConfig, logger outbound.LoggerPort) outbound.VideoJobPort {
	return &veoVideoClient{
		ContentFetcher: contentFetcher,
		logger:         logger,
		geminiConfig:   geminiConfig,
	}
}

func (v *veoVideoClient) Submit(ctx context.Context, apiKey string, prompt string) (*outbound.VideoOperation, error) {
	endpoint := fmt.Sprintf("%s/models/%s:predictLongRunning", v.geminiConfig.ApiUrl, v.geminiConfig.VeoModel)
	req, err := newJSONRequest(ctx, http.MethodPost, endpoint, apiKey, veoRequest{
		Instances: []promptInstance{{Prompt: prompt}},
		Parameters: veoParameters{
			AspectRatio: "16:9",
			Resolution:  "720p",
			SampleCount: 1,
		},
	})
	if err != nil {
		v.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	op, err := v.fetchOperation(req)
	if err != nil {
		return nil, err
	}
	v.logger.InfoWithFields("Video operation started", map[string]interface{}{"operation": op.Name})
	return op, nil
}

func (v *veoVideoClient) Poll(ctx context.Context, apiKey string, op *outbound.VideoOperation) (*outbound.VideoOperation, error) {
	req, err := newJSONRequest(ctx, http.MethodGet, fmt.Sprintf("%s/%s", v.geminiConfig.ApiUrl, op.Name), apiKey, nil)
	if err != nil {
		v.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}
	return v.fetchOperation(req)
}

// Download fetches the finished file. The file service only accepts the key
// as a query parameter.
func (v *veoVideoClient) Download(ctx context.Context, apiKey string, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid video uri: %w", err)
	}
	query := u.Query()
	query.Set("key", apiKey)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		v.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}
	return v.FetchContent(req)
}

func (v *veoVideoClient) fetchOperation(req *http.Request) (*outbound.VideoOperation, error) {
	rawRes, err := v.FetchContent(req)
	if err != nil {
		return nil, classifyRemoteError(err)
	}

	var op veoOperation
	if err := json.Unmarshal(rawRes, &op); err != nil {
		v.logger.Error(err, "Failed to unmarshal the operation")
		return nil, err
	}
	if op.Name == "" {
		return nil, fmt.Errorf("video operation has no name")
	}
	return op.toPort(), nil
}
