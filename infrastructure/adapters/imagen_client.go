package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/config"
	"veo-prompt-director/domain"
)

type imagenRequest struct {
	Instances  []promptInstance `json:"instances"`
	Parameters struct {
		SampleCount   int    `json:"sampleCount"`
		AspectRatio   string `json:"aspectRatio"`
		OutputOptions struct {
			MimeType string `json:"mimeType"`
		} `json:"outputOptions"`
	} `json:"parameters"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

type imagenClient struct {
	ContentFetcher
	logger       outbound.LoggerPort
	geminiConfig *config.GeminiConfig
}

func NewImagenClient(contentFetcher ContentFetcher, geminiConfig *config.GeminiConfig, logger outbound.LoggerPort) outbound.ImageGeneratorPort {
	return &imagenClient{
		ContentFetcher: contentFetcher,
		logger:         logger,
		geminiConfig:   geminiConfig,
	}
}

func (i *imagenClient) Generate(ctx context.Context, apiKey string, prompt string) (*outbound.GeneratedImage, error) {
	req, err := i.getRequest(ctx, apiKey, prompt)
	if err != nil {
		i.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	rawRes, err := i.FetchContent(req)
	if err != nil {
		i.logger.Error(err, "Failed to fetch the content")
		return nil, classifyRemoteError(err)
	}

	var res imagenResponse
	if err := json.Unmarshal(rawRes, &res); err != nil {
		i.logger.Error(err, "Failed to unmarshal the response")
		return nil, err
	}
	if len(res.Predictions) == 0 || res.Predictions[0].BytesBase64Encoded == "" {
		return nil, domain.ErrNoImageData
	}

	decodedImage, err := base64.StdEncoding.DecodeString(res.Predictions[0].BytesBase64Encoded)
	if err != nil {
		i.logger.Error(err, "Failed to decode the image")
		return nil, err
	}

	mimeType := res.Predictions[0].MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return &outbound.GeneratedImage{MimeType: mimeType, Content: decodedImage}, nil
}

func (i *imagenClient) getRequest(ctx context.Context, apiKey string, prompt string) (*http.Request, error) {
	var body imagenRequest
	body.Instances = []promptInstance{{Prompt: prompt}}
	body.Parameters.SampleCount = 1
	body.Parameters.AspectRatio = "16:9"
	body.Parameters.OutputOptions.MimeType = "image/jpeg"

	url := fmt.Sprintf("%s/models/%s:predict", i.geminiConfig.ApiUrl, i.geminiConfig.ImagenModel)
	return newJSONRequest(ctx, http.MethodPost, url, apiKey, body)
}
