package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/config"
	"veo-prompt-director/domain"
)

type geminiModelClient struct {
	ContentFetcher
	logger       outbound.LoggerPort
	geminiConfig *config.GeminiConfig
}

func NewGeminiModelClient(contentFetcher ContentFetcher, geminiConfig *config.GeminiConfig, logger outbound.LoggerPort) outbound.ModelPort {
	return &geminiModelClient{
		ContentFetcher: contentFetcher,
		logger:         logger,
		geminiConfig:   geminiConfig,
	}
}

func (g *geminiModelClient) Invoke(ctx context.Context, req outbound.ModelRequest) ([]byte, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", g.geminiConfig.ApiUrl, req.Model)
	httpReq, err := newJSONRequest(ctx, http.MethodPost, url, req.APIKey, newGeminiRequest(req))
	if err != nil {
		g.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	rawRes, err := g.FetchContent(httpReq)
	if err != nil {
		return nil, classifyRemoteError(err)
	}

	var res geminiResponse
	if err := json.Unmarshal(rawRes, &res); err != nil {
		g.logger.Error(err, "Failed to unmarshal the response")
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidModelResponse, err)
	}
	if res.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: prompt blocked (%s)", domain.ErrInvalidModelResponse, res.PromptFeedback.BlockReason)
	}

	text := res.text()
	if text == "" {
		g.logger.WarnWithFields("Model returned no text", map[string]interface{}{"op": req.Op, "model": req.Model})
		return nil, fmt.Errorf("%w: empty response", domain.ErrInvalidModelResponse)
	}
	return []byte(text), nil
}
