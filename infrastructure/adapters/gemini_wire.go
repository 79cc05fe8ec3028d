package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/domain"
)

const apiKeyHeader = "x-goog-api-key"

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64          `json:"temperature"`
	ResponseMimeType string           `json:"responseMimeType,omitempty"`
	ResponseSchema   *outbound.Schema `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// text concatenates the parts of the first candidate.
func (r geminiResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

type googleErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func newGeminiRequest(req outbound.ModelRequest) geminiRequest {
	parts := []geminiPart{{Text: req.Prompt}}
	for _, p := range req.Parts {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{MimeType: p.MimeType, Data: p.Data}})
	}

	body := geminiRequest{
		Contents:         []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: geminiGenerationConfig{Temperature: req.Temperature},
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemInstruction}}}
	}
	if req.Schema != nil {
		body.GenerationConfig.ResponseMimeType = "application/json"
		body.GenerationConfig.ResponseSchema = req.Schema
	}
	return body
}

func newJSONRequest(ctx context.Context, method string, url string, apiKey string, payload interface{}) (*http.Request, error) {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// classifyRemoteError turns a rejected key into ErrInvalidCredential. The API
// reports it only in the message text.
func classifyRemoteError(err error) error {
	var remote *outbound.RemoteError
	if !errors.As(err, &remote) {
		return err
	}
	switch remote.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
	default:
		return err
	}

	message := remote.Body
	var body googleErrorBody
	if json.Unmarshal([]byte(remote.Body), &body) == nil && body.Error.Message != "" {
		message = body.Error.Message
	}
	if strings.Contains(strings.ToLower(message), "api key") {
		return fmt.Errorf("%w: %s", domain.ErrInvalidCredential, message)
	}
	return err
}
