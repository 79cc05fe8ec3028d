package dto

type ApiKeyRequest struct {
	ApiKey string `json:"apiKey"`
}

type SuggestStoryRequest struct {
	Brief           string `json:"brief" binding:"required"`
	Language        string `json:"language"`
	Duration        string `json:"duration"`
	IncludeDialogue bool   `json:"includeDialogue"`
}
