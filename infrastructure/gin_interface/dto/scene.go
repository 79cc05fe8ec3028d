package dto

import "veo-prompt-director/domain"

type RewriteSceneRequest struct {
	Action string `json:"action" binding:"required,oneof=expand alternative"`
}

type NextSceneRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type TranslateSceneRequest struct {
	Language string `json:"language" binding:"required"`
}

type UpdateSceneRequest struct {
	ShortDescription     string `json:"shortDescription"`
	VideoStyle           string `json:"videoStyle"`
	CountryContext       string `json:"countryContext"`
	CharacterDescription string `json:"characterDescription"`
	Visuals              string `json:"visuals"`
	Camera               string `json:"camera"`
	Audio                string `json:"audio"`
	Sfx                  string `json:"sfx"`
	Dialogue             string `json:"dialogue"`
	Music                string `json:"music"`
}

// ToDomain takes the scene number from the route, never from the body.
func (r UpdateSceneRequest) ToDomain(sceneNumber int) domain.Scene {
	return domain.Scene{
		SceneNumber:          sceneNumber,
		ShortDescription:     r.ShortDescription,
		VideoStyle:           r.VideoStyle,
		CountryContext:       r.CountryContext,
		CharacterDescription: r.CharacterDescription,
		Visuals:              r.Visuals,
		Camera:               r.Camera,
		Audio:                r.Audio,
		Sfx:                  r.Sfx,
		Dialogue:             r.Dialogue,
		Music:                r.Music,
	}
}
