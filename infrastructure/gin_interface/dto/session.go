package dto

import (
	"veo-prompt-director/domain"

	"github.com/google/uuid"
)

type CharacterProfileRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	MimeType    string `json:"mimeType" binding:"required_with=Image"`
	Description string `json:"description"`
}

type FormInputsRequest struct {
	Description       string                    `json:"description"`
	Country           string                    `json:"country"`
	Languages         string                    `json:"languages"`
	VideoStyle        string                    `json:"videoStyle"`
	AutoSplit         bool                      `json:"autoSplit"`
	NoSinging         bool                      `json:"noSinging"`
	CharacterProfiles []CharacterProfileRequest `json:"characterProfiles" binding:"dive"`
	Accent            string                    `json:"accent"`
	FullDialogue      bool                      `json:"fullDialogue"`
	NoDialogue        bool                      `json:"noDialogue"`
	DurationInMinutes string                    `json:"durationInMinutes"`
	SceneCount        string                    `json:"sceneCount"`
	ControlMode       string                    `json:"controlMode" binding:"omitempty,oneof=duration scenes"`
}

// ToDomain assigns an id to every character that arrives without one.
func (r FormInputsRequest) ToDomain() domain.FormInputs {
	profiles := make([]domain.CharacterProfile, 0, len(r.CharacterProfiles))
	for _, p := range r.CharacterProfiles {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		profiles = append(profiles, domain.CharacterProfile{
			ID:          id,
			Name:        p.Name,
			Image:       p.Image,
			MimeType:    p.MimeType,
			Description: p.Description,
		})
	}
	return domain.FormInputs{
		Description:       r.Description,
		Country:           r.Country,
		Languages:         r.Languages,
		VideoStyle:        r.VideoStyle,
		AutoSplit:         r.AutoSplit,
		NoSinging:         r.NoSinging,
		CharacterProfiles: profiles,
		Accent:            r.Accent,
		FullDialogue:      r.FullDialogue,
		NoDialogue:        r.NoDialogue,
		DurationInMinutes: r.DurationInMinutes,
		SceneCount:        r.SceneCount,
		ControlMode:       domain.ControlMode(r.ControlMode),
	}
}

type GenerateScenesRequest struct {
	FormInputsRequest
	Description string `json:"description" binding:"required"`
}

func (r GenerateScenesRequest) ToDomain() domain.FormInputs {
	inputs := r.FormInputsRequest.ToDomain()
	inputs.Description = r.Description
	return inputs
}

type ScenesResponse struct {
	Scenes []domain.Scene `json:"scenes"`
}
