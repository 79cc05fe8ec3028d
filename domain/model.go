package domain

import "strings"

type RewriteAction string

const (
	ExpandRewriteAction      RewriteAction = "expand"
	AlternativeRewriteAction RewriteAction = "alternative"
)

func (a RewriteAction) Valid() bool {
	return a == ExpandRewriteAction || a == AlternativeRewriteAction
}

type ControlMode string

const (
	DurationControlMode ControlMode = "duration"
	ScenesControlMode   ControlMode = "scenes"
)

// NoDialogueSentinel is written into the dialogue field when a scene has no spoken lines.
const NoDialogueSentinel = "N/A"

// Scene is one 8-second video unit. Every descriptive field is English except
// Dialogue and ShortDescription.
type Scene struct {
	SceneNumber          int    `json:"sceneNumber"`
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

func (s Scene) HasDialogue() bool {
	d := strings.TrimSpace(s.Dialogue)
	return d != "" && !strings.EqualFold(d, NoDialogueSentinel)
}

type CharacterProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
	Description string `json:"description"`
}

func (p CharacterProfile) HasImage() bool {
	return p.Image != "" && p.MimeType != ""
}

type FormInputs struct {
	Description       string             `json:"description"`
	Country           string             `json:"country"`
	Languages         string             `json:"languages"`
	VideoStyle        string             `json:"videoStyle"`
	AutoSplit         bool               `json:"autoSplit"`
	NoSinging         bool               `json:"noSinging"`
	CharacterProfiles []CharacterProfile `json:"characterProfiles"`
	Accent            string             `json:"accent"`
	FullDialogue      bool               `json:"fullDialogue"`
	NoDialogue        bool               `json:"noDialogue"`
	DurationInMinutes string             `json:"durationInMinutes"`
	SceneCount        string             `json:"sceneCount"`
	ControlMode       ControlMode        `json:"controlMode"`
}

// Normalize enforces the mutually exclusive settings: only the pacing field of
// the active control mode survives, and noDialogue wins over fullDialogue.
func (f FormInputs) Normalize() FormInputs {
	switch f.ControlMode {
	case ScenesControlMode:
		f.DurationInMinutes = ""
	default:
		f.ControlMode = DurationControlMode
		f.SceneCount = ""
	}
	if f.NoDialogue {
		f.FullDialogue = false
	}
	if f.CharacterProfiles == nil {
		f.CharacterProfiles = []CharacterProfile{}
	}
	return f
}

type HistoryItem struct {
	ID        string     `json:"id"`
	Timestamp int64      `json:"timestamp"`
	Inputs    FormInputs `json:"inputs"`
	Scenes    []Scene    `json:"scenes"`
}

// ReplaceScene returns a copy of scenes where the element with the same
// scene number is swapped for scene.
func ReplaceScene(scenes []Scene, scene Scene) ([]Scene, bool) {
	out := make([]Scene, len(scenes))
	found := false
	for i, s := range scenes {
		if s.SceneNumber == scene.SceneNumber {
			out[i] = scene
			found = true
			continue
		}
		out[i] = s
	}
	return out, found
}

func AppendScene(scenes []Scene, scene Scene) []Scene {
	out := make([]Scene, 0, len(scenes)+1)
	out = append(out, scenes...)
	return append(out, scene)
}

func FindScene(scenes []Scene, sceneNumber int) (Scene, bool) {
	for _, s := range scenes {
		if s.SceneNumber == sceneNumber {
			return s, true
		}
	}
	return Scene{}, false
}

func ScenesBefore(scenes []Scene, sceneNumber int) []Scene {
	previous := make([]Scene, 0)
	for _, s := range scenes {
		if s.SceneNumber < sceneNumber {
			previous = append(previous, s)
		}
	}
	return previous
}
