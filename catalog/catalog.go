package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"veo-prompt-director/domain"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

const PrehistoricNarrative = "prehistoric"

type Style struct {
	Label       string `yaml:"label" json:"label"`
	English     string `yaml:"english" json:"english"`
	Narrative   string `yaml:"narrative,omitempty" json:"narrative,omitempty"`
	SilentScore bool   `yaml:"silentScore,omitempty" json:"silentScore,omitempty"`
}

type Defaults struct {
	Country           string             `yaml:"country"`
	Language          string             `yaml:"language"`
	VideoStyle        string             `yaml:"videoStyle"`
	AutoSplit         bool               `yaml:"autoSplit"`
	DurationInMinutes string             `yaml:"durationInMinutes"`
	ControlMode       domain.ControlMode `yaml:"controlMode"`
}

// Catalog holds the selectable presets offered to the client.
type Catalog struct {
	DefaultAccent       string   `yaml:"defaultAccent" json:"defaultAccent"`
	NoDialogueLanguage  string   `yaml:"noDialogueLanguage" json:"noDialogueLanguage"`
	Defaults            Defaults `yaml:"defaults" json:"-"`
	Styles              []Style  `yaml:"styles" json:"styles"`
	Countries           []string `yaml:"countries" json:"countries"`
	Languages           []string `yaml:"languages" json:"languages"`
	Accents             []string `yaml:"accents" json:"accents"`
	SuggestionLanguages []string `yaml:"suggestionLanguages" json:"suggestionLanguages"`
}

func Load() (*Catalog, error) {
	return Parse(presetsYAML)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	if c.DefaultAccent == "" || c.NoDialogueLanguage == "" {
		return nil, errors.New("presets must define defaultAccent and noDialogueLanguage")
	}
	for i, s := range c.Styles {
		if s.Label == "" {
			return nil, fmt.Errorf("style %d has no label", i)
		}
		if s.English == "" {
			c.Styles[i].English = s.Label
		}
	}
	return &c, nil
}

// Style matches a label or its English term, ignoring case.
func (c *Catalog) Style(label string) (Style, bool) {
	label = strings.TrimSpace(label)
	for _, s := range c.Styles {
		if strings.EqualFold(s.Label, label) || strings.EqualFold(s.English, label) {
			return s, true
		}
	}
	return Style{}, false
}

func (c *Catalog) IsPrehistoric(style string) bool {
	s, ok := c.Style(style)
	return ok && s.Narrative == PrehistoricNarrative
}

func (c *Catalog) IsSilentScore(style string) bool {
	s, ok := c.Style(style)
	return ok && s.SilentScore
}

func (c *Catalog) IsDefaultAccent(accent string) bool {
	accent = strings.TrimSpace(accent)
	return accent == "" || strings.EqualFold(accent, c.DefaultAccent)
}

// DefaultInputs is the form a fresh session starts with.
func (c *Catalog) DefaultInputs() domain.FormInputs {
	return domain.FormInputs{
		Country:           c.Defaults.Country,
		Languages:         c.Defaults.Language,
		VideoStyle:        c.Defaults.VideoStyle,
		AutoSplit:         c.Defaults.AutoSplit,
		CharacterProfiles: []domain.CharacterProfile{},
		Accent:            c.DefaultAccent,
		DurationInMinutes: c.Defaults.DurationInMinutes,
		ControlMode:       c.Defaults.ControlMode,
	}.Normalize()
}
