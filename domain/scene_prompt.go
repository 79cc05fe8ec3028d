package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	repeatedPeriodsRegexp = regexp.MustCompile(`\.\s*\.`)
	whitespaceRegexp      = regexp.MustCompile(`\s+`)
)

// SceneFormatter renders a scene into a prompt for a downstream media model.
type SceneFormatter func(scene Scene) string

func flatten(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", " "), "\n", " "))
}

// FormatVideoPrompt renders a scene as a single paragraph for the video model.
func FormatVideoPrompt(scene Scene) string {
	parts := make([]string, 0, 7)
	add := func(format string, value string) {
		if v := flatten(value); v != "" {
			parts = append(parts, fmt.Sprintf(format, v))
		}
	}

	add("A cinematic video in the style of %s", scene.VideoStyle)
	add("set within a %s cultural context", scene.CountryContext)
	add("depicting: %s", scene.Visuals)
	add("The characters are described as: %s", scene.CharacterDescription)
	add("The camera work includes: %s", scene.Camera)

	sound := make([]string, 0, 3)
	if v := flatten(scene.Audio); v != "" {
		sound = append(sound, "ambient audio of "+v)
	}
	if v := flatten(scene.Sfx); v != "" {
		sound = append(sound, "sound effects like "+v)
	}
	if v := flatten(scene.Music); v != "" {
		sound = append(sound, "a background score that is "+v)
	}
	if len(sound) > 0 {
		parts = append(parts, "The sound design includes "+strings.Join(sound, ", "))
	}

	if scene.HasDialogue() {
		parts = append(parts, fmt.Sprintf("The dialogue is: \"%s\"", flatten(scene.Dialogue)))
	}

	return finishSentence(strings.Join(parts, ". "))
}

// FormatImagePrompt renders a scene as a still-frame prompt. The character
// block is labelled so the image model keeps likeness across scenes.
func FormatImagePrompt(scene Scene) string {
	var b strings.Builder
	b.WriteString("A high-quality, ")
	if style := flatten(scene.VideoStyle); style != "" {
		b.WriteString(style + " ")
	}
	b.WriteString("cinematic film still")
	if country := flatten(scene.CountryContext); country != "" {
		b.WriteString(" in a " + country + " setting")
	}
	b.WriteString(". ")
	b.WriteString("The scene depicts: " + flatten(scene.Visuals) + ". ")
	b.WriteString("Character Appearance (Must be consistent): " + flatten(scene.CharacterDescription) + ". ")
	b.WriteString("Atmosphere: " + lightingMood(scene.Camera) + ", 8k resolution, highly detailed, storytelling composition, photorealistic.")

	return whitespaceRegexp.ReplaceAllString(repeatedPeriodsRegexp.ReplaceAllString(b.String(), "."), " ")
}

func lightingMood(camera string) string {
	camera = strings.ToLower(camera)
	switch {
	case strings.Contains(camera, "bright"):
		return "bright, natural lighting"
	case strings.Contains(camera, "dark"):
		return "dark, moody lighting"
	default:
		return "cinematic lighting"
	}
}

func finishSentence(text string) string {
	text = repeatedPeriodsRegexp.ReplaceAllString(text, ".")
	text = whitespaceRegexp.ReplaceAllString(text, " ")
	text = strings.TrimRight(strings.TrimSpace(text), ". ")
	return text + "."
}

// JoinPrompts formats every scene in order and separates them with a blank line.
func JoinPrompts(scenes []Scene, formatter SceneFormatter) string {
	prompts := make([]string, 0, len(scenes))
	for _, s := range scenes {
		prompts = append(prompts, formatter(s))
	}
	return strings.Join(prompts, "\n\n")
}
