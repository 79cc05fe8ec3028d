package services

import (
	"fmt"
	"veo-prompt-director/application/ports/outbound"
)

// sceneKeys is the field order of a scene in every structured response.
var sceneKeys = []string{
	"sceneNumber", "shortDescription", "videoStyle", "countryContext", "characterDescription",
	"visuals", "camera", "audio", "sfx", "dialogue", "music",
}

func stringProperty(description string) *outbound.Schema {
	return &outbound.Schema{Type: outbound.StringSchemaType, Description: description}
}

func sceneSchema(displayLanguage string) *outbound.Schema {
	return &outbound.Schema{
		Type: outbound.ObjectSchemaType,
		Properties: map[string]*outbound.Schema{
			"sceneNumber": {Type: outbound.IntegerSchemaType, Description: "The sequential number of the scene."},
			"shortDescription": stringProperty(fmt.Sprintf("A very brief, one-sentence summary of this 8-second scene's main action. "+
				"This field is for the user interface ONLY and MUST be written in %s. All other descriptive fields must follow the English-only rule.", displayLanguage)),
			"videoStyle":     stringProperty("Cinematic style (e.g., sci-fi noir, hyper-realistic, found footage). This MUST match the user's selected style and be in English."),
			"countryContext": stringProperty("Cultural context, references, or nuances tailored for viewers from the specified country."),
			"characterDescription": stringProperty("Detailed description of each character in the scene. You MUST strictly use the format " +
				"'CHARACTER NAME: [Visual Description]'. Example: 'LAN: A young woman in a white Ao Dai'. List each character on a new line starting with a hyphen. Do not use shorthand."),
			"visuals": stringProperty("Detailed description of the visual elements, setting, and action, reflecting the chosen video style."),
			"camera":  stringProperty("Specific camera shots, angles, and movements that align with the chosen video style."),
			"audio":   stringProperty("Description of the diegetic sound environment."),
			"sfx":     stringProperty("Specific sound effects to be used."),
			"dialogue": stringProperty("Dialogue spoken by characters. You MUST use the format 'CHARACTER NAME: [Dialogue]'. " +
				"The Character Name MUST EXACTLY MATCH the name used in 'characterDescription' so the video AI knows who is speaking."),
			"music": stringProperty("Description of the background music or score, fitting the video style."),
		},
		PropertyOrdering: sceneKeys,
		Required:         sceneKeys,
	}
}

func sceneListSchema(displayLanguage string) *outbound.Schema {
	return &outbound.Schema{
		Type: outbound.ObjectSchemaType,
		Properties: map[string]*outbound.Schema{
			"scenes": {
				Type:        outbound.ArraySchemaType,
				Description: "An array of all the generated scenes for the video.",
				Items:       sceneSchema(displayLanguage),
			},
		},
		Required: []string{"scenes"},
	}
}
