package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/catalog"
	"veo-prompt-director/domain"
)

const (
	BatchOp      = "batch"
	RewriteOp    = "rewrite"
	TranslateOp  = "translate"
	NextSceneOp  = "next_scene"
	SuggestOp    = "suggest"
	SceneSeconds = 8

	scenesPerMinute = 7.5

	batchTemperature      = 0.8
	rewriteTemperature    = 0.9
	translateTemperature  = 0.2
	nextSceneTemperature  = 0.85
	suggestionTemperature = 0.85
)

const directorInstruction = `You are 'VEO 3 Prompt Director', an expert AI screenwriter and film director. Your task is to generate highly detailed, cinematic prompts for individual scenes for the VEO 3 video generation model.
- CRITICAL LANGUAGE DIRECTIVE: The final output for the video generation model will be in English. Therefore, all descriptive text in all JSON fields (e.g., 'visuals', 'camera', 'audio', 'sfx', 'music', 'characterDescription', 'videoStyle', 'countryContext') MUST be written in ENGLISH ONLY. This is a non-negotiable technical requirement. The ONLY exceptions are the 'dialogue' field, which MUST be written in the specific language requested by the user, and the 'shortDescription' field, which MUST be written in %[1]s.
- CHARACTER-VISUAL LINKING (CRITICAL): To ensure the video generation model correctly attributes dialogue to the right character, you MUST explicitly link the character's name to their visual description in the 'characterDescription' field. Start every character entry with their name in UPPERCASE, followed by a colon.
  Example:
  - LAN: A young woman wearing a white Ao Dai.
  - TUAN: A man in a green shirt.
- DIALOGUE ATTRIBUTION: Ensure the names used in the 'dialogue' field match the names defined in 'characterDescription' EXACTLY. Use the format 'CHARACTER NAME: [dialogue]'.
- DIALOGUE PACING: A character can typically speak about 15-20 words of dialogue comfortably in 8 seconds. The dialogue you write MUST be concise and realistically spoken within the 8-second scene limit. No long monologues.
- ACCENT CONSISTENCY: If the user specifies a regional accent, all dialogue for all characters MUST consistently use that one accent.
- CRITICAL RULE: Each scene must represent exactly 8 seconds of video. All action, dialogue, and camera movements must be paced to fit within this timeframe.
- SAFETY & POLICY COMPLIANCE: All generated content must be safe and appropriate for a general audience. Strictly avoid graphic violence, hate speech, harassment, explicit sexual content, self-harm, or any other content that would violate Google's Generative AI Prohibited Use Policy.
- VISUALS RULE: Do not include any burned-in subtitles, text overlays, or on-screen graphics in your visual descriptions unless explicitly requested in the user's story description. The final video should be clean of text.
- Character Consistency: For the 'characterDescription' field, provide a complete and detailed breakdown for EACH character in the scene (age, gender, clothing, facial features, specific actions, and current emotions). ABSOLUTELY DO NOT use shorthand like 'same as before' or 'same attire'. You MUST re-describe every character in full for every scene using the 'NAME: Description' format.
- The output MUST be a valid JSON object that strictly adheres to the provided schema.`

const translatorInstruction = `You are an expert translator. Your task is to translate the text content of a JSON object representing a video scene into the specified target language.
- Translate all string values in the provided JSON object.
- DO NOT translate the JSON keys (e.g., 'videoStyle', 'sceneNumber').
- Maintain the exact same JSON structure.
- The 'sceneNumber' must remain an integer and unchanged.
- The output MUST be a valid JSON object that strictly adheres to the provided schema. Do not output anything else.`

const coWriterInstruction = `You are a creative co-writer and story consultant for a film director. Your task is to take a brief, high-level story idea and expand it into a more detailed and compelling narrative summary.
- Flesh out the plot with a clear beginning, middle, and end.
- Add details about the main characters' motivations and potential conflicts.
- Describe the setting and atmosphere to establish a strong mood.
- SAFETY & POLICY COMPLIANCE: The generated story summary must be safe for a general audience. Avoid narratives centered around graphic violence, hate speech, explicit content, or other topics that violate Google's Generative AI Prohibited Use Policy.
- CRITICAL: The entire summary MUST be written in %s.
- The output should be a single block of text, written in a clear and engaging style, which the director can then use as a more detailed input for generating scene-by-scene prompts.`

const prehistoricOverview = `The main character IS a prehistoric human (Homo habilis). The entire story MUST revolve around this character and have an ancient survival atmosphere. The user's story idea is: "%s"`

// Pacing is the scene budget derived from the form. Only HardSceneCount
// makes the count binding for the model.
type Pacing struct {
	DurationLabel    string
	SceneCountHint   int
	SceneCount       int
	HardSceneCount   bool
	EstimatedSeconds int
}

func ResolvePacing(inputs domain.FormInputs) Pacing {
	switch inputs.ControlMode {
	case domain.ScenesControlMode:
		n, err := strconv.Atoi(strings.TrimSpace(inputs.SceneCount))
		if err != nil || n <= 0 {
			return Pacing{}
		}
		return Pacing{SceneCount: n, HardSceneCount: true, EstimatedSeconds: n * SceneSeconds}
	default:
		raw := strings.TrimSpace(inputs.DurationInMinutes)
		minutes, err := strconv.ParseFloat(raw, 64)
		if err != nil || minutes <= 0 {
			return Pacing{}
		}
		return Pacing{
			DurationLabel:    raw + " minutes",
			SceneCountHint:   int(math.Round(minutes * scenesPerMinute)),
			EstimatedSeconds: int(math.Round(minutes * 60)),
		}
	}
}

func (p Pacing) lengthBlock() string {
	switch {
	case p.HardSceneCount:
		return fmt.Sprintf("Target Scene Count: %d scenes (This is the primary directive).\nEstimated Total Duration: ~%d seconds.",
			p.SceneCount, p.EstimatedSeconds)
	case p.DurationLabel != "":
		return fmt.Sprintf("Desired Duration: %s\nApproximate Scene Count: about %d scenes of %d seconds each. Treat this as a guideline, not a strict requirement.",
			p.DurationLabel, p.SceneCountHint, SceneSeconds)
	default:
		return "Desired Duration: Not specified"
	}
}

func (p Pacing) durationLabel() string {
	switch {
	case p.HardSceneCount:
		return fmt.Sprintf("~%d seconds", p.EstimatedSeconds)
	case p.DurationLabel != "":
		return p.DurationLabel
	default:
		return "Not specified"
	}
}

type ruleContext struct {
	inputs        domain.FormInputs
	pacing        Pacing
	silentScore   bool
	defaultAccent bool
}

type constraintRule struct {
	name      string
	batchOnly bool
	applies   func(rc ruleContext) bool
	clause    func(rc ruleContext) string
}

var constraintRules = []constraintRule{
	{
		name:    "silent-score",
		applies: func(rc ruleContext) bool { return rc.silentScore },
		clause: func(rc ruleContext) string {
			return "ASMR STYLE ENFORCEMENT: The 'music' field for all scenes MUST be 'N/A' or describe complete silence. " +
				"The audio should consist exclusively of environmental sounds, whispering, or gentle, detailed sounds (triggers). No musical score is allowed."
		},
	},
	{
		name:    "no-singing",
		applies: func(rc ruleContext) bool { return rc.inputs.NoSinging },
		clause: func(rc ruleContext) string {
			return "No-Singing Enforcement: Under no circumstances should any character sing. Normal spoken dialogue is still allowed. " +
				"The music score must be purely instrumental."
		},
	},
	{
		name:    "accent",
		applies: func(rc ruleContext) bool { return !rc.defaultAccent },
		clause: func(rc ruleContext) string {
			return fmt.Sprintf("ACCENT ENFORCEMENT: ALL characters MUST speak with a consistent '%s' accent throughout the entire video. "+
				"Do not mix accents under any circumstances.", strings.TrimSpace(rc.inputs.Accent))
		},
	},
	{
		name:    "full-dialogue",
		applies: func(rc ruleContext) bool { return rc.inputs.FullDialogue },
		clause: func(rc ruleContext) string {
			return "FULL DIALOGUE MODE: Generate significantly more dialogue in each scene. The scenes should be dialogue-heavy, " +
				"focusing on conversations to drive the narrative forward. While each scene is still 8 seconds, prioritize filling that time with meaningful character interaction and speech."
		},
	},
	{
		name:      "scene-count",
		batchOnly: true,
		applies:   func(rc ruleContext) bool { return rc.pacing.HardSceneCount },
		clause: func(rc ruleContext) string {
			return fmt.Sprintf("CRITICAL SCENE COUNT: You MUST generate exactly %d scenes. "+
				"This is a strict, non-negotiable requirement and overrides any other duration-based estimation.", rc.pacing.SceneCount)
		},
	},
}

type ModelSettings struct {
	ProModel        string
	FlashModel      string
	DisplayLanguage string
}

// RequestBuilder turns form settings and scenes into model requests.
type RequestBuilder struct {
	presets  *catalog.Catalog
	settings ModelSettings
	rules    []constraintRule
}

func NewRequestBuilder(presets *catalog.Catalog, settings ModelSettings) *RequestBuilder {
	return &RequestBuilder{
		presets:  presets,
		settings: settings,
		rules:    constraintRules,
	}
}

func (b *RequestBuilder) ruleContext(inputs domain.FormInputs) ruleContext {
	return ruleContext{
		inputs:        inputs,
		pacing:        ResolvePacing(inputs),
		silentScore:   b.presets.IsSilentScore(inputs.VideoStyle),
		defaultAccent: b.presets.IsDefaultAccent(inputs.Accent),
	}
}

// activeClauses evaluates the rule table once for a request.
func (b *RequestBuilder) activeClauses(rc ruleContext, batch bool) []string {
	clauses := make([]string, 0, len(b.rules))
	for _, rule := range b.rules {
		if rule.batchOnly && !batch {
			continue
		}
		if rule.applies(rc) {
			clauses = append(clauses, rule.clause(rc))
		}
	}
	return clauses
}

func (b *RequestBuilder) dialogueLanguage(inputs domain.FormInputs) string {
	if inputs.NoDialogue {
		return b.presets.NoDialogueLanguage
	}
	return inputs.Languages
}

func (b *RequestBuilder) overview(inputs domain.FormInputs) string {
	if b.presets.IsPrehistoric(inputs.VideoStyle) {
		return fmt.Sprintf(prehistoricOverview, inputs.Description)
	}
	return inputs.Description
}

func (b *RequestBuilder) styleClause(style string) string {
	clause := fmt.Sprintf("The overall aesthetic MUST be '%s'. IMPORTANT: If the style is provided with a translation (e.g., 'Điện ảnh (Cinematic)'), "+
		"you MUST use the English term ('Cinematic') in your descriptions and in the 'videoStyle' field.", style)
	if s, ok := b.presets.Style(style); ok && s.English != s.Label {
		clause += fmt.Sprintf(" The English term for this style is '%s'.", s.English)
	}
	return clause
}

func (b *RequestBuilder) systemInstruction() string {
	return fmt.Sprintf(directorInstruction, b.settings.DisplayLanguage)
}

func characterRoster(profiles []domain.CharacterProfile) string {
	lines := make([]string, 0, len(profiles))
	for _, p := range profiles {
		name := strings.TrimSpace(p.Name)
		desc := strings.TrimSpace(p.Description)
		if name == "" && desc == "" {
			continue
		}
		if name == "" {
			name = "Unnamed Character"
		}
		if desc == "" {
			desc = "No text description provided."
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", name, desc))
	}
	if len(lines) == 0 {
		return ""
	}
	return "\nCharacter Descriptions (Text):\n" + strings.Join(lines, "\n")
}

func imageReferences(profiles []domain.CharacterProfile) (string, []outbound.InlinePart) {
	names := make([]string, 0)
	parts := make([]outbound.InlinePart, 0)
	for _, p := range profiles {
		name := strings.TrimSpace(p.Name)
		if !p.HasImage() || name == "" {
			continue
		}
		names = append(names, "- "+name)
		parts = append(parts, outbound.InlinePart{MimeType: p.MimeType, Data: p.Image})
	}
	if len(names) == 0 {
		return "", parts
	}
	block := "\n---\nCHARACTER IMAGE REFERENCES:\n" +
		"The following characters MUST be described based on the provided images. Their physical appearance must be consistent with their image.\n" +
		strings.Join(names, "\n") + "\n---"
	return block, parts
}

func (b *RequestBuilder) settingsBlock(inputs domain.FormInputs, rc ruleContext) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString("Video Overview: " + b.overview(inputs) + "\n")
	sb.WriteString(characterRoster(inputs.CharacterProfiles) + "\n")
	sb.WriteString("Video Style: " + b.styleClause(inputs.VideoStyle) + "\n")
	sb.WriteString("Desired Duration: " + rc.pacing.durationLabel() + "\n")
	sb.WriteString("Country Context: " + inputs.Country + "\n")
	sb.WriteString("Dialogue Language: " + b.dialogueLanguage(inputs) + "\n")
	clauses := b.activeClauses(rc, false)
	if len(clauses) > 0 {
		sb.WriteString("ACTIVE ENFORCEMENT RULES:\n")
		for _, c := range clauses {
			sb.WriteString("- " + c + "\n")
		}
	}
	sb.WriteString("---\n")
	return sb.String()
}

func (b *RequestBuilder) BuildBatch(inputs domain.FormInputs) outbound.ModelRequest {
	inputs = inputs.Normalize()
	rc := b.ruleContext(inputs)

	autoSplit := "No, treat the entire description as a single scene."
	if inputs.AutoSplit {
		autoSplit = "Yes, determine the number and content of scenes logically based on the story and desired duration."
	}

	constraints := []string{
		"Timing: Each scene prompt MUST be designed for an 8-second video clip. The amount of dialogue and action must be realistically achievable in 8 seconds.",
		"Video Style: " + b.styleClause(inputs.VideoStyle) + " Every single generated scene must reflect this style.",
		"Country Context: Tailor the content, visuals, and any subtle references to be engaging for an audience in: " + inputs.Country + ".",
		fmt.Sprintf("Dialogue Language: Dialogue MUST be in the following language: %s. If 'Default', choose the most appropriate language based on the context. "+
			"If '%s', the dialogue field should be empty or '%s'.", b.dialogueLanguage(inputs), b.presets.NoDialogueLanguage, domain.NoDialogueSentinel),
		"Auto-split scenes: " + autoSplit,
		"No Subtitles: The generated video must be completely free of any burned-in text or subtitles on the screen. Do not describe any text in the 'visuals' field.",
	}
	constraints = append(constraints, b.activeClauses(rc, true)...)

	numbered := make([]string, len(constraints))
	for i, c := range constraints {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, c)
	}

	var sb strings.Builder
	sb.WriteString("Based on the following video overview, generate a sequence of scene prompts.\n---\n")
	sb.WriteString("Video Overview: " + b.overview(inputs) + "\n")
	sb.WriteString(characterRoster(inputs.CharacterProfiles) + "\n")
	sb.WriteString(rc.pacing.lengthBlock() + "\n")
	sb.WriteString("---\nCRITICAL CONSTRAINTS:\n")
	sb.WriteString(strings.Join(numbered, "\n") + "\n")

	refs, parts := imageReferences(inputs.CharacterProfiles)
	sb.WriteString(refs)
	sb.WriteString("\nGenerate the output following the JSON schema precisely. Remember that all descriptive fields must be in English, " +
		"but the dialogue must be in the specified language. Ensure pacing and continuity.")

	return outbound.ModelRequest{
		Op:                BatchOp,
		Model:             b.settings.ProModel,
		SystemInstruction: b.systemInstruction(),
		Prompt:            sb.String(),
		Parts:             parts,
		Schema:            sceneListSchema(b.settings.DisplayLanguage),
		Temperature:       batchTemperature,
	}
}

func (b *RequestBuilder) BuildRewrite(scene domain.Scene, action domain.RewriteAction, inputs domain.FormInputs, allScenes []domain.Scene) outbound.ModelRequest {
	inputs = inputs.Normalize()
	rc := b.ruleContext(inputs)

	task := "Create an alternative version of this scene. Change the events, dialogue, or outcome in a creative way, while still fitting into the overall story."
	if action == domain.ExpandRewriteAction {
		task = "Expand on the details of this scene. Make the descriptions for visuals, camera, and audio more elaborate and vivid, while keeping the core action the same."
	}

	var sb strings.Builder
	sb.WriteString("I need to rewrite a scene for a video with the following overall settings:\n")
	sb.WriteString(b.settingsBlock(inputs, rc))
	sb.WriteString("Here is the original scene data:\n")
	sb.WriteString(indentJSON(scene) + "\n---")

	previous := domain.ScenesBefore(allScenes, scene.SceneNumber)
	if len(previous) > 0 {
		sb.WriteString("\n---\nCHARACTER CONTEXT FROM PREVIOUS SCENES:\n")
		sb.WriteString("To ensure consistency, here are the character descriptions from the scenes leading up to this one. " +
			"The rewritten scene's characters MUST be consistent with these established descriptions, unless a story-driven change is necessary (like a change of clothes).\n")
		for _, s := range previous {
			sb.WriteString(fmt.Sprintf("- Scene %d Characters: %s\n", s.SceneNumber, s.CharacterDescription))
		}
		sb.WriteString("---")
	}

	sb.WriteString("\nYour task: " + task + "\n")
	sb.WriteString(fmt.Sprintf("- Maintain the scene number (%d).\n", scene.SceneNumber))
	sb.WriteString(fmt.Sprintf("- The rewritten scene MUST adhere to the overall Video Style: '%s'.\n", inputs.VideoStyle))
	sb.WriteString("- CRITICAL: Ensure the rewritten scene still adheres to the 8-second duration rule. All action and dialogue must be paced to 8 seconds.\n")
	sb.WriteString("- CHARACTER CONSISTENCY: Your rewritten scene must be consistent with the characters established in the previous scenes (context provided above) " +
		"and the reference images if any. Provide a full description for every character in this scene. You MUST use the 'NAME: Description' format for each character.\n")
	sb.WriteString("- Dialogue Format: Ensure all dialogue is clearly attributed to a character using 'CHARACTER NAME: [dialogue]'.\n")
	sb.WriteString(fmt.Sprintf("- Country Context: Reflect the '%s' context.\n", inputs.Country))
	sb.WriteString("- No Subtitles: The rewritten scene must not include any request for burned-in text or subtitles. The visuals must not contain any text.\n")
	sb.WriteString("- SAFETY: Ensure the rewritten scene remains fully compliant with Google's safety policies and avoids all prohibited content.\n")
	sb.WriteString("- CRITICAL: Adhere to every active enforcement rule listed in the settings above.\n")
	sb.WriteString("- Ensure your new version maintains continuity with the potential overall story.")

	refs, parts := imageReferences(inputs.CharacterProfiles)
	sb.WriteString(refs)
	sb.WriteString(fmt.Sprintf("\nGenerate the output as a single JSON object adhering to the provided schema. Remember the language rule: "+
		"descriptive fields in English, dialogue in '%s'. The 'shortDescription' must be in %s.", b.dialogueLanguage(inputs), b.settings.DisplayLanguage))

	return outbound.ModelRequest{
		Op:                RewriteOp,
		Model:             b.settings.ProModel,
		SystemInstruction: b.systemInstruction(),
		Prompt:            sb.String(),
		Parts:             parts,
		Schema:            sceneSchema(b.settings.DisplayLanguage),
		Temperature:       rewriteTemperature,
	}
}

func (b *RequestBuilder) BuildTranslate(scene domain.Scene, targetLanguage string) outbound.ModelRequest {
	prompt := fmt.Sprintf("Translate the following scene object into %s.\n\nOriginal Scene:\n%s\n\nReturn only the translated JSON object.",
		targetLanguage, indentJSON(scene))

	return outbound.ModelRequest{
		Op:                TranslateOp,
		Model:             b.settings.FlashModel,
		SystemInstruction: translatorInstruction,
		Prompt:            prompt,
		Schema:            sceneSchema(b.settings.DisplayLanguage),
		Temperature:       translateTemperature,
	}
}

// NextSceneNumber is the number a continuation of scenes must carry.
func NextSceneNumber(scenes []domain.Scene) int {
	return len(scenes) + 1
}

func (b *RequestBuilder) BuildNextScene(prompt string, allScenes []domain.Scene, inputs domain.FormInputs) outbound.ModelRequest {
	inputs = inputs.Normalize()
	rc := b.ruleContext(inputs)
	next := NextSceneNumber(allScenes)

	if allScenes == nil {
		allScenes = []domain.Scene{}
	}

	var sb strings.Builder
	sb.WriteString("I need to generate the NEXT scene in a sequence for a video with the following overall settings:\n")
	sb.WriteString(b.settingsBlock(inputs, rc))
	sb.WriteString(fmt.Sprintf("Here is what the user wants for the next scene: \"%s\"\n---\n", prompt))
	sb.WriteString("CONTEXT - ALL PREVIOUS SCENES:\n")
	sb.WriteString("To ensure perfect continuity, here is the full data for all the scenes that have happened so far. The new scene must follow logically from these.\n")
	sb.WriteString(indentJSON(allScenes) + "\n---\n")
	sb.WriteString(fmt.Sprintf("Your task: Generate scene number %d.\n", next))
	sb.WriteString("- The new scene MUST continue the story logically from the previous scenes.\n")
	sb.WriteString(fmt.Sprintf("- It MUST fulfill the user's request: \"%s\".\n", prompt))
	sb.WriteString("- CRITICAL: Ensure the new scene still adheres to the 8-second duration rule. All action and dialogue must be paced to 8 seconds.\n")
	sb.WriteString("- CHARACTER CONSISTENCY: Your new scene must be consistent with the characters established in the previous scenes. " +
		"Provide a full description for every character in this scene. You MUST use the 'NAME: Description' format for each character.\n")
	sb.WriteString(fmt.Sprintf("- The new scene MUST adhere to the overall Video Style: '%s'.\n", inputs.VideoStyle))
	sb.WriteString("- Dialogue Format: Ensure all dialogue is clearly attributed to a character using 'CHARACTER NAME: [dialogue]'.\n")
	sb.WriteString(fmt.Sprintf("- Country Context: Reflect the '%s' context.\n", inputs.Country))
	sb.WriteString("- No Subtitles: The new scene must not include any request for burned-in text or subtitles.\n")
	sb.WriteString("- SAFETY: Ensure the new scene remains fully compliant with Google's safety policies.\n")
	sb.WriteString("- CRITICAL: Adhere to every active enforcement rule listed in the settings above.")

	refs, parts := imageReferences(inputs.CharacterProfiles)
	sb.WriteString(refs)
	sb.WriteString(fmt.Sprintf("\nGenerate the output as a single JSON object adhering to the provided schema for scene number %d. "+
		"Remember the language rule: descriptive fields in English, dialogue in '%s'. The 'shortDescription' must be in %s.",
		next, b.dialogueLanguage(inputs), b.settings.DisplayLanguage))

	return outbound.ModelRequest{
		Op:                NextSceneOp,
		Model:             b.settings.ProModel,
		SystemInstruction: b.systemInstruction(),
		Prompt:            sb.String(),
		Parts:             parts,
		Schema:            sceneSchema(b.settings.DisplayLanguage),
		Temperature:       nextSceneTemperature,
	}
}

func (b *RequestBuilder) BuildSuggestion(brief string, language string, duration string, includeDialogue bool) outbound.ModelRequest {
	if strings.TrimSpace(duration) == "" {
		duration = "Not specified"
	}
	dialogue := "No, focus only on the narrative description of events and characters."
	if includeDialogue {
		dialogue = "Yes, please weave key moments of sample dialogue into the narrative summary to bring the characters to life."
	}

	prompt := fmt.Sprintf("Here is my brief story idea. Please expand it into a detailed narrative summary for a short film.\n---\n"+
		"Brief Idea: \"%s\"\n---\n"+
		"Constraints for the suggestion:\n"+
		"- Desired Duration: %s. Please craft a story that can be realistically told within this timeframe.\n"+
		"- Include Dialogue: %s\n---\n", brief, duration, dialogue)

	return outbound.ModelRequest{
		Op:                SuggestOp,
		Model:             b.settings.ProModel,
		SystemInstruction: fmt.Sprintf(coWriterInstruction, language),
		Prompt:            prompt,
		Temperature:       suggestionTemperature,
	}
}

func indentJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
