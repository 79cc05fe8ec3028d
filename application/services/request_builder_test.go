package services

import (
	"testing"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/catalog"
	"veo-prompt-director/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	asmrStyle        = "ASMR (Autonomous Sensory Meridian Response)"
	prehistoricStyle = "Phim tài liệu điện ảnh về thời tiền sử (Cinematic Prehistoric Documentary)"
)

func newTestBuilder(t *testing.T) *RequestBuilder {
	t.Helper()
	presets, err := catalog.Load()
	require.NoError(t, err)
	return NewRequestBuilder(presets, ModelSettings{
		ProModel:        "gemini-2.5-pro",
		FlashModel:      "gemini-2.5-flash",
		DisplayLanguage: "Vietnamese",
	})
}

func baseInputs() domain.FormInputs {
	return domain.FormInputs{
		Description:       "A street vendor finds a lost puppy",
		Country:           "Việt Nam",
		Languages:         "Tiếng Việt",
		VideoStyle:        "Điện ảnh (Cinematic)",
		AutoSplit:         true,
		Accent:            "Mặc định",
		DurationInMinutes: "2",
		ControlMode:       domain.DurationControlMode,
	}
}

func TestResolvePacing(t *testing.T) {
	t.Run("duration is a hint", func(t *testing.T) {
		p := ResolvePacing(baseInputs())
		assert.Equal(t, 15, p.SceneCountHint)
		assert.False(t, p.HardSceneCount)
		assert.Equal(t, "2 minutes", p.DurationLabel)
		assert.Equal(t, 120, p.EstimatedSeconds)
	})

	t.Run("fractional minutes round", func(t *testing.T) {
		in := baseInputs()
		in.DurationInMinutes = "0.5"
		assert.Equal(t, 4, ResolvePacing(in).SceneCountHint)
	})

	t.Run("scene count is hard", func(t *testing.T) {
		in := baseInputs()
		in.ControlMode = domain.ScenesControlMode
		in.SceneCount = "5"
		p := ResolvePacing(in)
		assert.True(t, p.HardSceneCount)
		assert.Equal(t, 5, p.SceneCount)
		assert.Equal(t, 40, p.EstimatedSeconds)
		assert.Empty(t, p.DurationLabel)
	})

	t.Run("invalid values give no pacing", func(t *testing.T) {
		in := baseInputs()
		in.DurationInMinutes = "abc"
		assert.Equal(t, Pacing{}, ResolvePacing(in))

		in.ControlMode = domain.ScenesControlMode
		in.SceneCount = "-2"
		assert.Equal(t, Pacing{}, ResolvePacing(in))
	})
}

func TestBuildBatch_DurationMode(t *testing.T) {
	req := newTestBuilder(t).BuildBatch(baseInputs())

	assert.Equal(t, BatchOp, req.Op)
	assert.Equal(t, "gemini-2.5-pro", req.Model)
	assert.Equal(t, 0.8, req.Temperature)
	assert.Contains(t, req.Prompt, "Desired Duration: 2 minutes")
	assert.Contains(t, req.Prompt, "about 15 scenes")
	assert.NotContains(t, req.Prompt, "CRITICAL SCENE COUNT")
	assert.Contains(t, req.SystemInstruction, "'shortDescription' field, which MUST be written in Vietnamese")

	require.NotNil(t, req.Schema)
	assert.Equal(t, outbound.ArraySchemaType, req.Schema.Properties["scenes"].Type)
	assert.Equal(t, sceneKeys, req.Schema.Properties["scenes"].Items.Required)
}

func TestBuildBatch_SceneCountIsHard(t *testing.T) {
	in := baseInputs()
	in.ControlMode = domain.ScenesControlMode
	in.SceneCount = "5"

	req := newTestBuilder(t).BuildBatch(in)

	assert.Contains(t, req.Prompt, "You MUST generate exactly 5 scenes")
	assert.Contains(t, req.Prompt, "Target Scene Count: 5 scenes (This is the primary directive).")
	assert.Contains(t, req.Prompt, "Estimated Total Duration: ~40 seconds.")
	assert.NotContains(t, req.Prompt, "Desired Duration:")
}

func TestBuildBatch_BaseConstraints(t *testing.T) {
	in := baseInputs()
	in.AutoSplit = false

	req := newTestBuilder(t).BuildBatch(in)

	for i, prefix := range []string{"Timing:", "Video Style:", "Country Context:", "Dialogue Language:", "Auto-split scenes:", "No Subtitles:"} {
		assert.Contains(t, req.Prompt, "\n"+string(rune('1'+i))+". "+prefix)
	}
	assert.Contains(t, req.Prompt, "The English term for this style is 'Cinematic'.")
	assert.Contains(t, req.Prompt, "No, treat the entire description as a single scene.")
	assert.NotContains(t, req.Prompt, "\n7. ")
}

func TestBuildBatch_ConstraintRules(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(in *domain.FormInputs)
		heading string
		clause  string
	}{
		{"silent score", func(in *domain.FormInputs) { in.VideoStyle = asmrStyle }, "ASMR STYLE ENFORCEMENT", "No musical score is allowed."},
		{"no singing", func(in *domain.FormInputs) { in.NoSinging = true }, "No-Singing Enforcement", "purely instrumental"},
		{"accent", func(in *domain.FormInputs) { in.Accent = "Giọng miền Nam" }, "ACCENT ENFORCEMENT", "consistent 'Giọng miền Nam' accent"},
		{"full dialogue", func(in *domain.FormInputs) { in.FullDialogue = true }, "FULL DIALOGUE MODE", "dialogue-heavy"},
	}

	b := newTestBuilder(t)
	plain := b.BuildBatch(baseInputs())

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseInputs()
			tc.mutate(&in)

			req := b.BuildBatch(in)

			assert.Contains(t, req.Prompt, "7. "+tc.heading)
			assert.Contains(t, req.Prompt, tc.clause)
			assert.NotContains(t, plain.Prompt, tc.clause)
		})
	}
}

func TestBuildBatch_RuleOrder(t *testing.T) {
	in := baseInputs()
	in.VideoStyle = asmrStyle
	in.NoSinging = true
	in.Accent = "Giọng miền Bắc"
	in.FullDialogue = true
	in.ControlMode = domain.ScenesControlMode
	in.SceneCount = "3"

	req := newTestBuilder(t).BuildBatch(in)

	assert.Contains(t, req.Prompt, "7. ASMR STYLE ENFORCEMENT")
	assert.Contains(t, req.Prompt, "8. No-Singing Enforcement")
	assert.Contains(t, req.Prompt, "9. ACCENT ENFORCEMENT")
	assert.Contains(t, req.Prompt, "10. FULL DIALOGUE MODE")
	assert.Contains(t, req.Prompt, "11. CRITICAL SCENE COUNT")
}

func TestBuildBatch_NoDialogueForcesLanguage(t *testing.T) {
	in := baseInputs()
	in.NoDialogue = true
	in.FullDialogue = true

	req := newTestBuilder(t).BuildBatch(in)

	assert.Contains(t, req.Prompt, "Dialogue MUST be in the following language: Không có hội thoại.")
	assert.NotContains(t, req.Prompt, "FULL DIALOGUE MODE")
}

func TestBuildBatch_PrehistoricOverride(t *testing.T) {
	in := baseInputs()
	in.VideoStyle = prehistoricStyle

	req := newTestBuilder(t).BuildBatch(in)

	assert.Contains(t, req.Prompt, `The main character IS a prehistoric human (Homo habilis).`)
	assert.Contains(t, req.Prompt, `The user's story idea is: "A street vendor finds a lost puppy"`)
}

func TestBuildBatch_CharacterRoster(t *testing.T) {
	in := baseInputs()
	in.CharacterProfiles = []domain.CharacterProfile{
		{ID: "1", Name: " Lan ", Description: "a vendor", Image: "aW1n", MimeType: "image/png"},
		{ID: "2", Name: "", Description: "a stray puppy"},
		{ID: "3", Name: "Tuan", Description: ""},
		{ID: "4", Name: "  ", Description: " "},
		{ID: "5", Name: "", Description: "ghost", Image: "eA==", MimeType: "image/png"},
	}

	req := newTestBuilder(t).BuildBatch(in)

	assert.Contains(t, req.Prompt, "Character Descriptions (Text):\n- Lan: a vendor\n- Unnamed Character: a stray puppy\n- Tuan: No text description provided.\n- Unnamed Character: ghost")
	assert.Contains(t, req.Prompt, "CHARACTER IMAGE REFERENCES:")
	assert.Contains(t, req.Prompt, "consistent with their image.\n- Lan\n---")
	require.Len(t, req.Parts, 1)
	assert.Equal(t, outbound.InlinePart{MimeType: "image/png", Data: "aW1n"}, req.Parts[0])
}

func TestBuildBatch_ImageWithoutMimeTypeIsNotReferenced(t *testing.T) {
	in := baseInputs()
	in.CharacterProfiles = []domain.CharacterProfile{
		{ID: "1", Name: "LAN", Description: "a vendor", Image: "aGVsbG8="},
	}

	req := newTestBuilder(t).BuildBatch(in)

	assert.Contains(t, req.Prompt, "- LAN: a vendor")
	assert.NotContains(t, req.Prompt, "CHARACTER IMAGE REFERENCES")
	assert.Empty(t, req.Parts)
}

func TestBuildBatch_NoImageBlockWithoutImages(t *testing.T) {
	req := newTestBuilder(t).BuildBatch(baseInputs())

	assert.NotContains(t, req.Prompt, "CHARACTER IMAGE REFERENCES")
	assert.NotContains(t, req.Prompt, "Character Descriptions (Text)")
	assert.Empty(t, req.Parts)
}

func TestBuildRewrite(t *testing.T) {
	scenes := []domain.Scene{testScene(1), testScene(2), testScene(3), testScene(4)}
	scenes[0].CharacterDescription = "- LAN: in red"
	scenes[1].CharacterDescription = "- LAN: in blue"
	scenes[3].CharacterDescription = "- LAN: in green"

	in := baseInputs()
	in.ControlMode = domain.ScenesControlMode
	in.SceneCount = "4"
	in.NoSinging = true

	req := newTestBuilder(t).BuildRewrite(scenes[2], domain.ExpandRewriteAction, in, scenes)

	assert.Equal(t, RewriteOp, req.Op)
	assert.Equal(t, 0.9, req.Temperature)
	assert.Contains(t, req.Prompt, "- Scene 1 Characters: - LAN: in red\n- Scene 2 Characters: - LAN: in blue\n")
	assert.NotContains(t, req.Prompt, "Scene 4 Characters")
	assert.NotContains(t, req.Prompt, "Scene 3 Characters")
	assert.Contains(t, req.Prompt, "Maintain the scene number (3).")
	assert.Contains(t, req.Prompt, "Expand on the details of this scene.")
	assert.Contains(t, req.Prompt, `"sceneNumber": 3`)
	assert.Contains(t, req.Prompt, "Desired Duration: ~32 seconds")
	assert.Contains(t, req.Prompt, "ACTIVE ENFORCEMENT RULES:\n- No-Singing Enforcement")
	assert.NotContains(t, req.Prompt, "CRITICAL SCENE COUNT")

	require.NotNil(t, req.Schema)
	assert.Equal(t, outbound.ObjectSchemaType, req.Schema.Type)
	assert.Contains(t, req.Schema.Properties, "sceneNumber")
}

func TestBuildRewrite_FirstSceneHasNoContinuity(t *testing.T) {
	scenes := []domain.Scene{testScene(1), testScene(2)}

	req := newTestBuilder(t).BuildRewrite(scenes[0], domain.AlternativeRewriteAction, baseInputs(), scenes)

	assert.NotContains(t, req.Prompt, "CHARACTER CONTEXT FROM PREVIOUS SCENES")
	assert.Contains(t, req.Prompt, "Create an alternative version of this scene.")
	assert.NotContains(t, req.Prompt, "ACTIVE ENFORCEMENT RULES")
}

func TestBuildTranslate(t *testing.T) {
	req := newTestBuilder(t).BuildTranslate(testScene(2), "English")

	assert.Equal(t, TranslateOp, req.Op)
	assert.Equal(t, "gemini-2.5-flash", req.Model)
	assert.Equal(t, 0.2, req.Temperature)
	assert.Contains(t, req.SystemInstruction, "DO NOT translate the JSON keys")
	assert.Contains(t, req.Prompt, "Translate the following scene object into English.")
	assert.Contains(t, req.Prompt, `"sceneNumber": 2`)
	assert.Equal(t, outbound.ObjectSchemaType, req.Schema.Type)
}

func TestBuildNextScene(t *testing.T) {
	scenes := []domain.Scene{testScene(1), testScene(2), testScene(3)}
	in := baseInputs()
	in.VideoStyle = asmrStyle

	req := newTestBuilder(t).BuildNextScene("the puppy runs away", scenes, in)

	assert.Equal(t, NextSceneOp, req.Op)
	assert.Equal(t, 0.85, req.Temperature)
	assert.Contains(t, req.Prompt, "Your task: Generate scene number 4.")
	assert.Contains(t, req.Prompt, `Here is what the user wants for the next scene: "the puppy runs away"`)
	assert.Contains(t, req.Prompt, `"sceneNumber": 3`)
	assert.Contains(t, req.Prompt, "ASMR STYLE ENFORCEMENT")
	assert.Equal(t, 4, NextSceneNumber(scenes))
}

func TestBuildSuggestion(t *testing.T) {
	b := newTestBuilder(t)

	req := b.BuildSuggestion("a lost puppy", "English", "", true)

	assert.Equal(t, SuggestOp, req.Op)
	assert.Nil(t, req.Schema)
	assert.Equal(t, 0.85, req.Temperature)
	assert.Contains(t, req.SystemInstruction, "MUST be written in English.")
	assert.Contains(t, req.Prompt, `Brief Idea: "a lost puppy"`)
	assert.Contains(t, req.Prompt, "Desired Duration: Not specified.")
	assert.Contains(t, req.Prompt, "Include Dialogue: Yes")

	req = b.BuildSuggestion("a lost puppy", "English", "30 seconds", false)
	assert.Contains(t, req.Prompt, "Desired Duration: 30 seconds.")
	assert.Contains(t, req.Prompt, "Include Dialogue: No")
}
