package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"veo-prompt-director/domain"
)

// DecodeScene parses one structured scene. Every schema key must be present
// and sceneNumber must be an integer.
func DecodeScene(data []byte) (domain.Scene, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &raw); err != nil {
		return domain.Scene{}, fmt.Errorf("%w: %v", domain.ErrInvalidModelResponse, err)
	}
	return decodeSceneFields(raw)
}

// DecodeSceneList parses a {"scenes": [...]} document. One bad scene fails the
// whole list.
func DecodeSceneList(data []byte) ([]domain.Scene, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidModelResponse, err)
	}
	rawScenes, ok := envelope["scenes"]
	if !ok {
		return nil, fmt.Errorf("%w: missing scenes", domain.ErrInvalidModelResponse)
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(rawScenes, &items); err != nil {
		return nil, fmt.Errorf("%w: scenes is not a list of objects: %v", domain.ErrInvalidModelResponse, err)
	}

	scenes := make([]domain.Scene, 0, len(items))
	for i, item := range items {
		scene, err := decodeSceneFields(item)
		if err != nil {
			return nil, fmt.Errorf("scene %d: %w", i+1, err)
		}
		scenes = append(scenes, scene)
	}
	return scenes, nil
}

func decodeSceneFields(raw map[string]json.RawMessage) (domain.Scene, error) {
	if raw == nil {
		return domain.Scene{}, fmt.Errorf("%w: scene is not an object", domain.ErrInvalidModelResponse)
	}
	for _, key := range sceneKeys {
		if _, ok := raw[key]; !ok {
			return domain.Scene{}, fmt.Errorf("%w: missing %s", domain.ErrInvalidModelResponse, key)
		}
	}

	var scene domain.Scene
	number := bytes.TrimSpace(raw["sceneNumber"])
	if bytes.Equal(number, []byte("null")) {
		return domain.Scene{}, fmt.Errorf("%w: sceneNumber is null", domain.ErrInvalidModelResponse)
	}
	if err := json.Unmarshal(number, &scene.SceneNumber); err != nil {
		return domain.Scene{}, fmt.Errorf("%w: sceneNumber is not an integer", domain.ErrInvalidModelResponse)
	}

	fields := map[string]*string{
		"shortDescription":     &scene.ShortDescription,
		"videoStyle":           &scene.VideoStyle,
		"countryContext":       &scene.CountryContext,
		"characterDescription": &scene.CharacterDescription,
		"visuals":              &scene.Visuals,
		"camera":               &scene.Camera,
		"audio":                &scene.Audio,
		"sfx":                  &scene.Sfx,
		"dialogue":             &scene.Dialogue,
		"music":                &scene.Music,
	}
	for key, dst := range fields {
		if err := json.Unmarshal(raw[key], dst); err != nil {
			return domain.Scene{}, fmt.Errorf("%w: %s is not a string", domain.ErrInvalidModelResponse, key)
		}
	}
	return scene, nil
}
