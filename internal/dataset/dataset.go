// internal/dataset/dataset.go

// Package dataset loads the audio sample sets a benchmark run iterates
// over. A dataset file is JSON with a name and a list of samples, each
// pointing at an audio file and optionally carrying the expected
// transcript for accuracy scoring.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Sample is one audio input for the benchmark. ExpectedText is nil when the
// dataset carries no ground-truth transcript for the sample.
type Sample struct {
	ID           string
	AudioPath    string
	ExpectedText *string
}

// Audio reads the sample's audio file.
func (s Sample) Audio() ([]byte, error) {
	data, err := os.ReadFile(s.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio for sample %q: %w", s.ID, err)
	}
	return data, nil
}

// Dataset is an immutable, fully resolved sample set.
type Dataset struct {
	Name    string
	Path    string
	Samples []Sample
}

// datasetSchema is the structural contract a dataset file must satisfy
// before per-sample semantic checks run.
var datasetSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"datasetName": map[string]any{"type": "string"},
		"name":        map[string]any{"type": "string"},
		"samples": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]any{"type": "object"},
		},
	},
	"required": []any{"samples"},
}

type rawSample struct {
	ID           string `json:"id"`
	AudioPath    string `json:"audioPath"`
	AudioPathAlt string `json:"audio_path"`
	Text         string `json:"text"`
	ExpectedText string `json:"expectedText"`
	Label        string `json:"label"`
}

type rawDataset struct {
	DatasetName string      `json:"datasetName"`
	Name        string      `json:"name"`
	Samples     []rawSample `json:"samples"`
}

// Load reads, validates, and resolves a dataset file. Relative audio paths
// are resolved against the dataset file's directory.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	schemaLoader := gojsonschema.NewGoLoader(datasetSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validate dataset %s: %w", path, err)
	}
	if !result.Valid() {
		var issues []string
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("dataset %s failed validation: %s", path, strings.Join(issues, "; "))
	}

	var raw rawDataset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	name := raw.DatasetName
	if name == "" {
		name = raw.Name
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	baseDir := filepath.Dir(path)
	samples := make([]Sample, 0, len(raw.Samples))
	for i, entry := range raw.Samples {
		id := entry.ID
		if id == "" {
			id = fmt.Sprintf("sample-%d", i+1)
		}
		audioPath := entry.AudioPath
		if audioPath == "" {
			audioPath = entry.AudioPathAlt
		}
		if audioPath == "" {
			return nil, fmt.Errorf("dataset %s: sample %q has no audioPath", path, id)
		}
		if !filepath.IsAbs(audioPath) {
			audioPath = filepath.Join(baseDir, audioPath)
		}

		sample := Sample{ID: id, AudioPath: audioPath}
		if expected := firstNonEmpty(entry.Text, entry.ExpectedText, entry.Label); expected != "" {
			sample.ExpectedText = &expected
		}
		samples = append(samples, sample)
	}

	return &Dataset{Name: name, Path: path, Samples: samples}, nil
}

// SingleAudio wraps a lone audio file in a one-sample dataset with no
// expected transcript, used when the run is given --audio instead of a
// dataset file.
func SingleAudio(audioPath string) *Dataset {
	return &Dataset{
		Name:    "single-audio",
		Samples: []Sample{{ID: "single-audio", AudioPath: audioPath}},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
