package appconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `{
	"benchmarkName": "voice-latency",
	"profile": "groq",
	"runtimeUrl": "http://localhost:7777",
	"iterations": 2,
	"responseMaxChars": 140,
	"responsePrompt": "Reply in one short sentence.",
	"modes": [{"id": "baseline", "benchmarkContext": "You are in a voice call."}],
	"audio": "testdata/hello.wav"
}`

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, validConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Profile != "groq" || cfg.Iterations != 2 || len(cfg.Modes) != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"profile": "elevenlabs",
		"runtimeUrl": "http://localhost:7777",
		"modes": [{"id": "baseline"}],
		"audio": "a.wav"
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Iterations != 3 || cfg.ResponseMaxChars != 140 || cfg.BenchmarkName != "voxbench" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	path := writeConfig(t, `{"profile": "groq"}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected schema validation error")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := Config{
		Profile:          "groq",
		RuntimeURL:       "http://localhost:7777",
		Iterations:       1,
		ResponseMaxChars: 140,
		Modes:            []Mode{{ID: "baseline"}},
		AudioPath:        "a.wav",
	}

	cases := map[string]func(c *Config){
		"unknown profile":   func(c *Config) { c.Profile = "whisper" },
		"zero iterations":   func(c *Config) { c.Iterations = 0 },
		"zero budget":       func(c *Config) { c.ResponseMaxChars = 0 },
		"no modes":          func(c *Config) { c.Modes = nil },
		"empty mode id":     func(c *Config) { c.Modes = []Mode{{ID: "  "}} },
		"no dataset source": func(c *Config) { c.AudioPath = "" },
	}
	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadCharacter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "character.json")
	if err := os.WriteFile(path, []byte(`{"name": "Vox", "bio": "benchmark persona"}`), 0o644); err != nil {
		t.Fatalf("write character: %v", err)
	}

	character, err := LoadCharacter(path)
	if err != nil {
		t.Fatalf("LoadCharacter: %v", err)
	}
	if character.Name != "Vox" || len(character.Raw) == 0 {
		t.Fatalf("unexpected character: %+v", character)
	}

	if _, err := LoadCharacter(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing character file")
	}
	if c, err := LoadCharacter(""); err != nil || c != nil {
		t.Fatalf("empty path should yield nil character, got %+v, %v", c, err)
	}
}
