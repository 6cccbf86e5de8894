// internal/appconfig/character.go
package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Character is the agent persona definition forwarded to the runtime when a
// benchmark session starts. Only the name is interpreted here; the rest of
// the document passes through untouched.
type Character struct {
	Name string          `json:"name"`
	Raw  json.RawMessage `json:"-"`
}

// LoadCharacter reads and parses a character file. A missing or malformed
// file is a fatal configuration error; a config without a character path
// yields a nil character.
func LoadCharacter(path string) (*Character, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read character %s: %w", path, err)
	}

	var character Character
	if err := json.Unmarshal(data, &character); err != nil {
		return nil, fmt.Errorf("parse character %s: %w", path, err)
	}
	if strings.TrimSpace(character.Name) == "" {
		return nil, fmt.Errorf("character %s: name is required", path)
	}
	character.Raw = json.RawMessage(data)
	return &character, nil
}
