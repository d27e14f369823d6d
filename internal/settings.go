package internal

import "fmt"

// DefaultModel is used until the user picks another model
const DefaultModel = "gemini-1.5-flash"

// Code policies for how a new response updates the extracted code buffers
const (
	CodePolicyCarryOver = "carry-over"
	CodePolicyReset     = "reset"
)

// Settings are the user preferences persisted in the app_settings blob
type Settings struct {
	Model           string `json:"model" yaml:"model"`
	CodePolicy      string `json:"code_policy" yaml:"code_policy"`
	SanitizePreview bool   `json:"sanitize_preview" yaml:"sanitize_preview"`
}

// DefaultSettings returns the settings used when nothing is stored
func DefaultSettings() Settings {
	return Settings{
		Model:      DefaultModel,
		CodePolicy: CodePolicyCarryOver,
	}
}

// Validate checks enumerated fields
func (s Settings) Validate() error {
	switch s.CodePolicy {
	case CodePolicyCarryOver, CodePolicyReset:
	default:
		return fmt.Errorf("invalid code policy %q (expected %s or %s)", s.CodePolicy, CodePolicyCarryOver, CodePolicyReset)
	}
	if s.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	return nil
}

// LoadSettings reads the settings blob, filling unset fields with defaults
func LoadSettings(kv KeyValueStore) (Settings, error) {
	s := DefaultSettings()
	if err := loadJSON(kv, KeySettings, &s); err != nil {
		return DefaultSettings(), err
	}
	if s.Model == "" {
		s.Model = DefaultModel
	}
	if s.CodePolicy == "" {
		s.CodePolicy = CodePolicyCarryOver
	}
	return s, nil
}

// SaveSettings validates and persists the settings blob
func SaveSettings(kv KeyValueStore, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return saveJSON(kv, KeySettings, s)
}

// ResetAll wipes every persisted key: credentials, history, settings and buffers
func ResetAll(kv KeyValueStore) error {
	return kv.Clear()
}
