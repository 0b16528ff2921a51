package heuristics

import (
	"bytes"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// rulesFile is the on-disk shape of a naming rules file:
//
//	rules:
//	  - name: qa
//	    pattern: '^qa[-.]'
//	    confidence: 0.85
type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads naming rules from a YAML file. The file replaces the
// built-in table rather than extending it.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read naming rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes a naming rules document and validates every rule.
func ParseRules(data []byte) ([]Rule, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f rulesFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse naming rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("parse naming rules: no rules defined")
	}
	if _, err := NewNamingClassifier(f.Rules); err != nil {
		return nil, fmt.Errorf("parse naming rules: %w", err)
	}
	return f.Rules, nil
}
