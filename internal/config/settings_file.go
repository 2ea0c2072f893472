// internal/config/settings_file.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"micro-ledger/internal/service"
)

// SettingsFile is the YAML form of the ledger settings. Omitted keys keep their defaults.
//
//	currency: KES
//	scale: 2
//	max_description_length: 255
type SettingsFile struct {
	Currency             string `yaml:"currency"`
	Scale                *int32 `yaml:"scale"`
	MaxDescriptionLength *int   `yaml:"max_description_length"`
}

// LoadSettingsFile reads and parses a ledger settings file.
func LoadSettingsFile(path string) (*SettingsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}

	var file SettingsFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	return &file, nil
}

func (f *SettingsFile) apply(settings service.LedgerSettings) service.LedgerSettings {
	if f.Currency != "" {
		settings.Currency = f.Currency
	}
	if f.Scale != nil {
		settings.Scale = *f.Scale
	}
	if f.MaxDescriptionLength != nil {
		settings.MaxDescriptionLength = *f.MaxDescriptionLength
	}
	return settings
}
