package siteconfig

import (
	_ "embed"
	"fmt"
	"os"
	// settings timezones must resolve in minimal containers
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var embeddedDefaults []byte

// Defaults are the values a fresh deployment starts with.
type Defaults struct {
	Layout   LayoutConfig   `yaml:"layout"`
	Settings SystemSettings `yaml:"settings"`
}

// LoadDefaults parses the embedded defaults and, when path is set, overlays the file at path.
func LoadDefaults(path string) (Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(embeddedDefaults, &d); err != nil {
		return Defaults{}, fmt.Errorf("parse embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Defaults{}, fmt.Errorf("read defaults: %w", err)
		}
		if err := yaml.Unmarshal(data, &d); err != nil {
			return Defaults{}, fmt.Errorf("parse defaults %s: %w", path, err)
		}
	}

	d.Layout.BackgroundImageURL = blankToNil(d.Layout.BackgroundImageURL)
	d.Settings.LogoURL = blankToNil(d.Settings.LogoURL)
	d.Layout.IsActive = true

	if err := ValidateLayout(d.Layout); err != nil {
		return Defaults{}, fmt.Errorf("validate defaults: %w", err)
	}
	if err := ValidateSettings(d.Settings); err != nil {
		return Defaults{}, fmt.Errorf("validate defaults: %w", err)
	}
	return d, nil
}
