package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/ludo-technologies/libfinder/domain"
	"github.com/ludo-technologies/libfinder/internal/constants"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds all values used to render the default config template
type DefaultConfigValues struct {
	AliasThreshold            float64
	AliasScope                string
	MaxSequenceDelta          int
	MinParameterBound         int
	ParameterSlackNumerator   int
	ParameterSlackDenominator int
	SourcePatterns            string
	MaxCombinedScore          float64
}

func newDefaultConfigValues() DefaultConfigValues {
	quoted := make([]string, len(constants.DefaultSourcePatterns))
	for i, p := range constants.DefaultSourcePatterns {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	return DefaultConfigValues{
		AliasThreshold:            constants.DefaultAliasThreshold,
		AliasScope:                constants.AliasScopeAll,
		MaxSequenceDelta:          constants.DefaultMaxSequenceDelta,
		MinParameterBound:         constants.DefaultMinParameterBound,
		ParameterSlackNumerator:   constants.DefaultParameterSlackNumerator,
		ParameterSlackDenominator: constants.DefaultParameterSlackDenominator,
		SourcePatterns:            strings.Join(quoted, ", "),
		MaxCombinedScore:          constants.DefaultMaxCombinedScore,
	}
}

// GenerateDefaultConfigTOML renders the default config template
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}

// WriteDefaultConfig writes the rendered default configuration to path
func WriteDefaultConfig(path string) error {
	content, err := GenerateDefaultConfigTOML()
	if err != nil {
		return domain.NewConfigError("failed to generate default configuration", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return domain.NewConfigError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
