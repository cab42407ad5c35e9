package enge

import (
	"os"
	"path/filepath"
)

const (
	DefaultAppName = "enge-ai"

	DefaultModelName   = "llama3.2"
	DefaultAPIEndpoint = "http://localhost:11434"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024

	DefaultScenarioTemperature = 0.8
	DefaultTemplatesDir        = "database/scenario_templates"
	DefaultExportFile          = "generated_scenarios.json"

	DefaultLogFile = "enge_ai.log"
)

// DefaultConfigPath is the per-user configuration directory.
var DefaultConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", DefaultAppName)
	}
	return filepath.Join(home, ".config", DefaultAppName)
}()
