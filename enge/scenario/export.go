package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/enge-ai/enge/generation/harness"
)

const exportSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["scenario_text", "metadata"],
    "properties": {
      "id": {"type": "string"},
      "scenario_text": {"type": "string"},
      "metadata": {
        "type": "object",
        "required": ["topic", "difficulty", "type", "industry", "generated_timestamp"],
        "properties": {
          "topic": {"type": "string"},
          "difficulty": {"type": "string"},
          "type": {"type": "string"},
          "industry": {"type": "string"},
          "generated_timestamp": {"type": "string"},
          "variation_of": {"type": "string"},
          "variation_type": {"type": "string"}
        }
      }
    }
  }
}`

var exportValidator = harness.MustJSONValidator(exportSchema)

// ExportScenarios writes the full history to path as an indented JSON array.
// It returns false and logs when the file cannot be written.
func (g *Generator) ExportScenarios(path string) bool {
	history := g.History()

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		g.logger.Error().Err(err).Msg("Error encoding scenarios")
		return false
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			g.logger.Error().Err(err).Str("path", path).Msg("Error exporting scenarios")
			return false
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		g.logger.Error().Err(err).Str("path", path).Msg("Error exporting scenarios")
		return false
	}

	g.logger.Info().Int("count", len(history)).Str("path", path).Msg("Exported scenarios")
	return true
}

// LoadScenarios reads a file written by ExportScenarios.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios: %w", err)
	}
	if err := exportValidator.Validate(data); err != nil {
		return nil, fmt.Errorf("invalid scenario export %s: %w", path, err)
	}

	scenarios := []Scenario{}
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("failed to decode scenarios: %w", err)
	}
	return scenarios, nil
}
