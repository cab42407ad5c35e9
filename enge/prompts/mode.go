// Package prompts holds the fixed system prompts for each tutoring mode and
// the templates used to request generated scenarios.
package prompts

import "strings"

// Mode selects the tutor's interaction style.
type Mode string

const (
	ModeGeneral            Mode = "general"
	ModeConceptExplanation Mode = "concept_explanation"
	ModeProblemSolving     Mode = "problem_solving"
	ModeCriticalThinking   Mode = "critical_thinking"
)

// Modes lists every mode in display order.
func Modes() []Mode {
	return []Mode{ModeGeneral, ModeConceptExplanation, ModeProblemSolving, ModeCriticalThinking}
}

// ParseMode maps a mode name to a Mode. Unknown names map to ModeGeneral.
func ParseMode(s string) Mode {
	switch m := Mode(strings.TrimSpace(s)); m {
	case ModeGeneral, ModeConceptExplanation, ModeProblemSolving, ModeCriticalThinking:
		return m
	default:
		return ModeGeneral
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeGeneral, ModeConceptExplanation, ModeProblemSolving, ModeCriticalThinking:
		return true
	}
	return false
}

func (m Mode) String() string { return string(m) }

// SystemPrompt returns the system prompt for m, falling back to the general
// tutor prompt for anything unrecognised.
func SystemPrompt(m Mode) string {
	switch m {
	case ModeConceptExplanation:
		return conceptExplanationPrompt
	case ModeProblemSolving:
		return problemSolvingPrompt
	case ModeCriticalThinking:
		return criticalThinkingPrompt
	case ModeGeneral:
		return generalTutorPrompt
	default:
		return generalTutorPrompt
	}
}

// SystemPromptFor is SystemPrompt keyed by a raw mode name.
func SystemPromptFor(name string) string {
	return SystemPrompt(ParseMode(name))
}
