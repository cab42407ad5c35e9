// Package critical encodes the five-stage critical-thinking taxonomy used to
// scaffold engineering problem solving.
package critical

import (
	"strings"
)

// StageKey identifies a stage.
type StageKey string

const (
	StageIdentify StageKey = "identify"
	StageAnalyze  StageKey = "analyze"
	StageEvaluate StageKey = "evaluate"
	StageCreate   StageKey = "create"
	StageReflect  StageKey = "reflect"
)

// StageNotFoundMessage is returned by StagePrompt for unknown keys.
const StageNotFoundMessage = "Stage not found. Available stages: identify, analyze, evaluate, create, reflect."

// Stage is one step of the taxonomy.
type Stage struct {
	Key              StageKey `json:"key"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	GuidingQuestions []string `json:"prompts"`
}

// Dimension is an engineering-specific facet of critical thinking.
type Dimension struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

var stages = []Stage{
	{
		Key:         StageIdentify,
		Name:        "Identify and Define",
		Description: "Clearly identify the problem, define objectives, and establish boundaries",
		GuidingQuestions: []string{
			"What is the core problem or challenge here?",
			"What are the key variables and parameters involved?",
			"What are the objectives that need to be achieved?",
			"What assumptions are being made?",
			"What constraints or limitations must be considered?",
		},
	},
	{
		Key:         StageAnalyze,
		Name:        "Analyze",
		Description: "Break down the problem, gather relevant information, and explore relationships",
		GuidingQuestions: []string{
			"What fundamental principles or theories apply to this situation?",
			"How are the variables related to each other?",
			"What information is needed vs. what is available?",
			"What methods could be used to analyze this problem?",
			"How can the problem be broken down into manageable parts?",
		},
	},
	{
		Key:         StageEvaluate,
		Name:        "Evaluate",
		Description: "Assess potential solutions, consider alternatives, and evaluate trade-offs",
		GuidingQuestions: []string{
			"What criteria should be used to evaluate potential solutions?",
			"What are the advantages and disadvantages of each approach?",
			"How do different solutions perform under varying conditions?",
			"What are the potential risks or uncertainties?",
			"How do the solutions address the original objectives?",
		},
	},
	{
		Key:         StageCreate,
		Name:        "Create and Implement",
		Description: "Develop innovative solutions, synthesize ideas, and form implementation plans",
		GuidingQuestions: []string{
			"How can existing approaches be combined or modified to create new solutions?",
			"What novel approaches could address this challenge?",
			"How would the proposed solution be implemented?",
			"What resources would be required?",
			"How would you validate that the solution works as intended?",
		},
	},
	{
		Key:         StageReflect,
		Name:        "Reflect",
		Description: "Review the process and outcome, consider improvements, and extract lessons learned",
		GuidingQuestions: []string{
			"What worked well in the problem-solving process?",
			"What could be improved in the approach?",
			"How would you verify the accuracy of your solution?",
			"What have you learned that could apply to future problems?",
			"What broader implications does this solution have?",
		},
	},
}

var dimensions = []Dimension{
	{"technical", "Applying engineering principles, scientific laws, and mathematical models correctly"},
	{"practical", "Considering real-world constraints, feasibility, and implementation challenges"},
	{"analytical", "Breaking down complex problems into components and understanding relationships"},
	{"creative", "Developing innovative approaches and solutions to engineering challenges"},
	{"ethical", "Evaluating impacts on safety, society, environment, and ethical implications"},
	{"metacognitive", "Reflecting on the problem-solving process and one's own thinking"},
}

const enhancementPrompt = `To foster critical thinking in your responses:

1. Encourage students to question assumptions and identify constraints
2. Ask students to justify their reasoning and provide evidence
3. Present multiple perspectives or approaches when appropriate
4. Guide students to evaluate trade-offs between different solutions
5. Help students connect theoretical concepts to practical applications
6. Challenge students to reflect on their problem-solving process

When students provide answers, ask them to explain their reasoning rather than simply validating correctness.`

// Stages returns the five stages in order. The result is a deep copy.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	for i, s := range stages {
		out[i] = s.clone()
	}
	return out
}

// Dimensions returns the critical-thinking dimensions in order.
func Dimensions() []Dimension {
	return append([]Dimension(nil), dimensions...)
}

// LookupStage finds a stage by key, ignoring case and surrounding space.
func LookupStage(key string) (Stage, bool) {
	k := StageKey(strings.ToLower(strings.TrimSpace(key)))
	for _, s := range stages {
		if s.Key == k {
			return s.clone(), true
		}
	}
	return Stage{}, false
}

// StagePrompt formats a stage's name, description and guiding questions as
// a markdown block. Unknown keys yield StageNotFoundMessage.
func StagePrompt(key string) string {
	s, ok := LookupStage(key)
	if !ok {
		return StageNotFoundMessage
	}

	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(s.Name)
	b.WriteString(" Stage\n\n")
	b.WriteString(s.Description)
	b.WriteString("\n\n**Guiding Questions:**\n")
	for _, q := range s.GuidingQuestions {
		b.WriteString("- ")
		b.WriteString(q)
		b.WriteString("\n")
	}
	return b.String()
}

// EnhancementPrompt is appended to tutor system prompts to encourage
// critical thinking.
func EnhancementPrompt() string {
	return enhancementPrompt
}

// Scaffold walks a topic through every stage.
type Scaffold struct {
	Topic  string          `json:"topic"`
	Stages []ScaffoldStage `json:"stages"`
}

// ScaffoldStage is a stage annotated with a topic placeholder.
type ScaffoldStage struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	TopicContext string   `json:"topic_context"`
	Prompts      []string `json:"prompts"`
}

// ScaffoldedApproach builds a templated walk-through of all five stages for
// topic. No model call is involved.
func ScaffoldedApproach(topic string) Scaffold {
	sc := Scaffold{
		Topic:  topic,
		Stages: make([]ScaffoldStage, 0, len(stages)),
	}
	for _, s := range stages {
		sc.Stages = append(sc.Stages, ScaffoldStage{
			Name:         s.Name,
			Description:  s.Description,
			TopicContext: "For " + topic + ", this means...",
			Prompts:      append([]string(nil), s.GuidingQuestions...),
		})
	}
	return sc
}

func (s Stage) clone() Stage {
	s.GuidingQuestions = append([]string(nil), s.GuidingQuestions...)
	return s
}
