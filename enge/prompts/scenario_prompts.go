package prompts

import (
	"strings"
	"text/template"
)

// ScenarioBasePrompt is the generic scenario-authoring instruction block.
const ScenarioBasePrompt = `You are an expert in creating educational engineering scenarios for undergraduate students.

Create a realistic, context-rich engineering scenario that:
1. Centers on a specific engineering concept or principle
2. Is situated in a real-world industrial or research context
3. Includes relevant background information and constraints
4. Contains appropriate technical details and realistic values
5. Requires application of engineering principles to solve
6. Encourages critical thinking and problem-solving
7. Is structured with clear sections for context, problem statement, available data, and deliverables
8. Is appropriate for second-year undergraduate engineering students

The scenario should be detailed enough to be engaging but focused enough to target specific learning objectives.
`

// ChemicalEngineeringPrompt narrows scenarios to core chemical engineering areas.
const ChemicalEngineeringPrompt = `Create a realistic chemical engineering scenario for undergraduate students.

The scenario should involve one or more of the following areas:
- Material and energy balances
- Fluid mechanics and transport phenomena
- Thermodynamics and phase equilibria
- Reaction kinetics and reactor design
- Separation processes
- Process control and optimization
- Biochemical processes

Include industry-specific context, realistic process parameters, and appropriate units.
The scenario should require students to apply fundamental principles while considering practical constraints.
Structure the scenario with: Background, Process Description, Problem Statement, Available Data, and Expected Deliverables.
`

// IndustryApplicationPrompt grounds scenarios in industrial practice.
const IndustryApplicationPrompt = `Create an engineering scenario set in a specific industry that demonstrates real-world application of engineering principles.

Incorporate authentic industry challenges, terminology, and practices.
Include realistic constraints such as economic considerations, safety requirements, environmental regulations, and resource limitations.
The scenario should highlight how theoretical engineering concepts are applied in industrial settings.
Make the scenario engaging by incorporating elements of current industry trends and technologies.
Ensure that all technical details, process parameters, and values are realistic for the industry context.
`

// ScenarioContext holds the parameters embedded in scenario prompts.
type ScenarioContext struct {
	Topic      string
	Difficulty string
	Type       string
	Industry   string // empty when no industry context is known
}

const scenarioSystemTemplate = `You are an expert Chemical and Biological Engineering educator.
Create a realistic, context-rich engineering scenario for undergraduate students that:
1. Focuses on the topic: {{.Topic}}
2. Has {{.Difficulty}} difficulty level
3. Is structured as a {{.Type}} problem
4. Is situated in {{if .Industry}}the {{.Industry}} industry{{else}}a general industrial setting{{end}}
5. Requires critical thinking to solve
6. Includes realistic constraints, data, and background information
7. Is structured with: Context, Problem Statement, Available Data, and Expected Deliverables
8. Does NOT include the solution`

const scenarioUserTemplate = `Generate a complete engineering scenario for a second-year Chemical Engineering course.
Topic: {{.Topic}}
Difficulty: {{.Difficulty}}
Type: {{.Type}}
Industry: {{if .Industry}}{{.Industry}}{{else}}unspecified{{end}}

Include appropriate technical details, realistic values, and industry-specific terminology.
The scenario should challenge students to apply critical thinking skills while being appropriate for second-year undergraduates.
`

var (
	scenarioSystemTmpl = template.Must(template.New("scenario_system").Parse(scenarioSystemTemplate))
	scenarioUserTmpl   = template.Must(template.New("scenario_user").Parse(scenarioUserTemplate))
)

// ScenarioSystemPrompt renders the system prompt for a scenario request.
func ScenarioSystemPrompt(sc ScenarioContext) string {
	return render(scenarioSystemTmpl, sc)
}

// ScenarioUserPrompt renders the user prompt for a scenario request.
func ScenarioUserPrompt(sc ScenarioContext) string {
	return render(scenarioUserTmpl, sc)
}

func render(tmpl *template.Template, sc ScenarioContext) string {
	var b strings.Builder
	// Execution over plain string fields cannot fail.
	_ = tmpl.Execute(&b, sc)
	return b.String()
}

// Guidance names an optional block appended to the scenario system prompt.
type Guidance string

const (
	GuidanceNone     Guidance = ""
	GuidanceBase     Guidance = "base"
	GuidanceChemical Guidance = "chemical"
	GuidanceIndustry Guidance = "industry"
)

// Text returns the guidance block, or "" for GuidanceNone and unknown values.
func (g Guidance) Text() string {
	switch g {
	case GuidanceBase:
		return ScenarioBasePrompt
	case GuidanceChemical:
		return ChemicalEngineeringPrompt
	case GuidanceIndustry:
		return IndustryApplicationPrompt
	default:
		return ""
	}
}
