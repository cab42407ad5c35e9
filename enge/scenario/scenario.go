// Package scenario generates context-rich engineering problem statements and
// parameter variations of them, keeping a session history that can be
// exported to JSON.
package scenario

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/enge-ai/enge/generation"
	"github.com/ZanzyTHEbar/enge-ai/enge/prompts"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"
)

// Difficulty of a scenario.
type Difficulty string

const (
	DifficultyBasic    Difficulty = "basic"
	DifficultyModerate Difficulty = "moderate"
	DifficultyAdvanced Difficulty = "advanced"
)

// Type is the problem format of a scenario.
type Type string

const (
	TypeCalculation Type = "calculation"
	TypeDesign      Type = "design"
	TypeAnalysis    Type = "analysis"
	TypeOpenEnded   Type = "open_ended"
)

// Difficulties and Types are the candidate sets used for variations.
var (
	Difficulties = []Difficulty{DifficultyBasic, DifficultyModerate, DifficultyAdvanced}
	Types        = []Type{TypeCalculation, TypeDesign, TypeAnalysis, TypeOpenEnded}
)

// DefaultTemperature is the sampling temperature for scenario generation.
const DefaultTemperature = 0.8

// Metadata describes how a scenario was generated.
type Metadata struct {
	Topic         string     `json:"topic"`
	Difficulty    Difficulty `json:"difficulty"`
	Type          Type       `json:"type"`
	Industry      string     `json:"industry"`
	GeneratedAt   time.Time  `json:"generated_timestamp"`
	VariationOf   string     `json:"variation_of,omitempty"`
	VariationType string     `json:"variation_type,omitempty"`
}

// Scenario is a generated problem statement. It is never mutated after
// creation.
type Scenario struct {
	ID       string   `json:"id"`
	Text     string   `json:"scenario_text"`
	Metadata Metadata `json:"metadata"`
}

// Rand is the random source used to pick industries and variation
// parameters. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Generator produces scenarios through a Completer and records them.
type Generator struct {
	gateway     generation.Completer
	templates   *Templates
	logger      zerolog.Logger
	now         func() time.Time
	newID       func() string
	temperature float64
	concurrency int
	guidance    prompts.Guidance

	randMu sync.Mutex
	rand   Rand

	mu      sync.Mutex
	history []Scenario
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand injects the random source.
func WithRand(r Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rand = r
		}
	}
}

// WithSeed seeds the default random source. Zero keeps the clock seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		if seed != 0 {
			g.rand = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
		}
	}
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithIDFunc replaces the scenario ID source.
func WithIDFunc(newID func() string) Option {
	return func(g *Generator) { g.newID = newID }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithTemperature overrides DefaultTemperature.
func WithTemperature(t float64) Option {
	return func(g *Generator) { g.temperature = t }
}

// WithVariationConcurrency bounds in-flight model calls when generating
// variations. Values below one mean sequential.
func WithVariationConcurrency(n int) Option {
	return func(g *Generator) {
		if n < 1 {
			n = 1
		}
		g.concurrency = n
	}
}

// WithGuidance appends a guidance block to every scenario system prompt.
func WithGuidance(gd prompts.Guidance) Option {
	return func(g *Generator) { g.guidance = gd }
}

// New creates a Generator with an empty history. A nil templates value is
// treated as an empty template set.
func New(gateway generation.Completer, templates *Templates, opts ...Option) *Generator {
	if templates == nil {
		templates = NewTemplates(nil, nil, nil)
	}
	now := time.Now().UnixNano()
	g := &Generator{
		gateway:     gateway,
		templates:   templates,
		logger:      zerolog.Nop(),
		now:         time.Now,
		newID:       uuid.NewString,
		temperature: DefaultTemperature,
		concurrency: 1,
		rand:        rand.New(rand.NewPCG(uint64(now), uint64(now>>1))),
		history:     []Scenario{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type request struct {
	topic      string
	difficulty Difficulty
	kind       Type
	industry   string
}

// GenerateOption overrides scenario parameters.
type GenerateOption func(*request)

func WithDifficulty(d Difficulty) GenerateOption {
	return func(r *request) { r.difficulty = d }
}

func WithType(t Type) GenerateOption {
	return func(r *request) { r.kind = t }
}

// WithIndustry fixes the industry context. An empty value means absent.
func WithIndustry(industry string) GenerateOption {
	return func(r *request) { r.industry = industry }
}

// GenerateScenario generates one scenario and appends it to the history.
// Without an industry context one is drawn from the loaded templates.
func (g *Generator) GenerateScenario(ctx context.Context, topic string, opts ...GenerateOption) Scenario {
	req := request{
		topic:      topic,
		difficulty: DifficultyModerate,
		kind:       TypeOpenEnded,
	}
	for _, opt := range opts {
		opt(&req)
	}
	if req.industry == "" {
		req.industry = g.drawIndustry()
	}

	sc := g.build(ctx, req)
	g.record(sc)
	return sc
}

// GenerateVariations derives count scenarios from base. Variation i changes
// the difficulty when i%3 == 0, the type when i%3 == 1 and both otherwise;
// each new value differs from the base value. A base without difficulty or
// type is treated as moderate or open_ended. Parameters are drawn in order
// before any model call so a seeded source gives reproducible plans.
func (g *Generator) GenerateVariations(ctx context.Context, base Scenario, count int) []Scenario {
	if count <= 0 {
		return []Scenario{}
	}

	meta := base.Metadata
	if meta.Difficulty == "" {
		meta.Difficulty = DifficultyModerate
	}
	if meta.Type == "" {
		meta.Type = TypeOpenEnded
	}
	parent := base.ID
	if parent == "" {
		parent = meta.GeneratedAt.Format(time.RFC3339Nano)
	}

	type plan struct {
		req         request
		description string
	}
	plans := make([]plan, count)
	for i := range plans {
		req := request{
			topic:      meta.Topic,
			difficulty: meta.Difficulty,
			kind:       meta.Type,
			industry:   meta.Industry,
		}
		switch i % 3 {
		case 0:
			req.difficulty = g.drawDifficulty(meta.Difficulty)
		case 1:
			req.kind = g.drawType(meta.Type)
		default:
			req.difficulty = g.drawDifficulty(meta.Difficulty)
			req.kind = g.drawType(meta.Type)
		}
		if req.industry == "" {
			req.industry = g.drawIndustry()
		}
		plans[i] = plan{req: req, description: describeVariation(meta, req)}
	}

	mapper := iter.Mapper[plan, Scenario]{MaxGoroutines: g.concurrency}
	variations := mapper.Map(plans, func(p *plan) Scenario {
		sc := g.build(ctx, p.req)
		sc.Metadata.VariationOf = parent
		sc.Metadata.VariationType = p.description
		return sc
	})

	for _, sc := range variations {
		g.record(sc)
	}

	g.logger.Info().
		Str("base", parent).
		Int("count", len(variations)).
		Msg("Generated scenario variations")
	return variations
}

// History returns a copy of every scenario generated so far, oldest first.
func (g *Generator) History() []Scenario {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Scenario{}, g.history...)
}

// Templates exposes the template set backing industry selection.
func (g *Generator) Templates() *Templates { return g.templates }

func (g *Generator) build(ctx context.Context, req request) Scenario {
	sc := prompts.ScenarioContext{
		Topic:      req.topic,
		Difficulty: string(req.difficulty),
		Type:       string(req.kind),
		Industry:   req.industry,
	}
	system := prompts.ScenarioSystemPrompt(sc)
	if extra := g.guidance.Text(); extra != "" {
		system = system + "\n\n" + extra
	}

	text := g.gateway.Generate(ctx, prompts.ScenarioUserPrompt(sc),
		generation.WithSystemPrompt(system),
		generation.WithTemperature(g.temperature))

	return Scenario{
		ID:   g.newID(),
		Text: text,
		Metadata: Metadata{
			Topic:       req.topic,
			Difficulty:  req.difficulty,
			Type:        req.kind,
			Industry:    req.industry,
			GeneratedAt: g.now().UTC(),
		},
	}
}

func (g *Generator) record(sc Scenario) {
	g.mu.Lock()
	g.history = append(g.history, sc)
	g.mu.Unlock()
}

func (g *Generator) intN(n int) int {
	g.randMu.Lock()
	defer g.randMu.Unlock()
	return g.rand.IntN(n)
}

func (g *Generator) drawIndustry() string {
	industries := g.templates.Industries()
	if len(industries) == 0 {
		return ""
	}
	return industries[g.intN(len(industries))]
}

func (g *Generator) drawDifficulty(base Difficulty) Difficulty {
	return pickExcluding(g, Difficulties, base)
}

func (g *Generator) drawType(base Type) Type {
	return pickExcluding(g, Types, base)
}

func pickExcluding[T comparable](g *Generator, candidates []T, exclude T) T {
	pool := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if c != exclude {
			pool = append(pool, c)
		}
	}
	return pool[g.intN(len(pool))]
}

func describeVariation(base Metadata, req request) string {
	changedDifficulty := req.difficulty != base.Difficulty
	changedType := req.kind != base.Type
	switch {
	case changedDifficulty && changedType:
		return "Changed difficulty to " + string(req.difficulty) + " and type to " + string(req.kind)
	case changedDifficulty:
		return "Changed difficulty to " + string(req.difficulty)
	default:
		return "Changed type to " + string(req.kind)
	}
}
