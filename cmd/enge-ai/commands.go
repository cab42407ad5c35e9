package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/enge-ai/enge/assessment"
	"github.com/ZanzyTHEbar/enge-ai/enge/critical"
	"github.com/ZanzyTHEbar/enge-ai/enge/prompts"
	"github.com/ZanzyTHEbar/enge-ai/enge/scenario"
	"github.com/ZanzyTHEbar/enge-ai/enge/tutor"

	"github.com/spf13/cobra"
)

const resetCommand = "/reset"

func newAskCmd(a *app) *cobra.Command {
	var (
		mode        string
		noCritical  bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask the tutor a question",
		Long: `Ask the tutor a question. With --interactive further questions are read
line by line from stdin; "` + resetCommand + `" clears the conversation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !interactive {
				return fmt.Errorf("a question is required unless --interactive is set")
			}

			ctx := cmd.Context()
			if mode == "" {
				mode = a.cfg.Tutor.DefaultMode
			}
			t := tutor.New(a.connect(ctx),
				tutor.WithLogger(a.logger),
				tutor.WithDefaults(prompts.ParseMode(mode), a.cfg.Tutor.IncludeCriticalThinking && !noCritical))

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				fmt.Fprintln(out, t.AnswerQuestion(ctx, strings.Join(args, " ")))
			}
			if !interactive {
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				if ctx.Err() != nil {
					return nil
				}
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case resetCommand:
					t.ResetConversation()
					fmt.Fprintln(out, "Conversation reset.")
					continue
				}
				fmt.Fprintln(out, t.AnswerQuestion(ctx, line))
			}
			return scanner.Err()
		},
	}

	modes := make([]string, 0, len(prompts.Modes()))
	for _, m := range prompts.Modes() {
		modes = append(modes, m.String())
	}
	cmd.Flags().StringVar(&mode, "mode", "", "interaction mode: "+strings.Join(modes, ", "))
	cmd.Flags().BoolVar(&noCritical, "no-critical-thinking", false, "do not append the critical-thinking enhancement")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read further questions from stdin")
	return cmd
}

func newGuideCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "guide <stage> <problem...>",
		Short: "Get guidance for one critical-thinking stage of a problem",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t := tutor.New(a.connect(ctx), tutor.WithLogger(a.logger))
			fmt.Fprintln(cmd.OutOrStdout(), t.GuideCriticalThinking(ctx, strings.Join(args[1:], " "), args[0]))
			return nil
		},
	}
}

func newStageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stage [key]",
		Short: "Print a critical-thinking stage prompt, or list the stages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				fmt.Fprint(out, critical.StagePrompt(args[0]))
				return nil
			}
			for _, s := range critical.Stages() {
				fmt.Fprintf(out, "%-10s %s\n", s.Key, s.Name)
			}
			return nil
		},
	}
}

func newScaffoldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scaffold <topic...>",
		Short: "Print the scaffolded critical-thinking approach for a topic as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), critical.ScaffoldedApproach(strings.Join(args, " ")))
		},
	}
}

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "Show the configured model and the models installed in the runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := a.connect(cmd.Context()).Health(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Endpoint:  %s\n", h.Endpoint)
			fmt.Fprintf(out, "Model:     %s\n", h.Model)
			fmt.Fprintf(out, "Available: %t\n", h.Available)
			fmt.Fprintln(out, "Installed:")
			for _, name := range h.Installed {
				fmt.Fprintf(out, "  - %s\n", name)
			}
			return nil
		},
	}
}

func newScenarioCmd(a *app) *cobra.Command {
	var (
		difficulty string
		kind       string
		industry   string
		guidance   string
		variations int
		export     bool
	)

	cmd := &cobra.Command{
		Use:   "scenario <topic...>",
		Short: "Generate an engineering scenario and optional variations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(scenario.Difficulties, scenario.Difficulty(difficulty)) {
				return fmt.Errorf("unknown difficulty %q", difficulty)
			}
			if !slices.Contains(scenario.Types, scenario.Type(kind)) {
				return fmt.Errorf("unknown scenario type %q", kind)
			}

			ctx := cmd.Context()
			sc := a.cfg.Scenario
			templates := scenario.LoadTemplates(sc.TemplatesDir, a.logger)
			if sc.WatchTemplates {
				stop, err := templates.Watch(ctx)
				if err != nil {
					a.logger.Warn().Err(err).Msg("Template watching disabled")
				} else {
					defer stop()
				}
			}

			gen := scenario.New(a.connect(ctx), templates,
				scenario.WithLogger(a.logger),
				scenario.WithSeed(sc.Seed),
				scenario.WithTemperature(sc.Temperature),
				scenario.WithVariationConcurrency(sc.VariationConcurrency),
				scenario.WithGuidance(prompts.Guidance(guidance)))

			base := gen.GenerateScenario(ctx, strings.Join(args, " "),
				scenario.WithDifficulty(scenario.Difficulty(difficulty)),
				scenario.WithType(scenario.Type(kind)),
				scenario.WithIndustry(industry))
			gen.GenerateVariations(ctx, base, variations)

			if err := writeJSON(cmd.OutOrStdout(), gen.History()); err != nil {
				return err
			}
			if export && !gen.ExportScenarios(sc.ExportPath) {
				return fmt.Errorf("failed to export scenarios to %s", sc.ExportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&difficulty, "difficulty", string(scenario.DifficultyModerate), "basic, moderate or advanced")
	cmd.Flags().StringVar(&kind, "type", string(scenario.TypeOpenEnded), "calculation, design, analysis or open_ended")
	cmd.Flags().StringVar(&industry, "industry", "", "industry context (drawn from templates when empty)")
	cmd.Flags().StringVar(&guidance, "guidance", "", "extra system guidance: base, chemical or industry")
	cmd.Flags().IntVar(&variations, "variations", 0, "number of variations to derive from the scenario")
	cmd.Flags().BoolVar(&export, "export", false, "write the session history to the configured export path")
	return cmd
}

func newTemplatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "Print the scenario template lists loaded from the templates directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := scenario.LoadTemplates(a.cfg.Scenario.TemplatesDir, a.logger)
			return writeJSON(cmd.OutOrStdout(), map[string][]string{
				"industries": t.Industries(),
				"formats":    t.Formats(),
				"topics":     t.Topics(),
			})
		},
	}
}

func newAssessmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assessment",
		Short: "Critical-thinking assessment tools",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "questions",
		Short: "Print the assessment question bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), assessment.DefaultQuestions())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "summary <results.json>",
		Short: "Summarise a JSON array of pre/post assessment results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read results: %w", err)
			}
			var results []assessment.Result
			if err := json.Unmarshal(data, &results); err != nil {
				return fmt.Errorf("failed to decode results: %w", err)
			}

			tracker := assessment.NewTracker()
			for _, r := range results {
				if _, err := tracker.Record(r); err != nil {
					return fmt.Errorf("student %q: %w", r.StudentID, err)
				}
			}
			return writeJSON(cmd.OutOrStdout(), tracker.Summary())
		},
	})
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
