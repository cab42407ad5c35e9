package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/enge-ai/enge/assessment"
	"github.com/ZanzyTHEbar/enge-ai/enge/critical"
	"github.com/ZanzyTHEbar/enge-ai/enge/scenario"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, endpoint string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := "model:\n  name: llama3.2\n  api_endpoint: " + endpoint + "\n" +
		"scenario:\n  templates_dir: " + filepath.Join(dir, "templates") + "\n  export_path: " + filepath.Join(dir, "out.json") + "\n  seed: 7\n" +
		"logging:\n  file: \"\"\n  console: false\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// fakeRuntime serves llama3.2 and echoes the last user message.
func fakeRuntime(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2"}]}`))
		case "/api/chat":
			var req struct {
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			last := req.Messages[len(req.Messages)-1].Content
			_ = json.NewEncoder(w).Encode(map[string]any{"message": map[string]string{"role": "assistant", "content": "echo: " + last}})
		case "/api/generate":
			_, _ = w.Write([]byte(`{"response":"A reactor scenario."}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStageCommand(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1")

	out, err := run(t, "", "--config", cfg, "stage", "identify")
	require.NoError(t, err)
	assert.Equal(t, critical.StagePrompt("identify"), out)

	out, err = run(t, "", "--config", cfg, "stage")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(critical.Stages()))
}

func TestScaffoldCommand(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1")

	out, err := run(t, "", "--config", cfg, "scaffold", "heat", "exchangers")
	require.NoError(t, err)

	var s critical.Scaffold
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "heat exchangers", s.Topic)
	assert.Len(t, s.Stages, len(critical.Stages()))
}

func TestAskInteractive(t *testing.T) {
	srv := fakeRuntime(t)
	cfg := writeConfig(t, srv.URL)

	out, err := run(t, "second question\n/reset\n\nthird\n", "--config", cfg, "ask", "-i", "first", "question")
	require.NoError(t, err)
	assert.Equal(t, "echo: first question\necho: second question\nConversation reset.\necho: third\n", out)
}

func TestAskRequiresQuestion(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1")
	_, err := run(t, "", "--config", cfg, "ask")
	assert.Error(t, err)
}

func TestScenarioCommandExports(t *testing.T) {
	srv := fakeRuntime(t)
	cfg := writeConfig(t, srv.URL)

	out, err := run(t, "", "--config", cfg, "scenario", "--variations", "2", "--industry", "Pharmaceuticals", "--export", "distillation")
	require.NoError(t, err)

	var history []scenario.Scenario
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	require.Len(t, history, 3)
	assert.Equal(t, "A reactor scenario.", history[0].Text)
	assert.Equal(t, history[0].ID, history[1].Metadata.VariationOf)

	exported, err := scenario.LoadScenarios(filepath.Join(filepath.Dir(cfg), "out.json"))
	require.NoError(t, err)
	assert.Equal(t, history, exported)
}

func TestScenarioCommandRejectsUnknownDifficulty(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1")
	_, err := run(t, "", "--config", cfg, "scenario", "--difficulty", "extreme", "x")
	assert.ErrorContains(t, err, "unknown difficulty")
}

func TestTemplatesCommand(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1")
	dir := filepath.Join(filepath.Dir(cfg), "templates")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, scenario.IndustryContextsFile), []byte(`["petrochemical"]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, scenario.ProblemFormatsFile), []byte(`["case study", "design brief"]`), 0o644))

	out, err := run(t, "", "--config", cfg, "templates")
	require.NoError(t, err)

	var lists map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &lists))
	assert.Equal(t, []string{"petrochemical"}, lists["industries"])
	assert.Equal(t, []string{"case study", "design brief"}, lists["formats"])
	assert.Empty(t, lists["topics"])
}

func TestAssessmentSummaryCommand(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1")
	results := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(results, []byte(`[
		{"student_id": "S001", "name": "Alex Johnson", "pre_score": 65, "post_score": 78, "improvement": 13,
		 "strongest_dimension": "Problem Analysis", "weakest_dimension": "Future Implications", "date_completed": "2025-02-15"},
		{"student_id": "S002", "name": "Jamie Smith", "pre_score": 70, "post_score": 82, "improvement": 12,
		 "strongest_dimension": "Experimental Design", "weakest_dimension": "Evaluation of Evidence", "date_completed": "2025-02-16"}
	]`), 0o644))

	out, err := run(t, "", "--config", cfg, "assessment", "summary", results)
	require.NoError(t, err)

	var s assessment.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 12.5, s.MeanImprovement, 1e-9)
	assert.Equal(t, 1, s.StrongestCounts["Problem Analysis"])
}
