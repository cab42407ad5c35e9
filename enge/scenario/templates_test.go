package scenario

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadTemplates(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, IndustryContextsFile, `["petrochemical", "pharmaceutical"]`)
	writeTemplate(t, dir, ProblemFormatsFile, `["case study"]`)
	writeTemplate(t, dir, ChemicalEngineeringFile, `["Reaction Kinetics", "Separations"]`)

	tpl := LoadTemplates(dir, zerolog.Nop())

	assert.Equal(t, []string{"petrochemical", "pharmaceutical"}, tpl.Industries())
	assert.Equal(t, []string{"case study"}, tpl.Formats())
	assert.Equal(t, []string{"Reaction Kinetics", "Separations"}, tpl.Topics())
}

func TestLoadTemplatesMissingFiles(t *testing.T) {
	tpl := LoadTemplates(filepath.Join(t.TempDir(), "does-not-exist"), zerolog.Nop())

	assert.NotNil(t, tpl.Industries())
	assert.Empty(t, tpl.Industries())
	assert.Empty(t, tpl.Formats())
	assert.Empty(t, tpl.Topics())
}

func TestLoadTemplatesInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, IndustryContextsFile, `{"industries": ["oil"]}`)
	writeTemplate(t, dir, ProblemFormatsFile, `not json`)
	writeTemplate(t, dir, ChemicalEngineeringFile, `["ok"]`)

	var logs bytes.Buffer
	tpl := LoadTemplates(dir, zerolog.New(&logs))

	assert.Empty(t, tpl.Industries())
	assert.Empty(t, tpl.Formats())
	assert.Equal(t, []string{"ok"}, tpl.Topics())
	assert.Contains(t, logs.String(), "Error loading scenario template")
}

func TestTemplatesAccessorsReturnCopies(t *testing.T) {
	tpl := NewTemplates([]string{"a"}, nil, nil)
	got := tpl.Industries()
	got[0] = "b"
	assert.Equal(t, []string{"a"}, tpl.Industries())
}

func TestTemplatesWatchReloads(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, IndustryContextsFile, `["petrochemical"]`)

	tpl := LoadTemplates(dir, zerolog.Nop())
	require.Equal(t, []string{"petrochemical"}, tpl.Industries())

	stop, err := tpl.Watch(context.Background())
	require.NoError(t, err)
	defer stop()

	writeTemplate(t, dir, IndustryContextsFile, `["petrochemical", "biotech"]`)

	assert.Eventually(t, func() bool {
		return len(tpl.Industries()) == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestTemplatesWatchRequiresDirectory(t *testing.T) {
	_, err := NewTemplates(nil, nil, nil).Watch(context.Background())
	assert.Error(t, err)
}
