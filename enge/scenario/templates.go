package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZanzyTHEbar/enge-ai/enge/generation/harness"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Template data file names inside the templates directory.
const (
	IndustryContextsFile    = "industry_contexts.json"
	ProblemFormatsFile      = "problem_formats.json"
	ChemicalEngineeringFile = "chemical_engineering.json"
)

var stringListValidator = harness.MustJSONValidator(harness.StringListSchema)

// Templates holds the optional lists that seed scenario generation. Each
// list is loaded from a JSON array of strings; a missing or malformed file
// yields an empty list.
type Templates struct {
	dir    string
	logger zerolog.Logger

	mu         sync.RWMutex
	industries []string
	formats    []string
	topics     []string
}

// NewTemplates builds an in-memory template set.
func NewTemplates(industries, formats, topics []string) *Templates {
	return &Templates{
		logger:     zerolog.Nop(),
		industries: clone(industries),
		formats:    clone(formats),
		topics:     clone(topics),
	}
}

// LoadTemplates reads the template files under dir.
func LoadTemplates(dir string, logger zerolog.Logger) *Templates {
	t := &Templates{dir: dir, logger: logger}
	t.Reload()
	return t
}

// Reload re-reads every template file from disk.
func (t *Templates) Reload() {
	if t.dir == "" {
		return
	}

	industries := t.loadList(IndustryContextsFile)
	formats := t.loadList(ProblemFormatsFile)
	topics := t.loadList(ChemicalEngineeringFile)

	t.mu.Lock()
	t.industries, t.formats, t.topics = industries, formats, topics
	t.mu.Unlock()

	t.logger.Info().
		Str("dir", t.dir).
		Int("industries", len(industries)).
		Int("formats", len(formats)).
		Int("topics", len(topics)).
		Msg("Loaded scenario templates")
}

func (t *Templates) loadList(name string) []string {
	path := filepath.Join(t.dir, name)
	list, err := readStringList(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			t.logger.Debug().Str("path", path).Msg("Scenario template file not found")
		} else {
			t.logger.Error().Err(err).Str("path", path).Msg("Error loading scenario template")
		}
		return []string{}
	}
	return list
}

func readStringList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := stringListValidator.Validate(data); err != nil {
		return nil, fmt.Errorf("invalid template %s: %w", filepath.Base(path), err)
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Industries returns the industry contexts.
func (t *Templates) Industries() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return clone(t.industries)
}

// Formats returns the problem formats.
func (t *Templates) Formats() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return clone(t.formats)
}

// Topics returns the chemical engineering topics.
func (t *Templates) Topics() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return clone(t.topics)
}

// Watch reloads the templates whenever one of the template files changes on
// disk. The watcher is registered before Watch returns; it
// runs until ctx is cancelled or stop is called.
func (t *Templates) Watch(ctx context.Context) (stop func(), err error) {
	if t.dir == "" {
		return nil, errors.New("templates were not loaded from a directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(t.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", t.dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isTemplateFile(event.Name) {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					t.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Scenario template changed")
					t.Reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				t.logger.Warn().Err(err).Msg("Scenario template watcher error")
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

func isTemplateFile(path string) bool {
	switch filepath.Base(path) {
	case IndustryContextsFile, ProblemFormatsFile, ChemicalEngineeringFile:
		return true
	}
	return false
}

func clone(s []string) []string {
	return append([]string{}, s...)
}
