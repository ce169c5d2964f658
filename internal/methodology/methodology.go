// Package methodology discovers documentation methodologies from a
// templates directory, resolves a (methodology, level) pair's inherited
// custom-field set, and collects/coerces field values across the views of a
// single use case.
package methodology

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/fuzzy"
)

// FieldType is one of the typed custom-field kinds a level can declare.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldText    FieldType = "text"
	FieldArray   FieldType = "array"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
)

// FieldDef describes one custom field as declared by a level config.
type FieldDef struct {
	Type        FieldType `toml:"type"`
	Required    bool      `toml:"required"`
	Default     any       `toml:"default,omitempty"`
	Description string    `toml:"description,omitempty"`
	Label       string    `toml:"label,omitempty"`
}

// LevelConfig is one `[levels.<name>]` table from a methodology's config.toml.
type LevelConfig struct {
	Name         string              `toml:"name"`
	Abbreviation string              `toml:"abbreviation"`
	Filename     string              `toml:"filename"`
	Description  string              `toml:"description"`
	Inherits     []string            `toml:"inherits"`
	CustomFields map[string]FieldDef `toml:"custom_fields"`
}

// infoFile is the decoded shape of a methodology's info.toml.
type infoFile struct {
	Methodology struct {
		Title       string `toml:"title"`
		Description string `toml:"description"`
	} `toml:"methodology"`
	Usage struct {
		WhenToUse   []string `toml:"when_to_use"`
		KeyFeatures []string `toml:"key_features"`
	} `toml:"usage"`
}

// configFile is the decoded shape of a methodology's config.toml.
type configFile struct {
	Methodology struct {
		Name           string `toml:"name"`
		Abbreviation   string `toml:"abbreviation"`
		PreferredStyle string `toml:"preferred_style"`
	} `toml:"methodology"`
	Generation map[string]any         `toml:"generation"`
	Levels     map[string]LevelConfig `toml:"levels"`
}

// Methodology is a fully parsed methodology directory.
type Methodology struct {
	Name           string
	Title          string
	Description    string
	WhenToUse      []string
	KeyFeatures    []string
	Abbreviation   string
	PreferredStyle string
	Generation     map[string]any
	Levels         map[string]LevelConfig
}

// Registry holds all methodologies discovered under a templates directory,
// keyed case-insensitively by name. Built once at process start and treated
// as immutable afterward (spec §5).
type Registry struct {
	mu         sync.RWMutex
	byName     map[string]*Methodology // lower(name) -> methodology
	nameOrder  []string                // canonical names, discovery order
}

// NewRegistry returns an empty registry. Use Load to populate it.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Methodology{}}
}

// Load scans <templatesDir>/<name>/{info.toml,config.toml} for every
// subdirectory of templatesDir. A subdirectory missing either descriptor, or
// with a descriptor that fails to parse, is skipped with a warning rather
// than failing the whole load (spec §4.4).
func (r *Registry) Load(templatesDir string) error {
	entries, err := os.ReadDir(templatesDir)
	if err != nil {
		return apperr.StorageFailure("reading methodologies directory", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		dir := filepath.Join(templatesDir, name)

		m, err := parseMethodology(dir, name)
		if err != nil {
			slog.Warn("skipping malformed methodology", "name", name, "error", err)
			continue
		}

		key := strings.ToLower(name)
		if _, exists := r.byName[key]; !exists {
			r.nameOrder = append(r.nameOrder, m.Name)
		}
		r.byName[key] = m
	}
	return nil
}

func parseMethodology(dir, name string) (*Methodology, error) {
	var info infoFile
	if _, err := toml.DecodeFile(filepath.Join(dir, "info.toml"), &info); err != nil {
		return nil, err
	}
	var cfg configFile
	if _, err := toml.DecodeFile(filepath.Join(dir, "config.toml"), &cfg); err != nil {
		return nil, err
	}

	mName := cfg.Methodology.Name
	if mName == "" {
		mName = name
	}

	return &Methodology{
		Name:           mName,
		Title:          info.Methodology.Title,
		Description:    info.Methodology.Description,
		WhenToUse:      info.Usage.WhenToUse,
		KeyFeatures:    info.Usage.KeyFeatures,
		Abbreviation:   cfg.Methodology.Abbreviation,
		PreferredStyle: cfg.Methodology.PreferredStyle,
		Generation:     cfg.Generation,
		Levels:         cfg.Levels,
	}, nil
}

// Get returns the methodology by case-insensitive name, or a NotFound error
// carrying fuzzy suggestions.
func (r *Registry) Get(name string) (*Methodology, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.byName[strings.ToLower(name)]; ok {
		return m, nil
	}
	return nil, apperr.NotFound("methodology", name, suggestMethodologies(r.namesLocked(), name))
}

// List returns all methodologies sorted alphabetically by name.
func (r *Registry) List() []*Methodology {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := r.namesLocked()
	out := make([]*Methodology, 0, len(names))
	for _, n := range names {
		out = append(out, r.byName[strings.ToLower(n)])
	}
	return out
}

func (r *Registry) namesLocked() []string {
	names := append([]string(nil), r.nameOrder...)
	sort.Strings(names)
	return names
}

func suggestMethodologies(available []string, input string) []string {
	return fuzzy.ClosestMatches(input, available, 3)
}
