// Package config implements project configuration: the typed schema, a
// defaults-then-file loader, a comment-preserving writer, and the two-phase
// project initialisation protocol (descriptor, then finalise).
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
)

// ConfigDirName is the hidden per-project directory holding project.toml and
// the materialised template workspace.
const ConfigDirName = ".ucm"

// TemplateWorkspaceName is the directory, under ConfigDirName, into which
// source templates are materialised during the finalise phase.
const TemplateWorkspaceName = "templates"

// StorageBackend selects which repository implementation backs a project.
type StorageBackend string

const (
	StorageText       StorageBackend = "text"
	StorageRelational StorageBackend = "relational"
)

func (b StorageBackend) Valid() bool {
	return b == StorageText || b == StorageRelational
}

// ProjectConfig is the full contents of <config_dir>/project.toml.
type ProjectConfig struct {
	Project     ProjectSection     `toml:"project"`
	Directories DirectoriesSection `toml:"directories"`
	Templates   TemplatesSection   `toml:"templates"`
	Generation  GenerationSection  `toml:"generation"`
	Metadata    MetadataSection    `toml:"metadata"`
	Storage     StorageSection     `toml:"storage"`
	Actor       ActorSection       `toml:"actor"`
}

type ProjectSection struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

type DirectoriesSection struct {
	UseCaseDir  string `toml:"use_case_dir"`
	TestDir     string `toml:"test_dir"`
	TemplateDir string `toml:"template_dir,omitempty"`
	DataDir     string `toml:"data_dir,omitempty"`
	ActorDir    string `toml:"actor_dir"`
}

// EffectiveDataDir returns DataDir, defaulting to UseCaseDir when unset.
func (d DirectoriesSection) EffectiveDataDir() string {
	if d.DataDir == "" {
		return d.UseCaseDir
	}
	return d.DataDir
}

type TemplatesSection struct {
	Methodologies      []string `toml:"methodologies"`
	DefaultMethodology string   `toml:"default_methodology"`
}

type GenerationSection struct {
	TestLanguage               string `toml:"test_language"`
	AutoGenerateTests          bool   `toml:"auto_generate_tests"`
	OverwriteTestDocumentation bool   `toml:"overwrite_test_documentation"`
}

type MetadataSection struct {
	Created     bool `toml:"created"`
	LastUpdated bool `toml:"last_updated"`
}

type StorageSection struct {
	Backend StorageBackend `toml:"backend"`
}

// PersonaFieldDef describes one custom field applied when a persona is
// created, per spec §6's actor.persona_fields.
type PersonaFieldDef struct {
	Type        string `toml:"type"`
	Required    bool   `toml:"required"`
	Default     any    `toml:"default,omitempty"`
	Description string `toml:"description,omitempty"`
	Label       string `toml:"label,omitempty"`
}

type ActorSection struct {
	PersonaFields map[string]PersonaFieldDef `toml:"persona_fields"`
}

// Default returns the baseline configuration used as the descriptor-phase
// starting point, before any user overrides are applied.
func Default(projectName string) *ProjectConfig {
	return &ProjectConfig{
		Project: ProjectSection{
			Name:        projectName,
			Description: "",
		},
		Directories: DirectoriesSection{
			UseCaseDir: "docs/use-cases",
			TestDir:    "tests/use-cases",
			ActorDir:   "docs/actors",
		},
		Templates: TemplatesSection{
			Methodologies:      []string{"feature"},
			DefaultMethodology: "feature",
		},
		Generation: GenerationSection{
			TestLanguage:               "go",
			AutoGenerateTests:          true,
			OverwriteTestDocumentation: false,
		},
		Metadata: MetadataSection{
			Created:     true,
			LastUpdated: true,
		},
		Storage: StorageSection{
			Backend: StorageText,
		},
		Actor: ActorSection{
			PersonaFields: map[string]PersonaFieldDef{},
		},
	}
}

// ConfigPath returns the path to project.toml under projectRoot.
func ConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, ConfigDirName, "project.toml")
}

// TemplateWorkspacePath returns the path to the materialised template
// workspace under projectRoot.
func TemplateWorkspacePath(projectRoot string) string {
	return filepath.Join(projectRoot, ConfigDirName, TemplateWorkspaceName)
}

// Load reads and validates <projectRoot>/<ConfigDirName>/project.toml.
func Load(projectRoot string) (*ProjectConfig, error) {
	path := ConfigPath(projectRoot)
	if _, err := os.Stat(path); err != nil {
		return nil, apperr.Wrap(apperr.KindConfigInvalid,
			fmt.Sprintf("no project found at %s; run init first", path), err)
	}

	var cfg ProjectConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, apperr.Wrap(apperr.KindConfigInvalid, "parsing project config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required sections/fields are present and internally
// consistent.
func (c *ProjectConfig) Validate() error {
	if c.Project.Name == "" {
		return apperr.ConfigInvalid("project.name is required")
	}
	if c.Directories.UseCaseDir == "" {
		return apperr.ConfigInvalid("directories.use_case_dir is required")
	}
	if c.Directories.TestDir == "" {
		return apperr.ConfigInvalid("directories.test_dir is required")
	}
	if c.Directories.ActorDir == "" {
		return apperr.ConfigInvalid("directories.actor_dir is required")
	}
	if !c.Storage.Backend.Valid() {
		return apperr.ConfigInvalid("storage.backend must be %q or %q, got %q", StorageText, StorageRelational, c.Storage.Backend)
	}
	return nil
}

// Save writes the config to disk. If project.toml already exists, values are
// rewritten in place preserving comments and formatting (see writer.go);
// otherwise the full config is serialised fresh.
func Save(projectRoot string, cfg *ProjectConfig) error {
	path := ConfigPath(projectRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.StorageFailure("creating config directory", err)
	}

	var content string
	if existing, err := os.ReadFile(path); err == nil {
		content = updateConfigPreservingComments(string(existing), cfg)
	} else {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return apperr.StorageFailure("serializing config", err)
		}
		content = buf.String()
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return apperr.StorageFailure("writing config file", err)
	}
	return nil
}
