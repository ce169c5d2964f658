package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
)

// DescriptorOptions customises the defaults applied during the descriptor
// phase of initialisation.
type DescriptorOptions struct {
	Language    string
	Methodology string
	StorageBack StorageBackend
	ProjectName string
}

// Descriptor performs phase one of initialisation: it writes
// <project>/<ConfigDirName>/project.toml stamped from Default(), overlaid
// with any options given. It never materialises templates or entity
// directories, so a human can review and hand-edit the descriptor before
// Finalize commits to it.
func Descriptor(projectRoot string, opts DescriptorOptions) error {
	path := ConfigPath(projectRoot)
	if _, err := os.Stat(path); err == nil {
		return apperr.ConfigInvalid("project already initialised at %s", path)
	}

	name := opts.ProjectName
	if name == "" {
		name = filepath.Base(projectRoot)
	}
	cfg := Default(name)

	if opts.Methodology != "" {
		cfg.Templates.Methodologies = []string{opts.Methodology}
		cfg.Templates.DefaultMethodology = opts.Methodology
	}
	if opts.Language != "" {
		cfg.Generation.TestLanguage = opts.Language
	}
	if opts.StorageBack != "" {
		if !opts.StorageBack.Valid() {
			return apperr.ConfigInvalid("storage backend %q must be %q or %q", opts.StorageBack, StorageText, StorageRelational)
		}
		cfg.Storage.Backend = opts.StorageBack
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.StorageFailure("creating config directory", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return apperr.StorageFailure("creating project descriptor", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return apperr.StorageFailure("writing project descriptor", err)
	}

	slog.Info("project descriptor created", "path", path, "storage", cfg.Storage.Backend)
	return nil
}

// TemplateSource locates the source templates to materialise during
// Finalize. It is supplied by the caller (the CLI / coordinator) so this
// package stays agnostic of where templates ship from (embedded FS, a
// PROJECT_MANIFEST_DIR lookup hint, or a development checkout).
type TemplateSource interface {
	// OverviewTemplate returns the contents of the overview.tmpl source.
	OverviewTemplate() ([]byte, error)
	// MethodologyFiles returns the source files (relative name -> content)
	// for one methodology's template directory (info.toml, config.toml, and
	// any level_*.tmpl files).
	MethodologyFiles(methodology string) (map[string][]byte, error)
	// LanguageTestTemplate returns the test.tmpl contents for a language, or
	// an error satisfying apperr.KindTemplateMissing if the language is
	// unsupported.
	LanguageTestTemplate(language string) ([]byte, error)
}

// Finalize performs phase two: it requires an existing descriptor, refuses
// if the template workspace already exists, and materialises the
// methodologies and test language named by the descriptor into
// <config_dir>/<TemplateWorkspaceName>/. Missing language templates are a
// warning, not a failure.
func Finalize(projectRoot string, src TemplateSource) error {
	cfg, err := Load(projectRoot)
	if err != nil {
		return err
	}

	workspace := TemplateWorkspacePath(projectRoot)
	if _, err := os.Stat(workspace); err == nil {
		return apperr.ConfigInvalid("template workspace already exists at %s; delete it to re-finalize", workspace)
	}

	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return apperr.StorageFailure("creating template workspace", err)
	}

	overview, err := src.OverviewTemplate()
	if err != nil {
		return apperr.Wrap(apperr.KindTemplateMissing, "loading overview template", err)
	}
	if err := os.WriteFile(filepath.Join(workspace, "overview.tmpl"), overview, 0o644); err != nil {
		return apperr.StorageFailure("writing overview template", err)
	}

	for _, m := range cfg.Templates.Methodologies {
		files, err := src.MethodologyFiles(m)
		if err != nil {
			return apperr.Wrap(apperr.KindTemplateMissing, fmt.Sprintf("loading methodology %q templates", m), err)
		}
		dir := filepath.Join(workspace, "methodologies", m)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperr.StorageFailure("creating methodology template dir", err)
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
				return apperr.StorageFailure(fmt.Sprintf("writing %s/%s", m, name), err)
			}
		}
	}

	langTmpl, err := src.LanguageTestTemplate(cfg.Generation.TestLanguage)
	if err != nil {
		slog.Warn("language test template unavailable, skipping", "language", cfg.Generation.TestLanguage, "error", err)
	} else {
		dir := filepath.Join(workspace, "languages", cfg.Generation.TestLanguage)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperr.StorageFailure("creating language template dir", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "test.tmpl"), langTmpl, 0o644); err != nil {
			return apperr.StorageFailure("writing language test template", err)
		}
	}

	slog.Info("template workspace materialised", "path", workspace, "methodologies", cfg.Templates.Methodologies)
	return nil
}
