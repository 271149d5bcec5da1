package gen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Config configures Generate.
type Config struct {
	// Dir is the directory patterns are resolved from.
	Dir string

	// Patterns are go list package patterns, "./..." when empty.
	Patterns []string

	// Output is the generated file name, DefaultOutput when empty.
	Output string

	// Func is the generated function name, DefaultFunc when empty.
	Func string

	// DryRun reports the files without writing them.
	DryRun bool

	Logger *slog.Logger
}

// Generate writes one catalog file per package that declares components and
// returns the paths written. Packages that fail to load are reported in the
// returned error; the others are still generated.
func Generate(ctx context.Context, cfg Config) ([]string, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	output := cfg.Output
	if output == "" {
		output = DefaultOutput
	}

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	loader := &Loader{Dir: cfg.Dir, Output: output, Logger: logger}
	pkgs, loadErr := loader.Load(ctx, patterns...)
	if pkgs == nil && loadErr != nil {
		return nil, loadErr
	}

	var (
		written []string
		errs    = []error{loadErr}
	)
	for _, pkg := range pkgs {
		src, err := Render(pkg, cfg.Func)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		path := filepath.Join(pkg.Dir, output)
		if !cfg.DryRun {
			if err := os.WriteFile(path, src, 0o644); err != nil {
				errs = append(errs, fmt.Errorf("write %s: %w", path, err))
				continue
			}
		}

		logger.Info("generated catalog", "package", pkg.PkgPath, "file", path, "components", len(pkg.Components))
		written = append(written, path)
	}

	return written, errors.Join(errs...)
}
