package autoinject

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// ManifestFormat selects the syntax of a manifest document.
type ManifestFormat int

const (
	// ManifestYAML is a YAML document.
	ManifestYAML ManifestFormat = iota

	// ManifestHCL is an HCL document.
	ManifestHCL
)

// Manifest is a module catalog written as data. Component types and
// interfaces are referenced by full name and resolved through the module's
// TypeRegistry when the module is scanned.
//
// YAML:
//
//	module: github.com/acme/app/users
//	components:
//	  - type: "*github.com/acme/app/users.Service"
//	    lifetime: singleton
//	    as: ["github.com/acme/app/users.Reader"]
//
// HCL:
//
//	module = "github.com/acme/app/users"
//
//	component "*github.com/acme/app/users.Service" {
//	  lifetime = "singleton"
//	  as       = ["github.com/acme/app/users.Reader"]
//	}
type Manifest struct {
	Module     string              `yaml:"module" hcl:"module,optional"`
	Components []ManifestComponent `yaml:"components" hcl:"component,block"`
}

// ManifestComponent is one catalog entry of a Manifest. An empty Lifetime
// lists the type without marking it.
type ManifestComponent struct {
	Type     string   `yaml:"type" hcl:"type,label"`
	Lifetime string   `yaml:"lifetime,omitempty" hcl:"lifetime,optional"`
	As       []string `yaml:"as,omitempty" hcl:"as,optional"`
}

// ParseManifest decodes a manifest document. source names the document in errors.
func ParseManifest(data []byte, format ManifestFormat, source string) (*Manifest, error) {
	var m Manifest

	switch format {
	case ManifestYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, ManifestError{Source: source, Cause: err}
		}
	case ManifestHCL:
		file, diags := hclparse.NewParser().ParseHCL(data, source)
		if diags.HasErrors() {
			return nil, ManifestError{Source: source, Cause: diags}
		}

		if diags := gohcl.DecodeBody(file.Body, nil, &m); diags.HasErrors() {
			return nil, ManifestError{Source: source, Cause: diags}
		}
	default:
		return nil, ManifestError{Source: source, Cause: ErrUnknownManifestFormat}
	}

	if err := m.Validate(); err != nil {
		return nil, ManifestError{Source: source, Cause: err}
	}

	return &m, nil
}

// LoadManifest reads a manifest file. The format follows the file extension:
// .yaml and .yml for YAML, .hcl for HCL.
func LoadManifest(path string) (*Manifest, error) {
	return LoadManifestFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// LoadManifestFS reads a manifest from fsys, typically an embed.FS.
func LoadManifestFS(fsys fs.FS, path string) (*Manifest, error) {
	format, err := manifestFormat(path)
	if err != nil {
		return nil, ManifestError{Source: path, Cause: err}
	}

	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, ManifestError{Source: path, Cause: err}
	}

	return ParseManifest(data, format, path)
}

func manifestFormat(path string) (ManifestFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ManifestYAML, nil
	case ".hcl":
		return ManifestHCL, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownManifestFormat, filepath.Ext(path))
	}
}

// Validate checks that every component names a type and a known lifetime.
func (m *Manifest) Validate() error {
	for i, c := range m.Components {
		if strings.TrimSpace(c.Type) == "" {
			return fmt.Errorf("component %d: type cannot be empty", i)
		}

		if c.Lifetime == "" {
			if len(c.As) > 0 {
				return fmt.Errorf("component %s: interfaces require a lifetime", c.Type)
			}
			continue
		}

		if _, err := ParseLifetime(c.Lifetime); err != nil {
			return fmt.Errorf("component %s: %w", c.Type, err)
		}
	}

	return nil
}

// FromManifest adds the components of m to the module catalog.
func FromManifest(m *Manifest) ModuleOption {
	return func(mod *Module) {
		if m == nil {
			return
		}

		for _, c := range m.Components {
			if c.Lifetime == "" {
				Ref(c.Type)(mod)
				continue
			}

			lifetime, err := ParseLifetime(c.Lifetime)
			if err != nil {
				// Validate rejects these; a hand-built Manifest still fails the scan.
				lifetime = ServiceLifetime(-1)
			}

			Ref(c.Type, Mark(lifetime, AsNamed(c.As...)))(mod)
		}
	}
}

// NewModuleFromManifest creates a module identified by m.Module.
func NewModuleFromManifest(m *Manifest, opts ...ModuleOption) *Module {
	var identity ModuleIdentity
	if m != nil {
		identity = ModuleIdentity(m.Module)
	}

	return NewModule(identity, append([]ModuleOption{FromManifest(m)}, opts...)...)
}
