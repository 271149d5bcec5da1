package gen

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/junioryono/autoinject"
)

// DefaultOutput is the name of the generated file in each package directory.
const DefaultOutput = "autoinject_gen.go"

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// Interface is an interface a component is bound to.
type Interface struct {
	PkgPath string
	PkgName string
	Name    string
}

// Component is a type declaration carrying a directive.
type Component struct {
	Name        string
	Pointer     bool
	Lifetime    autoinject.ServiceLifetime
	Constructor string
	Interfaces  []Interface
	Pos         token.Position
}

// Package holds the components found in one Go package.
type Package struct {
	Name       string
	PkgPath    string
	Dir        string
	Components []Component
}

// PositionError reports a problem at a source position.
type PositionError struct {
	Pos   token.Position
	Cause error
}

func (e PositionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pos, e.Cause)
}

func (e PositionError) Unwrap() error {
	return e.Cause
}

// Loader loads packages and extracts their components.
type Loader struct {
	Dir    string
	Output string
	Logger *slog.Logger
}

// Load loads the packages matching patterns. Packages that fail to type check
// are skipped. The returned error joins every skipped package and invalid
// directive; the packages that loaded cleanly are returned either way.
func (l *Loader) Load(ctx context.Context, patterns ...string) ([]*Package, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	output := l.Output
	if output == "" {
		output = DefaultOutput
	}

	overlay, err := staleOverlay(ctx, l.Dir, output, patterns)
	if err != nil {
		return nil, err
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     l.Dir,
		Overlay: overlay,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	var (
		result []*Package
		errs   []error
	)
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			for _, e := range pkg.Errors {
				errs = append(errs, fmt.Errorf("%s: %s", pkg.PkgPath, e))
			}
			logger.Warn("skipping package with errors", "package", pkg.PkgPath, "errors", len(pkg.Errors))
			continue
		}

		p, perrs := extract(pkg)
		errs = append(errs, perrs...)
		if len(p.Components) > 0 {
			logger.Debug("found components", "package", p.PkgPath, "components", len(p.Components))
			result = append(result, p)
		}
	}

	return result, errors.Join(errs...)
}

// staleOverlay replaces every previously generated output file with its
// package clause. The go command honors the overlay when it compiles export
// data, so a catalog referencing removed types never breaks the load.
func staleOverlay(ctx context.Context, dir, output string, patterns []string) (map[string][]byte, error) {
	pkgs, err := packages.Load(&packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles,
		Dir:     dir,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	overlay := make(map[string][]byte)
	for _, pkg := range pkgs {
		if pkg.Name == "" {
			continue
		}
		for _, file := range pkg.GoFiles {
			if filepath.Base(file) == output {
				overlay[file] = []byte("package " + pkg.Name + "\n")
			}
		}
	}

	return overlay, nil
}

func extract(pkg *packages.Package) (*Package, []error) {
	p := &Package{
		Name:    pkg.Name,
		PkgPath: pkg.PkgPath,
	}
	if len(pkg.GoFiles) > 0 {
		p.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	var errs []error
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)

				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}

				directive, pos, found, err := findDirective(pkg.Fset, doc)
				if err != nil {
					errs = append(errs, PositionError{Pos: pos, Cause: err})
					continue
				}
				if !found {
					continue
				}

				c, err := component(pkg, file, ts, directive)
				if err != nil {
					errs = append(errs, PositionError{Pos: pos, Cause: err})
					continue
				}
				c.Pos = pos
				p.Components = append(p.Components, c)
			}
		}
	}

	return p, errs
}

// findDirective returns the first directive in doc.
func findDirective(fset *token.FileSet, doc *ast.CommentGroup) (Directive, token.Position, bool, error) {
	if doc == nil {
		return Directive{}, token.Position{}, false, nil
	}

	for _, c := range doc.List {
		d, ok, err := ParseDirective(c.Text)
		if ok {
			return d, fset.Position(c.Pos()), true, err
		}
	}

	return Directive{}, token.Position{}, false, nil
}

func component(pkg *packages.Package, file *ast.File, ts *ast.TypeSpec, d Directive) (Component, error) {
	if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
		return Component{}, fmt.Errorf("generic type %s cannot be a component", ts.Name.Name)
	}

	obj, ok := pkg.Types.Scope().Lookup(ts.Name.Name).(*types.TypeName)
	if !ok {
		return Component{}, fmt.Errorf("type %s not found", ts.Name.Name)
	}

	if types.IsInterface(obj.Type()) {
		return Component{}, fmt.Errorf("interface %s cannot be a component", ts.Name.Name)
	}

	c := Component{
		Name:     ts.Name.Name,
		Lifetime: d.Lifetime,
	}

	var typ types.Type = obj.Type()
	if _, isStruct := obj.Type().Underlying().(*types.Struct); isStruct && !d.Value {
		c.Pointer = true
		typ = types.NewPointer(typ)
	}

	for _, name := range d.As {
		iface, err := lookupInterface(pkg, file, name)
		if err != nil {
			return Component{}, err
		}

		if !types.Implements(typ, iface.Type().Underlying().(*types.Interface)) {
			return Component{}, fmt.Errorf("%s does not implement %s", types.TypeString(typ, nil), name)
		}

		c.Interfaces = append(c.Interfaces, Interface{
			PkgPath: iface.Pkg().Path(),
			PkgName: iface.Pkg().Name(),
			Name:    iface.Name(),
		})
	}

	ctor := d.Constructor
	explicit := ctor != ""
	if !explicit {
		ctor = "New" + c.Name
	}

	fn, ok := pkg.Types.Scope().Lookup(ctor).(*types.Func)
	switch {
	case ok && constructs(fn, typ):
		c.Constructor = ctor
	case explicit && !ok:
		return Component{}, fmt.Errorf("constructor %s not found", ctor)
	case explicit:
		return Component{}, fmt.Errorf("constructor %s must return %s and an optional error", ctor, types.TypeString(typ, nil))
	}

	return c, nil
}

// lookupInterface resolves "Name" in the package scope or "pkg.Name" through
// the imports of file.
func lookupInterface(pkg *packages.Package, file *ast.File, name string) (*types.TypeName, error) {
	scope := pkg.Types.Scope()

	if qualifier, ident, qualified := strings.Cut(name, "."); qualified {
		imported, err := importedPackage(pkg, file, qualifier)
		if err != nil {
			return nil, fmt.Errorf("interface %s: %w", name, err)
		}
		scope = imported.Scope()
		name = ident
	}

	obj, ok := scope.Lookup(name).(*types.TypeName)
	if !ok || !obj.Exported() && obj.Pkg() != pkg.Types {
		return nil, fmt.Errorf("interface %s not found", name)
	}

	if !types.IsInterface(obj.Type()) {
		return nil, fmt.Errorf("%s is not an interface", name)
	}

	return obj, nil
}

func importedPackage(pkg *packages.Package, file *ast.File, qualifier string) (*types.Package, error) {
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		for _, imported := range pkg.Types.Imports() {
			if imported.Path() != path {
				continue
			}

			local := imported.Name()
			if spec.Name != nil {
				local = spec.Name.Name
			}
			if local == qualifier {
				return imported, nil
			}
		}
	}

	return nil, fmt.Errorf("no import named %s", qualifier)
}

func constructs(fn *types.Func, typ types.Type) bool {
	sig := fn.Type().(*types.Signature)
	if sig.Recv() != nil || sig.Variadic() || sig.TypeParams().Len() > 0 {
		return false
	}

	results := sig.Results()
	switch results.Len() {
	case 1:
	case 2:
		if !types.Identical(results.At(1).Type(), types.Universe.Lookup("error").Type()) {
			return false
		}
	default:
		return false
	}

	return types.Identical(results.At(0).Type(), typ)
}
