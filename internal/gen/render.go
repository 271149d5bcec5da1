package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"slices"
	"strconv"
	"strings"
	"text/template"
)

const autoinjectPath = "github.com/junioryono/autoinject"

// DefaultFunc is the name of the generated catalog function.
const DefaultFunc = "Components"

type importSpec struct {
	Alias string
	Path  string
}

type renderComponent struct {
	Type        string
	Lifetime    string
	Constructor string
	Interfaces  []string
}

var fileTemplate = template.Must(template.New("catalog").Parse(`// Code generated by injectgen. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{.Alias}} {{printf "%q" .Path}}
{{- end}}
)

// {{.Func}} returns the autoinject catalog entries declared in this package.
func {{.Func}}() autoinject.ModuleOption {
	return autoinject.Group(
{{- range .Components}}
{{- if or .Constructor .Interfaces}}
		autoinject.Component[{{.Type}}](autoinject.{{.Lifetime}},
{{- if .Constructor}}
			autoinject.WithConstructor({{.Constructor}}),
{{- end}}
{{- if .Interfaces}}
			autoinject.As({{range $i, $iface := .Interfaces}}{{if $i}}, {{end}}new({{$iface}}){{end}}),
{{- end}}
		),
{{- else}}
		autoinject.Component[{{.Type}}](autoinject.{{.Lifetime}}),
{{- end}}
{{- end}}
	)
}
`))

// Render returns the formatted source of the catalog file for pkg.
func Render(pkg *Package, funcName string) ([]byte, error) {
	if funcName == "" {
		funcName = DefaultFunc
	}

	aliases := map[string]string{autoinjectPath: "autoinject"}
	used := map[string]bool{"autoinject": true, pkg.Name: true}
	imports := []importSpec{{Alias: "autoinject", Path: autoinjectPath}}

	alias := func(iface Interface) string {
		if a, ok := aliases[iface.PkgPath]; ok {
			return a
		}

		a := iface.PkgName
		for n := 2; used[a]; n++ {
			a = iface.PkgName + strconv.Itoa(n)
		}

		used[a] = true
		aliases[iface.PkgPath] = a
		imports = append(imports, importSpec{Alias: a, Path: iface.PkgPath})
		return a
	}

	components := make([]renderComponent, 0, len(pkg.Components))
	for _, c := range pkg.Components {
		rc := renderComponent{
			Type:        c.Name,
			Lifetime:    c.Lifetime.String(),
			Constructor: c.Constructor,
		}
		if c.Pointer {
			rc.Type = "*" + c.Name
		}

		for _, iface := range c.Interfaces {
			if iface.PkgPath == pkg.PkgPath {
				rc.Interfaces = append(rc.Interfaces, iface.Name)
				continue
			}
			rc.Interfaces = append(rc.Interfaces, alias(iface)+"."+iface.Name)
		}

		components = append(components, rc)
	}

	slices.SortFunc(imports[1:], func(a, b importSpec) int {
		return strings.Compare(a.Path, b.Path)
	})

	var buf bytes.Buffer
	err := fileTemplate.Execute(&buf, map[string]any{
		"Package":    pkg.Name,
		"Func":       funcName,
		"Imports":    imports,
		"Components": components,
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", pkg.PkgPath, err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", pkg.PkgPath, err)
	}

	return src, nil
}
