// Package seed loads the doctor catalog used to populate an empty book.
//
// Catalog files are YAML (.yaml, .yml) or CUE (.cue, .json). Whatever the
// format, the content is checked against the embedded #Catalog schema
// before use.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/citas/internal/domain"
)

//go:embed catalog.cue
var catalogSchema string

// Doctor is one catalog entry.
type Doctor struct {
	Name      string `json:"name" yaml:"name"`
	Specialty string `json:"specialty" yaml:"specialty"`
}

// Catalog is the list of doctors saved when the book has none.
type Catalog struct {
	Doctors []Doctor `json:"doctors" yaml:"doctors"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{Doctors: []Doctor{
		{Name: "Dr. Juan Pérez", Specialty: "General"},
		{Name: "Dra. Ana García", Specialty: "Pediatría"},
	}}
}

// Load reads and validates a catalog file. An empty path yields Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data, path)
	case ".cue", ".json":
		return ParseCUE(data, path)
	default:
		return nil, fmt.Errorf("catalog %s: unsupported extension %q", path, filepath.Ext(path))
	}
}

// ParseYAML decodes a YAML catalog and validates it against the schema.
func ParseYAML(data []byte, filename string) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", filename, err)
	}
	if cat.Doctors == nil {
		cat.Doctors = []Doctor{}
	}

	ctx := cuecontext.New()
	if err := validate(ctx, ctx.Encode(cat), filename); err != nil {
		return nil, err
	}
	return &cat, nil
}

// ParseCUE compiles a CUE (or JSON) catalog, unifies it with the schema
// and decodes the result.
func ParseCUE(data []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", filename, err)
	}

	unified, err := unify(ctx, v, filename)
	if err != nil {
		return nil, err
	}

	var cat Catalog
	if err := unified.Decode(&cat); err != nil {
		return nil, fmt.Errorf("catalog %s: decode: %w", filename, err)
	}
	return &cat, nil
}

func validate(ctx *cue.Context, v cue.Value, filename string) error {
	_, err := unify(ctx, v, filename)
	return err
}

func unify(ctx *cue.Context, v cue.Value, filename string) (cue.Value, error) {
	schema := ctx.CompileString(catalogSchema, cue.Filename("catalog.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("catalog schema: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Catalog")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cue.Value{}, fmt.Errorf("catalog %s: %w", filename, err)
	}
	return unified, nil
}

// DomainDoctors converts the catalog into unsaved domain doctors.
func (c *Catalog) DomainDoctors() []*domain.Doctor {
	doctors := make([]*domain.Doctor, 0, len(c.Doctors))
	for _, d := range c.Doctors {
		doctors = append(doctors, domain.NewDoctor(d.Name, d.Specialty))
	}
	return doctors
}
