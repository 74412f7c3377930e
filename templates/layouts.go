package templates

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

const (
	GeneralLayoutFile        = "sprint_general_label_layout.json"
	ReagentAliquotLayoutFile = "sprint_reagent_aliquot_label_layout.json"
)

//go:embed layouts/*.json
var assets embed.FS

// Set holds the templates for every print job type.
type Set struct {
	General        *Template
	ReagentAliquot *Template
}

// LoadSet loads the layout templates. With an empty dir the embedded assets
// are used; otherwise both files are read from dir.
func LoadSet(dir string) (*Set, error) {
	read := func(name string) ([]byte, error) {
		return assets.ReadFile("layouts/" + name)
	}
	if dir != "" {
		read = func(name string) ([]byte, error) {
			return os.ReadFile(filepath.Join(dir, name))
		}
	}

	general, err := load(read, GeneralLayoutFile)
	if err != nil {
		return nil, err
	}
	reagent, err := load(read, ReagentAliquotLayoutFile)
	if err != nil {
		return nil, err
	}
	return &Set{General: general, ReagentAliquot: reagent}, nil
}

// DefaultSet returns the embedded templates.
func DefaultSet() *Set {
	set, err := LoadSet("")
	if err != nil {
		panic(err)
	}
	return set
}

func load(read func(string) ([]byte, error), name string) (*Template, error) {
	raw, err := read(name)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	return New(name, raw)
}
