// Package training loads the remedial training catalog.
package training

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/okian/fitscore/internal/domain/model"
)

// ErrInvalidCatalog reports a malformed catalog file.
var ErrInvalidCatalog = errors.New("invalid training catalog")

//go:embed catalog.yaml
var builtin []byte

type file struct {
	Trainings []model.Training `yaml:"trainings"`
}

// Load parses a YAML training catalog.
func Load(r io.Reader) ([]model.Training, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	for i, t := range f.Trainings {
		if t.AgeGroup != model.AgeYoung && t.AgeGroup != model.AgeOld {
			return nil, fmt.Errorf("%w: entry %d has age group %q", ErrInvalidCatalog, i, t.AgeGroup)
		}
		if t.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidCatalog, i)
		}
	}
	return f.Trainings, nil
}

// Default returns the built-in catalog.
func Default() []model.Training {
	ts, err := Load(bytes.NewReader(builtin))
	if err != nil {
		panic(err)
	}
	return ts
}
