// Package reference loads the static compatibility dataset the engine is
// built from. The default dataset is embedded in the binary; a YAML file with
// the same layout may replace it.
package reference

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/okian/teamfit/internal/domain/compat"
	"github.com/okian/teamfit/internal/domain/zodiac"
	"gopkg.in/yaml.v3"
)

//go:embed data/compatibility.yaml
var embedded []byte

// Embedded returns a copy of the embedded dataset.
func Embedded() []byte {
	return bytes.Clone(embedded)
}

type document struct {
	Version  int               `yaml:"version"`
	Elements map[string]string `yaml:"elements"`
	Harmony  []harmonyDoc      `yaml:"harmony"`
	Records  []recordDoc       `yaml:"records"`
}

type harmonyDoc struct {
	Elements []string `yaml:"elements"`
	Harmony  string   `yaml:"harmony"`
}

type recordDoc struct {
	Signs         []string `yaml:"signs"`
	compat.Scores `yaml:",inline"`
}

// Dataset is decoded reference data ready to be frozen into a matrix.
type Dataset struct {
	Version  int
	Rows     []compat.Row
	Elements map[zodiac.Sign]zodiac.Element
	// Harmony is nil when the document does not override the default table.
	Harmony compat.HarmonyTable
}

// Decode parses a YAML dataset. It checks shape only; completeness and score
// ranges are validated by compat.NewMatrix.
func Decode(r io.Reader) (Dataset, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	ds := Dataset{
		Version:  doc.Version,
		Rows:     make([]compat.Row, 0, len(doc.Records)),
		Elements: make(map[zodiac.Sign]zodiac.Element, len(doc.Elements)),
	}
	for name, el := range doc.Elements {
		s, err := zodiac.ParseSign(name)
		if err != nil {
			return Dataset{}, fmt.Errorf("%w: elements: %w", ErrInvalidData, err)
		}
		e, err := zodiac.ParseElement(el)
		if err != nil {
			return Dataset{}, fmt.Errorf("%w: elements[%s]: %w", ErrInvalidData, name, err)
		}
		ds.Elements[s] = e
	}
	if len(doc.Harmony) > 0 {
		ds.Harmony = compat.HarmonyTable{}
		for i, h := range doc.Harmony {
			if len(h.Elements) != 2 {
				return Dataset{}, fmt.Errorf("%w: harmony[%d]: want 2 elements, got %d", ErrInvalidData, i, len(h.Elements))
			}
			a, err := zodiac.ParseElement(h.Elements[0])
			if err != nil {
				return Dataset{}, fmt.Errorf("%w: harmony[%d]: %w", ErrInvalidData, i, err)
			}
			b, err := zodiac.ParseElement(h.Elements[1])
			if err != nil {
				return Dataset{}, fmt.Errorf("%w: harmony[%d]: %w", ErrInvalidData, i, err)
			}
			ds.Harmony[compat.ElementPairOf(a, b)] = compat.Harmony(h.Harmony)
		}
	}
	for i, rec := range doc.Records {
		if len(rec.Signs) != 2 {
			return Dataset{}, fmt.Errorf("%w: records[%d]: want 2 signs, got %d", ErrInvalidData, i, len(rec.Signs))
		}
		a, err := zodiac.ParseSign(rec.Signs[0])
		if err != nil {
			return Dataset{}, fmt.Errorf("%w: records[%d]: %w", ErrInvalidData, i, err)
		}
		b, err := zodiac.ParseSign(rec.Signs[1])
		if err != nil {
			return Dataset{}, fmt.Errorf("%w: records[%d]: %w", ErrInvalidData, i, err)
		}
		ds.Rows = append(ds.Rows, compat.Row{A: a, B: b, Scores: rec.Scores})
	}
	return ds, nil
}

// Options returns the matrix options carried by the dataset.
func (d Dataset) Options() []compat.Option {
	opts := []compat.Option{compat.WithElements(d.Elements)}
	if d.Harmony != nil {
		opts = append(opts, compat.WithHarmonyTable(d.Harmony))
	}
	return opts
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	path    string
	harmony compat.HarmonyTable
}

// WithPath reads the dataset from a YAML file instead of the embedded copy.
func WithPath(path string) Option {
	return func(l *loader) {
		l.path = path
	}
}

// WithHarmonyTable overrides whatever harmony table the dataset carries.
func WithHarmonyTable(t HarmonyTable) Option {
	return func(l *loader) {
		l.harmony = t
	}
}

// HarmonyTable is re-exported so callers configuring Load need not import compat.
type HarmonyTable = compat.HarmonyTable

// Load decodes and validates the dataset and returns the frozen matrix. Any
// error is fatal for the engine. Context is accepted first to follow the
// project-wide convention.
func Load(_ context.Context, opts ...Option) (*compat.Matrix, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}

	data := embedded
	if l.path != "" {
		b, err := os.ReadFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
		data = b
	}

	ds, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	mopts := ds.Options()
	if l.harmony != nil {
		mopts = append(mopts, compat.WithHarmonyTable(l.harmony))
	}
	m, err := compat.NewMatrix(ds.Rows, mopts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Default loads the embedded dataset.
func Default() (*compat.Matrix, error) {
	return Load(context.Background())
}

// MustDefault is Default for tests and process initialization; it panics if
// the embedded dataset is invalid.
func MustDefault() *compat.Matrix {
	m, err := Default()
	if err != nil {
		panic(errors.Join(errors.New("embedded reference data invalid"), err))
	}
	return m
}
