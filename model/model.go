// Package model loads named distributions from YAML files.
//
//	distributions:
//	  - id: ksi
//	    name: ξ
//	    uniform: {start: 1, stop: 7}
//	  - id: mu
//	    name: μ
//	    values: [0, 1]
//	    probabilities: ["2/3", "1/3"]
//
// Each entry is either a uniform integer range or an explicit list of values
// with probabilities. Probabilities are decimals or "a/b" fractions.
package model

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"regexp"

	"github.com/goccy/go-yaml"

	"github.com/alexshd/randvar"
	"github.com/alexshd/randvar/calc"
)

var (
	ErrEmpty         = errors.New("model defines no distributions")
	ErrInvalidID     = errors.New("id must be an identifier")
	ErrDuplicateID   = errors.New("duplicate id")
	ErrReservedID    = errors.New("id is reserved")
	ErrAmbiguousKind = errors.New("entry needs exactly one of uniform or values")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// File is the document structure of a model file.
type File struct {
	Distributions []Entry `yaml:"distributions"`
}

// Entry describes one distribution.
type Entry struct {
	ID            string        `yaml:"id"`
	Name          string        `yaml:"name,omitempty"`
	Uniform       *Uniform      `yaml:"uniform,omitempty"`
	Values        []float64     `yaml:"values,omitempty"`
	Probabilities []Probability `yaml:"probabilities,omitempty"`
}

// Uniform is an evenly weighted integer range [Start, Stop).
type Uniform struct {
	Start int  `yaml:"start"`
	Stop  int  `yaml:"stop"`
	Step  *int `yaml:"step,omitempty"` // defaults to 1
}

// Probability accepts a YAML number or a string holding a decimal or a
// fraction.
type Probability float64

// UnmarshalYAML implements yaml.InterfaceUnmarshaler.
func (p *Probability) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	s, ok := raw.(string)
	if !ok {
		s = fmt.Sprint(raw)
	}
	f, err := randvar.ParseProbability(s)
	if err != nil {
		return err
	}
	*p = Probability(f)
	return nil
}

// Model is a validated set of named distributions.
type Model struct {
	ids   []string
	dists map[string]*calc.Dist
}

// Load reads and builds the model at path.
func Load(path string) (*Model, error) {
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open model directory: %w", err)
	}
	defer func() {
		_ = root.Close()
	}()

	file, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	m, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a model document from r and builds its distributions.
func Parse(r io.Reader) (*Model, error) {
	var f File

	decoder := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("failed to decode model YAML: %w", err)
	}

	return Build(f)
}

// Build validates the entries of f and constructs their distributions.
func Build(f File) (*Model, error) {
	if len(f.Distributions) == 0 {
		return nil, ErrEmpty
	}

	m := &Model{dists: make(map[string]*calc.Dist, len(f.Distributions))}
	for i, e := range f.Distributions {
		if err := m.validateID(e.ID); err != nil {
			return nil, fmt.Errorf("distribution %d: %w", i, err)
		}

		d, err := e.Distribution()
		if err != nil {
			return nil, fmt.Errorf("distribution %d (%s): %w", i, e.ID, err)
		}

		m.ids = append(m.ids, e.ID)
		m.dists[e.ID] = d
	}
	return m, nil
}

func (m *Model) validateID(id string) error {
	switch {
	case !identifier.MatchString(id):
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	case calc.IsReserved(id):
		return fmt.Errorf("%w: %q", ErrReservedID, id)
	}
	if _, dup := m.dists[id]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	return nil
}

// Distribution constructs the distribution described by e. The name
// defaults to the id.
func (e Entry) Distribution() (*calc.Dist, error) {
	name := e.Name
	if name == "" {
		name = e.ID
	}

	hasValues := len(e.Values) > 0 || len(e.Probabilities) > 0
	if (e.Uniform != nil) == hasValues {
		return nil, ErrAmbiguousKind
	}

	if e.Uniform != nil {
		step := 1
		if e.Uniform.Step != nil {
			step = *e.Uniform.Step
		}
		ints, err := randvar.EvenlyRangeStep(e.Uniform.Start, e.Uniform.Stop, step, name)
		if err != nil {
			return nil, err
		}
		return randvar.Map(ints, func(v int) float64 { return float64(v) }, name)
	}

	probs := make([]float64, len(e.Probabilities))
	for i, p := range e.Probabilities {
		probs[i] = float64(p)
	}
	return randvar.Arrange(e.Values, probs, name)
}

// Get returns the distribution with the given id.
func (m *Model) Get(id string) (*calc.Dist, bool) {
	d, ok := m.dists[id]
	return d, ok
}

// Lookup returns the distributions for ids, or all of them in file order
// when ids is empty.
func (m *Model) Lookup(ids ...string) ([]*calc.Dist, error) {
	if len(ids) == 0 {
		ids = m.ids
	}
	out := make([]*calc.Dist, len(ids))
	for i, id := range ids {
		d, ok := m.dists[id]
		if !ok {
			return nil, fmt.Errorf("%w %q", calc.ErrUnknownVariable, id)
		}
		out[i] = d
	}
	return out, nil
}

// IDs returns the ids in file order.
func (m *Model) IDs() []string {
	return append([]string(nil), m.ids...)
}

// Vars returns the id to distribution map used by calc.New.
func (m *Model) Vars() map[string]*calc.Dist {
	return maps.Clone(m.dists)
}
