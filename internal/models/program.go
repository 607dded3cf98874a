// ABOUTME: Built-in catalog of training programs and their per-exercise prescriptions.
// ABOUTME: Programs are embedded as YAML and looked up by ID or name.
package models

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed programs.yaml
var programsYAML []byte

// ErrProgramNotFound is returned when no catalog program matches.
var ErrProgramNotFound = errors.New("program not found")

// ProgramType is the training emphasis of a program.
type ProgramType string

const (
	ProgramForce       ProgramType = "force"
	ProgramVolume      ProgramType = "volume"
	ProgramExplosivity ProgramType = "explosivity"
)

// Range is an inclusive integer range written "N" or "MIN-MAX".
type Range struct {
	Min int
	Max int
}

// ParseRange parses "5" or "5-6".
func ParseRange(s string) (Range, error) {
	lo, hi, found := strings.Cut(strings.TrimSpace(s), "-")
	low, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q", s)
	}
	r := Range{Min: low, Max: low}
	if found {
		high, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q", s)
		}
		r.Max = high
	}
	if r.Min > r.Max {
		return Range{}, fmt.Errorf("invalid range %q: min above max", s)
	}
	return r, nil
}

// Mid is the midpoint of the range.
func (r Range) Mid() float64 {
	return float64(r.Min+r.Max) / 2
}

func (r Range) String() string {
	if r.Min == r.Max {
		return strconv.Itoa(r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// MarshalText writes the range in its "MIN-MAX" form.
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText reads "N" or "MIN-MAX".
func (r *Range) UnmarshalText(text []byte) error {
	parsed, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// UnmarshalYAML accepts both quoted and bare scalars.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: range must be a scalar", node.Line)
	}
	return r.UnmarshalText([]byte(node.Value))
}

// ProgramExercise is one prescribed exercise within a program.
type ProgramExercise struct {
	Name        string `json:"name" yaml:"name"`
	Sets        int    `json:"sets" yaml:"sets"`
	Reps        Range  `json:"reps" yaml:"reps"`
	RestSeconds int    `json:"rest_seconds" yaml:"rest_seconds"`
	RPE         Range  `json:"rpe" yaml:"rpe"`
	Notes       string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// TargetRPE is the middle of the prescribed RPE range.
func (e ProgramExercise) TargetRPE() float64 {
	return e.RPE.Mid()
}

// Program is a named training day.
type Program struct {
	ID               string            `json:"id" yaml:"id"`
	Name             string            `json:"name" yaml:"name"`
	Type             ProgramType       `json:"type" yaml:"type"`
	Description      string            `json:"description" yaml:"description"`
	TargetMuscles    string            `json:"target_muscles" yaml:"target_muscles"`
	EstimatedMinutes int               `json:"estimated_minutes" yaml:"estimated_minutes"`
	Exercises        []ProgramExercise `json:"exercises" yaml:"exercises"`
}

// Exercise returns the prescription for name, if the program includes it.
func (p *Program) Exercise(name string) (*ProgramExercise, bool) {
	name = NormalizeExercise(name)
	for i := range p.Exercises {
		if p.Exercises[i].Name == name {
			return &p.Exercises[i], true
		}
	}
	return nil, false
}

func (p *Program) validate() error {
	if p.ID == "" || p.Name == "" {
		return errors.New("program needs an id and a name")
	}
	switch p.Type {
	case ProgramForce, ProgramVolume, ProgramExplosivity:
	default:
		return fmt.Errorf("program %s: unknown type %q", p.ID, p.Type)
	}
	if len(p.Exercises) == 0 {
		return fmt.Errorf("program %s: no exercises", p.ID)
	}
	for i := range p.Exercises {
		e := &p.Exercises[i]
		e.Name = NormalizeExercise(e.Name)
		switch {
		case e.Name == "":
			return fmt.Errorf("program %s: exercise %d has no name", p.ID, i+1)
		case e.Sets <= 0 || e.Reps.Min <= 0:
			return fmt.Errorf("program %s: %s needs positive sets and reps", p.ID, e.Name)
		case e.RestSeconds <= 0:
			return fmt.Errorf("program %s: %s needs a rest time", p.ID, e.Name)
		case e.RPE.Min < MinRPE || e.RPE.Max > MaxRPE:
			return fmt.Errorf("program %s: %s RPE %s outside %d-%d", p.ID, e.Name, e.RPE, MinRPE, MaxRPE)
		}
	}
	return nil
}

// Catalog is an immutable set of programs.
type Catalog struct {
	programs []Program
}

// ParseCatalog reads a YAML list of programs.
func ParseCatalog(data []byte) (*Catalog, error) {
	var programs []Program
	if err := yaml.Unmarshal(data, &programs); err != nil {
		return nil, fmt.Errorf("parse programs: %w", err)
	}

	seen := make(map[string]bool, len(programs))
	for i := range programs {
		p := &programs[i]
		p.ID = strings.ToLower(strings.TrimSpace(p.ID))
		if err := p.validate(); err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate program id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return &Catalog{programs: programs}, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := ParseCatalog(programsYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in programs: %v", err))
	}
	return c
})

// DefaultCatalog returns the built-in programs.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

// Programs lists the catalog in definition order.
func (c *Catalog) Programs() []Program {
	out := make([]Program, len(c.programs))
	copy(out, c.programs)
	return out
}

// Find looks a program up by ID or by name, ignoring case.
func (c *Catalog) Find(idOrName string) (*Program, error) {
	key := strings.ToLower(strings.TrimSpace(idOrName))
	if key == "" {
		return nil, ErrProgramNotFound
	}
	for i := range c.programs {
		p := c.programs[i]
		if p.ID == key || strings.ToLower(p.Name) == key {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProgramNotFound, idOrName)
}
