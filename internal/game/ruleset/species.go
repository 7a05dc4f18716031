package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpeciesDef is a playable species loaded from YAML.
//
// Precondition: ID and Name must be non-empty after loading.
type SpeciesDef struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Strength    int              `yaml:"strength"`
	Dexterity   int              `yaml:"dexterity"`
	Intellect   int              `yaml:"intellect"`
	BloodFeeder bool             `yaml:"blood_feeder"`
	NoWeapons   bool             `yaml:"no_weapons"`
	Tentacles   bool             `yaml:"tentacles"`
	Mutations   map[Mutation]int `yaml:"mutations"`
}

// Validate reports every problem with the definition.
func (s *SpeciesDef) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if s.Strength < 0 || s.Dexterity < 0 || s.Intellect < 0 {
		errs = append(errs, errors.New("base stats must be >= 0"))
	}
	for m, lvl := range s.Mutations {
		if lvl < 1 || lvl > 3 {
			errs = append(errs, fmt.Errorf("mutation %s level must be 1-3, got %d", m, lvl))
		}
	}
	return errors.Join(errs...)
}

// LoadSpecies reads all .yaml files in dir and parses each as a SpeciesDef.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed species keyed by ID or a non-nil error.
func LoadSpecies(dir string) (map[string]*SpeciesDef, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*SpeciesDef, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var s SpeciesDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("parsing species file %s: %w", path, err)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("species file %s: %w", path, err)
		}
		if _, dup := out[s.ID]; dup {
			return nil, fmt.Errorf("duplicate species id %q in %s", s.ID, path)
		}
		out[s.ID] = &s
	}
	return out, nil
}
