// Package scoring ranks stored jobs against a weighted skills
// profile. It is a collaborator of the store: it reads raw payloads,
// computes a 0-100 score and writes it back. The store itself never
// interprets the payloads.
package scoring

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Bucket groups related skills under one weight.
type Bucket struct {
	Name   string   `json:"name" validate:"required"`
	Weight float64  `json:"weight,omitempty"`
	Skills []string `json:"skills" validate:"required,min=1"`
}

// Profile is the candidate's skills profile, loaded from a JSON file.
type Profile struct {
	Summary string   `json:"summary,omitempty"`
	Buckets []Bucket `json:"buckets" validate:"required,min=1,dive"`
}

var validate = validator.New()

// LoadProfile reads and validates a skills profile from a JSON file.
// Buckets without an explicit weight default to 1.0.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Validate checks the profile and applies weight defaults.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	for i := range p.Buckets {
		if p.Buckets[i].Weight == 0 {
			p.Buckets[i].Weight = 1.0
		}
		if p.Buckets[i].Weight < 0 {
			return fmt.Errorf("invalid profile: bucket %s has negative weight", p.Buckets[i].Name)
		}
	}
	return nil
}
