// Package student models the job-seeker profile supplied by callers.
package student

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/kailas-cloud/jobmatch/internal/domain/ident"
)

// Record is a student as received from the caller: a free-form JSON object.
// It is forwarded to the LLM as-is (after identifier normalization).
type Record = map[string]any

// Preferences holds the job preferences of a student.
type Preferences struct {
	Interests          []string `mapstructure:"interests" json:"interests"`
	PreferredLocations []string `mapstructure:"preferred_locations" json:"preferred_locations"`
	EmploymentType     []string `mapstructure:"employment_type" json:"employment_type"`
}

// Profile is the typed view of a Record used to build search queries.
type Profile struct {
	ID             string      `mapstructure:"id" json:"id"`
	FirstName      string      `mapstructure:"first_name" json:"first_name"`
	LastName       string      `mapstructure:"last_name" json:"last_name"`
	Skills         []string    `mapstructure:"skills" json:"skills"`
	JobPreferences Preferences `mapstructure:"job_preferences" json:"job_preferences"`
}

// Decode builds a Profile from a Record. Missing keys leave zero values;
// scalars are accepted where lists are expected.
func Decode(rec Record) (Profile, error) {
	var p Profile
	if rec == nil {
		return p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &p,
	})
	if err != nil {
		return Profile{}, fmt.Errorf("new decoder: %w", err)
	}
	if err := dec.Decode(ident.NormalizeMap(rec)); err != nil {
		return Profile{}, fmt.Errorf("decode student profile: %w", err)
	}

	p.Skills = compact(p.Skills)
	p.JobPreferences.Interests = compact(p.JobPreferences.Interests)
	p.JobPreferences.PreferredLocations = compact(p.JobPreferences.PreferredLocations)
	p.JobPreferences.EmploymentType = compact(p.JobPreferences.EmploymentType)
	return p, nil
}

// FullName joins first and last name, skipping empty parts.
func (p *Profile) FullName() string {
	return strings.TrimSpace(strings.Join(compact([]string{p.FirstName, p.LastName}), " "))
}

// compact trims entries and drops empty ones.
func compact(in []string) []string {
	if len(in) == 0 {
		return in
	}
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
