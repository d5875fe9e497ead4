// Package query builds the internship search pipeline from a student's
// interests, skills and preferred locations.
package query

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/domain/search/filter"
)

// Pipeline defaults.
const (
	DefaultMaxEdits           = 1
	DefaultMinimumShouldMatch = 1
	DefaultLimit              = 10
	// FieldAmbitionBoxURL is the indexed alias of the external ratings URL.
	FieldAmbitionBoxURL = "ambitionBoxUrl"
)

var (
	// InterestFields are searched with the space-joined interests.
	InterestFields = []string{
		job.FieldTitle, job.FieldJobDescription, job.FieldTagsAndSkills,
		job.FieldCompanyName, FieldAmbitionBoxURL,
	}
	// SkillFields are searched with the comma-joined skills.
	SkillFields = []string{job.FieldTagsAndSkills, job.FieldJobDescription}
	// InternshipFields are scanned by the internship post-filter.
	InternshipFields = []string{
		job.FieldJobType, job.FieldTitle, job.FieldJobDescription,
		job.FieldJDURL, job.FieldCompanyJobsURL, job.FieldTagsAndSkills,
	}

	internshipPattern = regexp.MustCompile(`(?i)intern`)
	termSplitter      = regexp.MustCompile(`[\s,]+`)
)

// Clause is a fuzzy should-clause over a set of fields.
type Clause struct {
	Name     string
	Fields   []string
	Text     string
	MaxEdits int
}

// Terms splits the clause text into distinct lowercase terms.
func (c Clause) Terms() []string {
	var out []string
	for _, t := range termSplitter.Split(strings.ToLower(c.Text), -1) {
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Pipeline is a fully specified internship search. Built fresh per call.
type Pipeline struct {
	Interests          Clause
	Skills             Clause
	MinimumShouldMatch int
	InternshipFields   []string
	AllowedLocations   []string
	ScoreField         string
	Limit              int
}

// Build derives a Pipeline from the student's interests, skills and
// preferred locations. All inputs may be empty.
func Build(interests, skills, preferredLocations []string) Pipeline {
	return Pipeline{
		Interests: Clause{
			Name:     "interests",
			Fields:   InterestFields,
			Text:     strings.Join(interests, " "),
			MaxEdits: DefaultMaxEdits,
		},
		Skills: Clause{
			Name:     "skills",
			Fields:   SkillFields,
			Text:     strings.Join(skills, ", "),
			MaxEdits: DefaultMaxEdits,
		},
		MinimumShouldMatch: DefaultMinimumShouldMatch,
		InternshipFields:   InternshipFields,
		AllowedLocations:   slices.Clone(preferredLocations),
		ScoreField:         job.FieldScore,
		Limit:              DefaultLimit,
	}
}

// Clauses returns the should-clauses that carry at least one term.
func (p Pipeline) Clauses() []Clause {
	var out []Clause
	for _, c := range []Clause{p.Interests, p.Skills} {
		if len(c.Terms()) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Empty reports whether the pipeline can match no document at all:
// no clause carries text, or the location allow-list is empty.
func (p Pipeline) Empty() bool {
	return len(p.Clauses()) < p.MinimumShouldMatch || len(p.AllowedLocations) == 0
}

// LocationFilter returns the allow-list as a tag should-group. ok is false
// when the list cannot be pushed down and must be checked only in Matches.
func (p Pipeline) LocationFilter() (expr filter.Expression, ok bool) {
	expr, err := filter.AnyOf(job.FieldLocation, p.AllowedLocations)
	if err != nil || expr.IsEmpty() {
		return filter.Expression{}, false
	}
	return expr, true
}

// Matches evaluates the post-filter: the document looks like an internship
// and its location is in the allow-list.
func (p Pipeline) Matches(doc job.Document) bool {
	return p.isInternship(doc) && p.locationAllowed(doc)
}

// Apply filters docs with Matches, sorts them by ScoreField descending
// (stable) and keeps at most Limit.
func (p Pipeline) Apply(docs []job.Document) []job.Document {
	kept := make([]job.Document, 0, len(docs))
	for _, d := range docs {
		if p.Matches(d) {
			kept = append(kept, d)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return cast.ToFloat64(kept[i][p.ScoreField]) > cast.ToFloat64(kept[j][p.ScoreField])
	})

	if p.Limit > 0 && len(kept) > p.Limit {
		kept = kept[:p.Limit]
	}
	return kept
}

func (p Pipeline) isInternship(doc job.Document) bool {
	for _, f := range p.InternshipFields {
		for _, s := range textValues(doc[f]) {
			if internshipPattern.MatchString(s) {
				return true
			}
		}
	}
	return false
}

func (p Pipeline) locationAllowed(doc job.Document) bool {
	for _, loc := range textValues(doc[job.FieldLocation]) {
		if slices.Contains(p.AllowedLocations, loc) {
			return true
		}
	}
	return false
}

// textValues flattens a scalar or list field to its string values.
func textValues(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, err := cast.ToStringE(e); err == nil {
				out = append(out, s)
			}
		}
		return out
	}
	if s, err := cast.ToStringE(v); err == nil {
		return []string{s}
	}
	return nil
}
