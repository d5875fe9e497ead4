// Package verdict defines the match verdict contract returned by the LLM
// and validates raw completions against it.
package verdict

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// Verdict keys.
const (
	KeyMatchScore  = "match_score"
	KeyCompanyName = "company_name"
	KeyJobRole     = "job_role"
	KeyStrengths   = "strengths"
	KeyWeakness    = "weakness"

	MinScore = 0
	MaxScore = 100
)

var keys = []string{KeyMatchScore, KeyCompanyName, KeyJobRole, KeyStrengths, KeyWeakness}

// Match is one evaluated job. The analyzer returns verdicts as raw text;
// this type documents the shape and is used by tests and clients.
type Match struct {
	MatchScore  float64  `json:"match_score"`
	CompanyName string   `json:"company_name"`
	JobRole     string   `json:"job_role"`
	Strengths   []string `json:"strengths"`
	Weakness    []string `json:"weakness"`
}

// Clean trims whitespace and strips a surrounding markdown code fence.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the info string (e.g. "json")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Validate checks that raw is a JSON array of verdicts sorted by
// match_score descending. Errors wrap domain.ErrInvalidVerdict.
func Validate(raw string) error {
	if !gjson.Valid(raw) {
		return invalid("not valid JSON")
	}
	root := gjson.Parse(raw)
	if !root.IsArray() {
		return invalid("expected a JSON array")
	}

	prev := float64(MaxScore)
	var err error
	root.ForEach(func(idx, el gjson.Result) bool {
		i := int(idx.Int())
		if err = validateElement(i, el); err != nil {
			return false
		}
		score := el.Get(KeyMatchScore).Float()
		if score > prev {
			err = invalid(fmt.Sprintf("element %d: not sorted by %s descending", i, KeyMatchScore))
			return false
		}
		prev = score
		return true
	})
	return err
}

func validateElement(i int, el gjson.Result) error {
	if !el.IsObject() {
		return invalid(fmt.Sprintf("element %d: expected an object", i))
	}

	n := 0
	var extra string
	el.ForEach(func(k, _ gjson.Result) bool {
		n++
		if !isKey(k.String()) && extra == "" {
			extra = k.String()
		}
		return true
	})
	if extra != "" {
		return invalid(fmt.Sprintf("element %d: unexpected key %q", i, extra))
	}
	if n != len(keys) {
		return invalid(fmt.Sprintf("element %d: expected %d keys, got %d", i, len(keys), n))
	}

	score := el.Get(KeyMatchScore)
	if score.Type != gjson.Number {
		return invalid(fmt.Sprintf("element %d: %s must be a number", i, KeyMatchScore))
	}
	if f := score.Float(); f < MinScore || f > MaxScore {
		return invalid(fmt.Sprintf("element %d: %s %g out of range [%d,%d]", i, KeyMatchScore, f, MinScore, MaxScore))
	}

	for _, k := range []string{KeyCompanyName, KeyJobRole} {
		if el.Get(k).Type != gjson.String {
			return invalid(fmt.Sprintf("element %d: %s must be a string", i, k))
		}
	}

	for _, k := range []string{KeyStrengths, KeyWeakness} {
		v := el.Get(k)
		if !v.IsArray() {
			return invalid(fmt.Sprintf("element %d: %s must be an array", i, k))
		}
		for _, s := range v.Array() {
			if s.Type != gjson.String {
				return invalid(fmt.Sprintf("element %d: %s must contain only strings", i, k))
			}
		}
	}
	return nil
}

func isKey(k string) bool {
	for _, want := range keys {
		if k == want {
			return true
		}
	}
	return false
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidVerdict, msg)
}
