// Package job holds the job posting model and the shaping of raw ranked
// documents into caller-facing postings.
package job

import (
	"strings"

	"github.com/spf13/cast"
)

// Raw document field names.
const (
	FieldNativeID       = "_id"
	FieldJobID          = "job_id"
	FieldTitle          = "title"
	FieldCompanyName    = "companyName"
	FieldJobDescription = "jobDescription"
	FieldTagsAndSkills  = "tagsAndSkills"
	FieldLocation       = "location"
	FieldJobType        = "jobType"
	FieldJDURL          = "jdURL"
	FieldCompanyJobsURL = "companyJobsUrl"
	FieldScore          = "score"
)

// Result caps.
const (
	// MaxAnalyzed bounds the postings sent to the LLM.
	MaxAnalyzed = 10
	// MaxCombined bounds the postings returned by the combined endpoint.
	MaxCombined = 15
	// MaxSearchOnly bounds the postings returned by the search-only endpoint.
	MaxSearchOnly = 10
)

// Document is a raw ranked document as produced by the search service.
type Document = map[string]any

// Posting is a shaped job record. Every field is optional and encodes as null when absent.
type Posting struct {
	Title          *string  `json:"title"`
	CompanyName    *string  `json:"companyName"`
	JobDescription *string  `json:"jobDescription"`
	TagsAndSkills  *string  `json:"tagsAndSkills"`
	Location       *string  `json:"location"`
	JobType        *string  `json:"jobType"`
	JDURL          *string  `json:"jdURL"`
	Score          *float64 `json:"score"`
}

// IsWellFormed reports whether the posting identifies a job well enough to be analyzed.
func (p *Posting) IsWellFormed() bool {
	if p == nil {
		return false
	}
	return nonEmpty(p.Title) || nonEmpty(p.CompanyName)
}

// RenameID moves the native identifier to job_id. The document is modified in place.
func RenameID(doc Document) Document {
	if doc == nil {
		return doc
	}
	if id, ok := doc[FieldNativeID]; ok {
		doc[FieldJobID] = id
		delete(doc, FieldNativeID)
	}
	return doc
}

// Shape keeps at most limit documents (limit <= 0 keeps all) and projects each
// to a Posting. Documents must already be normalized.
func Shape(docs []Document, limit int) []Posting {
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	out := make([]Posting, 0, len(docs))
	for _, d := range docs {
		out = append(out, Project(d))
	}
	return out
}

// Project maps a single document to a Posting. Missing or non-coercible fields become nil.
func Project(doc Document) Posting {
	return Posting{
		Title:          stringField(doc, FieldTitle),
		CompanyName:    stringField(doc, FieldCompanyName),
		JobDescription: stringField(doc, FieldJobDescription),
		TagsAndSkills:  stringField(doc, FieldTagsAndSkills),
		Location:       stringField(doc, FieldLocation),
		JobType:        stringField(doc, FieldJobType),
		JDURL:          stringField(doc, FieldJDURL),
		Score:          floatField(doc, FieldScore),
	}
}

// Truncate returns at most n postings.
func Truncate(postings []Posting, n int) []Posting {
	if n >= 0 && len(postings) > n {
		return postings[:n]
	}
	return postings
}

func stringField(doc Document, key string) *string {
	v, ok := doc[key]
	if !ok || v == nil {
		return nil
	}
	switch v.(type) {
	case []any, []string:
		parts, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil
		}
		s := strings.Join(parts, ",")
		return &s
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil
	}
	return &s
}

func floatField(doc Document, key string) *float64 {
	v, ok := doc[key]
	if !ok || v == nil {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return &f
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
