package job

import (
	"github.com/kailas-cloud/jobmatch/internal/db"
	domjob "github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/domain/search/query"
)

// LocationSeparator splits multi-valued location tags.
const LocationSeparator = "|"

// buildIndex returns the FT.CREATE definition for job postings stored as JSON.
func buildIndex(name, prefix string) (*db.IndexDefinition, error) {
	return db.NewIndex(name).
		OnJSON().
		Prefix(prefix).
		TextAs("$."+domjob.FieldTitle, domjob.FieldTitle).
		TextAs("$."+domjob.FieldJobDescription, domjob.FieldJobDescription).
		TextAs("$."+domjob.FieldTagsAndSkills, domjob.FieldTagsAndSkills).
		TextAs("$."+domjob.FieldCompanyName, domjob.FieldCompanyName).
		TextAs("$.ambitionBoxData.Url", query.FieldAmbitionBoxURL).
		TagAs("$."+domjob.FieldLocation, domjob.FieldLocation, LocationSeparator).
		TagAs("$."+domjob.FieldJobType, domjob.FieldJobType, "").
		Build()
}
