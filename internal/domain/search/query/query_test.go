package query

import (
	"slices"
	"testing"

	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/domain/search/filter"
)

func TestBuild_ClauseText(t *testing.T) {
	p := Build([]string{"data", "machine learning"}, []string{"python", "sql"}, []string{"Remote"})

	if p.Interests.Text != "data machine learning" {
		t.Errorf("interest text = %q", p.Interests.Text)
	}
	if p.Skills.Text != "python, sql" {
		t.Errorf("skill text = %q", p.Skills.Text)
	}
	if !slices.Equal(p.Skills.Terms(), []string{"python", "sql"}) {
		t.Errorf("skill terms = %v", p.Skills.Terms())
	}
	if p.Interests.MaxEdits != 1 || p.Skills.MaxEdits != 1 {
		t.Error("expected max edits 1")
	}
	if p.MinimumShouldMatch != 1 {
		t.Errorf("minimum should match = %d", p.MinimumShouldMatch)
	}
	if p.Limit != 10 || p.ScoreField != "score" {
		t.Errorf("limit=%d scoreField=%q", p.Limit, p.ScoreField)
	}
	if !slices.Equal(p.Skills.Fields, []string{"tagsAndSkills", "jobDescription"}) {
		t.Errorf("skill fields = %v", p.Skills.Fields)
	}
	if !slices.Contains(p.Interests.Fields, FieldAmbitionBoxURL) {
		t.Errorf("interest fields = %v", p.Interests.Fields)
	}
}

func TestBuild_CopiesLocations(t *testing.T) {
	locs := []string{"Remote"}
	p := Build(nil, nil, locs)
	locs[0] = "Mutated"
	if p.AllowedLocations[0] != "Remote" {
		t.Error("pipeline must not alias caller slice")
	}
}

func TestClause_Terms(t *testing.T) {
	c := Clause{Text: "Python, SQL  python,\tGo"}
	got := c.Terms()
	want := []string{"python", "sql", "go"}
	if !slices.Equal(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}
	if len((Clause{Text: " , "}).Terms()) != 0 {
		t.Error("expected no terms for separators only")
	}
}

func TestPipeline_Empty(t *testing.T) {
	tests := []struct {
		name      string
		interests []string
		skills    []string
		locs      []string
		want      bool
	}{
		{"all set", []string{"data"}, []string{"python"}, []string{"Remote"}, false},
		{"skills only", nil, []string{"python"}, []string{"Remote"}, false},
		{"no text", nil, nil, []string{"Remote"}, true},
		{"blank text", []string{""}, []string{" "}, []string{"Remote"}, true},
		{"no locations", []string{"data"}, []string{"python"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Build(tt.interests, tt.skills, tt.locs).Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPipeline_LocationFilter(t *testing.T) {
	expr, ok := Build(nil, nil, []string{"Remote", "Pune"}).LocationFilter()
	if !ok {
		t.Fatal("expected pushdown")
	}
	if len(expr.Should()) != 2 || expr.Should()[0].Key() != "location" {
		t.Errorf("unexpected expression %+v", expr.Should())
	}

	if _, ok := Build(nil, nil, nil).LocationFilter(); ok {
		t.Error("empty allow-list must not push down")
	}

	many := make([]string, filter.MaxConditionsPerGroup+1)
	for i := range many {
		many[i] = string(rune('A' + i))
	}
	if _, ok := Build(nil, nil, many).LocationFilter(); ok {
		t.Error("oversized allow-list must not push down")
	}
}

func TestPipeline_Matches(t *testing.T) {
	p := Build([]string{"data"}, []string{"python"}, []string{"Remote", "Pune"})

	tests := []struct {
		name string
		doc  job.Document
		want bool
	}{
		{"jobType internship", job.Document{"jobType": "Internship", "location": "Remote"}, true},
		{"title intern", job.Document{"title": "Data INTERN", "location": "Pune"}, true},
		{"url intern", job.Document{"jdURL": "https://x.example/internships/1", "location": "Remote"}, true},
		{"tags list", job.Document{"tagsAndSkills": []any{"sql", "internship"}, "location": "Remote"}, true},
		{"location list", job.Document{"jobType": "Internship", "location": []any{"Delhi", "Pune"}}, true},
		{"not internship", job.Document{"jobType": "Full Time", "title": "Engineer", "location": "Remote"}, false},
		{"wrong location", job.Document{"jobType": "Internship", "location": "Delhi"}, false},
		{"case differs", job.Document{"jobType": "Internship", "location": "remote"}, false},
		{"no location", job.Document{"jobType": "Internship"}, false},
		{"ignored field", job.Document{"companyName": "InternCo", "location": "Remote"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Matches(tt.doc); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPipeline_Matches_EmptyAllowList(t *testing.T) {
	p := Build([]string{"data"}, nil, nil)
	if p.Matches(job.Document{"jobType": "Internship", "location": "Remote"}) {
		t.Error("empty allow-list matches nothing")
	}
}

func TestPipeline_Apply_SortsAndLimits(t *testing.T) {
	p := Build([]string{"data"}, nil, []string{"Remote"})
	p.Limit = 2

	docs := []job.Document{
		{"title": "a", "jobType": "Internship", "location": "Remote", "score": 1.0},
		{"title": "b", "jobType": "Internship", "location": "Remote", "score": 3.0},
		{"title": "c", "jobType": "Internship", "location": "Remote", "score": 3.0},
		{"title": "d", "jobType": "Internship", "location": "Remote", "score": 2.0},
	}
	got := p.Apply(docs)
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got[0]["title"] != "b" || got[1]["title"] != "c" {
		t.Errorf("expected stable order b,c got %v,%v", got[0]["title"], got[1]["title"])
	}
}

func TestPipeline_Apply_EndToEnd(t *testing.T) {
	p := Build([]string{"data"}, []string{"python", "sql"}, []string{"Remote"})

	docs := []job.Document{
		{"title": "Data Analyst", "jobType": "Full Time", "location": "Remote", "score": 9.0},
		{"title": "Data Intern", "jobType": "Internship", "location": "Bangalore", "score": 7.0},
		{"title": "Data Science Intern", "jobType": "Internship", "location": "Remote", "score": 1.0},
	}
	got := p.Apply(docs)
	if len(got) != 1 {
		t.Fatalf("expected exactly one posting, got %d", len(got))
	}
	if got[0]["title"] != "Data Science Intern" {
		t.Errorf("unexpected posting %v", got[0]["title"])
	}
}
