package match

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/kailas-cloud/jobmatch/internal/domain/job"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

type promptData struct {
	Jobs    string
	Student string
	Error   string
}

// buildPrompts renders the system prompt (instructions plus job JSON) and
// the user prompt (student JSON).
func buildPrompts(jobs []job.Posting, student map[string]any) (system, user string, err error) {
	jobsJSON, err := json.Marshal(jobs)
	if err != nil {
		return "", "", fmt.Errorf("marshal jobs: %w", err)
	}
	studentJSON, err := json.Marshal(student)
	if err != nil {
		return "", "", fmt.Errorf("marshal student: %w", err)
	}

	data := promptData{Jobs: string(jobsJSON), Student: string(studentJSON)}
	if system, err = render("system.tmpl", data); err != nil {
		return "", "", err
	}
	if user, err = render("user.tmpl", data); err != nil {
		return "", "", err
	}
	return system, user, nil
}

func buildRepairPrompt(validationErr error) (string, error) {
	return render("repair.tmpl", promptData{Error: validationErr.Error()})
}

func render(name string, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
