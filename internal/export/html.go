package export

import (
	_ "embed"
	"html/template"
	"strings"
	"sync"

	"github.com/jonathan/autoapply/internal/types"
)

//go:embed resume.html.tmpl
var resumeTemplate string

var (
	parsedTemplate *template.Template
	parseErr       error
	parseOnce      sync.Once
)

// templateData is the view handed to the HTML template.
type templateData struct {
	*types.ResumeDocument
	Contact []string
}

func loadTemplate() (*template.Template, error) {
	parseOnce.Do(func() {
		parsedTemplate, parseErr = template.New("resume").Funcs(template.FuncMap{
			"join": strings.Join,
		}).Parse(resumeTemplate)
	})
	return parsedTemplate, parseErr
}

// RenderHTML renders a resume as a self-contained HTML page. Content is
// escaped by html/template.
func RenderHTML(resume *types.ResumeDocument) (string, error) {
	if resume == nil {
		return "", &RenderError{Format: "html", Message: "resume is required"}
	}

	tmpl, err := loadTemplate()
	if err != nil {
		return "", &TemplateError{Message: "failed to parse template", Cause: err}
	}

	data := templateData{ResumeDocument: resume}
	for _, v := range []string{resume.Email, resume.Phone, resume.Location, resume.LinkedIn, resume.GitHub} {
		if v = strings.TrimSpace(v); v != "" {
			data.Contact = append(data.Contact, v)
		}
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return sb.String(), nil
}
