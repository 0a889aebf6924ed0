package export

import (
	"bytes"
	"strings"

	"baliance.com/gooxml/document"
	"github.com/jonathan/autoapply/internal/types"
)

// RenderDOCX renders the resume as a Word document.
func RenderDOCX(resume *types.ResumeDocument) ([]byte, error) {
	if resume == nil {
		return nil, &RenderError{Format: "docx", Message: "resume is required"}
	}

	doc := document.New()
	w := docxWriter{doc: doc}

	title := doc.AddParagraph()
	title.SetStyle("Title")
	title.AddRun().AddText(resume.Name)

	w.plain(joinNonEmpty(" | ", resume.Email, resume.Phone, resume.Location))
	w.plain(joinNonEmpty(" | ", resume.LinkedIn, resume.GitHub))
	w.plain(resume.TargetRole)

	if resume.Summary != "" {
		w.heading("Summary")
		w.plain(resume.Summary)
	} else if resume.CareerObjective != "" {
		w.heading("Career Objective")
		w.plain(resume.CareerObjective)
	}

	if len(resume.Education) > 0 {
		w.heading("Education")
		for _, e := range resume.Education {
			w.entry(joinNonEmpty(", ", e.Degree, e.School), e.Year)
			if e.CGPA != "" {
				w.plain("CGPA: " + e.CGPA)
			}
		}
	}

	if len(resume.WorkExperience) > 0 {
		w.heading("Work Experience")
		for _, x := range resume.WorkExperience {
			w.entry(joinNonEmpty(", ", x.Role, x.Company), x.Year)
			w.bullets(x.Bullets)
		}
	}

	if len(resume.Projects) > 0 {
		w.heading("Projects")
		for _, p := range resume.Projects {
			w.entry(p.Title, p.GitHubURL)
			w.bullets(p.Bullets)
		}
	}

	if len(resume.Skills) > 0 {
		w.heading("Skills")
		for _, s := range resume.Skills {
			para := doc.AddParagraph()
			label := para.AddRun()
			label.Properties().SetBold(true)
			label.AddText(s.Category + ": ")
			para.AddRun().AddText(strings.Join(s.List, ", "))
		}
	}

	if len(resume.Certifications) > 0 {
		w.heading("Certifications")
		for _, c := range resume.Certifications {
			w.bullets([]string{joinNonEmpty(" - ", c.Title, c.Description)})
		}
	}

	if len(resume.Achievements) > 0 {
		w.heading("Achievements")
		w.bullets(resume.Achievements)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, &RenderError{Format: "docx", Message: "failed to save document", Cause: err}
	}
	return buf.Bytes(), nil
}

type docxWriter struct {
	doc *document.Document
}

func (w docxWriter) heading(text string) {
	para := w.doc.AddParagraph()
	para.SetStyle("Heading1")
	para.AddRun().AddText(text)
}

func (w docxWriter) plain(text string) {
	if text == "" {
		return
	}
	w.doc.AddParagraph().AddRun().AddText(text)
}

func (w docxWriter) entry(head, right string) {
	para := w.doc.AddParagraph()
	run := para.AddRun()
	run.Properties().SetBold(true)
	run.AddText(head)
	if right != "" {
		para.AddRun().AddText("  (" + right + ")")
	}
}

func (w docxWriter) bullets(items []string) {
	for _, b := range items {
		w.doc.AddParagraph().AddRun().AddText("• " + b)
	}
}

func joinNonEmpty(sep string, values ...string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
