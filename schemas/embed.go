// Package schemas holds the JSON Schemas that LLM output is validated against.
package schemas

import "embed"

// Schema file names.
const (
	ResumeDocument  = "resume_document.schema.json"
	ProjectVerdicts = "project_verdicts.schema.json"
)

// Files contains every *.schema.json in this directory.
//
//go:embed *.schema.json
var Files embed.FS
