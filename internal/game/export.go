package game

import (
	"encoding/json"
	"fmt"
)

// ExportDoc is the single JSON document the console downloads and
// re-imports. Importing an export must reproduce an equivalent game setup.
type ExportDoc struct {
	Version        int            `json:"version"`
	Name           string         `json:"name"`
	Config         Config         `json:"config"`
	Branding       Branding       `json:"branding"`
	TeamQuiz       []QuizQuestion `json:"teamQuiz"`
	IndividualQuiz []QuizQuestion `json:"individualQuiz"`
}

// ExportVersion is bumped when the document layout changes.
const ExportVersion = 1

// MarshalExport renders the document as indented JSON for download.
func MarshalExport(doc ExportDoc) ([]byte, error) {
	doc.Version = ExportVersion
	return json.MarshalIndent(doc, "", "  ")
}

// ParseExport reads an uploaded document back, filling zero-value blobs
// with defaults so older exports stay importable.
func ParseExport(data []byte) (ExportDoc, error) {
	var doc ExportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parsing export document: %w", err)
	}
	if doc.Version > ExportVersion {
		return doc, fmt.Errorf("unsupported export version %d", doc.Version)
	}
	if doc.Name == "" {
		doc.Name = doc.Config.GameName
	}
	if doc.Config.Routes == nil {
		doc.Config.Routes = map[string][]string{}
	}
	if doc.TeamQuiz == nil {
		doc.TeamQuiz = []QuizQuestion{}
	}
	if doc.IndividualQuiz == nil {
		doc.IndividualQuiz = []QuizQuestion{}
	}
	return doc, nil
}
