// Package resumes stores resume documents and serves them over HTTP.
package resumes

import (
	"time"

	"github.com/ByLCY/cvpress/resume"
)

// Document is a stored resume: the record plus identity and timestamps.
// The record fields are flattened into the JSON object.
type Document struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	resume.Record
}

// Summary is the list view of a document.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d Document) summary() Summary {
	return Summary{ID: d.ID, Name: d.Name, UpdatedAt: d.UpdatedAt}
}

func (d Document) clone() Document {
	d.Record = d.Record.Clone()
	return d
}
