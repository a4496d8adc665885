package coursework

import (
	"io"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classdrop/core"
)

// TimestampLayout is the format of record timestamps (createdAt, submissionTime): ISO 8601, UTC, milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// accepted dueDate formats, most specific first
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

type Assignment struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate"`
	CreatedAt   string `json:"createdAt"`
}

type Submission struct {
	ID             string `json:"id"`
	AssignmentID   string `json:"assignmentId"`
	StudentID      string `json:"studentId"`
	StudentName    string `json:"studentName"`
	FilePath       string `json:"filePath"`
	FileName       string `json:"fileName"`
	DownloadURL    string `json:"downloadUrl"`
	SubmissionTime string `json:"submissionTime"`
}

// Document is the single persisted object holding all assignments and submissions.
type Document struct {
	Assignments []Assignment `json:"assignments"`
	Submissions []Submission `json:"submissions"`
}

// NewDocument returns the empty template.
func NewDocument() Document {
	return Document{
		Assignments: []Assignment{},
		Submissions: []Submission{},
	}
}

// Normalize replaces missing collections with empty ones.
func (doc *Document) Normalize() {
	if doc.Assignments == nil {
		doc.Assignments = []Assignment{}
	}
	if doc.Submissions == nil {
		doc.Submissions = []Submission{}
	}
}

// Clone returns a copy of doc sharing no backing arrays with it.
func (doc Document) Clone() Document {
	c := Document{
		Assignments: make([]Assignment, len(doc.Assignments)),
		Submissions: make([]Submission, len(doc.Submissions)),
	}
	copy(c.Assignments, doc.Assignments)
	copy(c.Submissions, doc.Submissions)
	return c
}

func (doc *Document) assignmentIndex(id string) int {
	for i, asg := range doc.Assignments {
		if asg.ID == id {
			return i
		}
	}
	return -1
}

func (doc *Document) hasSubmission(id string) bool {
	for _, sub := range doc.Submissions {
		if sub.ID == id {
			return true
		}
	}
	return false
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" validate:"notblank"`
}

func (na *NewAssignment) Validate(validate *validator.Validate, translator ut.Translator) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.DueDate = core.CleanString(na.DueDate)
	return core.NewFieldsValidationError(validate.Struct(na), translator)
}

// UploadedFile is a file received from a client, not yet stored.
type UploadedFile struct {
	Name    string    `json:"fileName" validate:"notblank"` // original client filename
	Content io.Reader `json:"content" validate:"required"`
}

// NewSubmission contains information needed to create a new Submission.
type NewSubmission struct {
	AssignmentID string        `json:"assignmentId" validate:"notblank"`
	StudentName  string        `json:"studentName" validate:"notblank"`
	File         *UploadedFile `json:"submissionFile" validate:"required"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate, translator ut.Translator) error {
	ns.AssignmentID = core.CleanString(ns.AssignmentID)
	ns.StudentName = core.CleanString(ns.StudentName)
	return core.NewFieldsValidationError(validate.Struct(ns), translator)
}

// PlacedFile describes an uploaded file once stored.
type PlacedFile struct {
	Path        string // absolute server path
	StoredName  string // collision-resistant name the file is saved under
	DownloadURL string // public relative path the file is served from
	Size        int64
}

// parseDueDate reads dueDate as an instant, reporting whether it could.
func parseDueDate(s string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
