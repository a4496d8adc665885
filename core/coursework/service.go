package coursework

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"sort"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/classdrop/core"
)

var NowFunc = time.Now // mockable

type (
	// DocumentStore owns the persisted Document.
	DocumentStore interface {
		// Load returns the stored Document, creating it (or resetting it when corrupt) with the empty template.
		Load(ctx context.Context) (Document, error)
		// Save overwrites the stored Document.
		Save(ctx context.Context, doc Document) error
	}

	// UploadPlacer stores uploaded files under collision-resistant names.
	UploadPlacer interface {
		Place(ctx context.Context, originalName string, r io.Reader) (PlacedFile, error)
	}

	// IdentityProvider tells who is submitting.
	IdentityProvider interface {
		StudentID(ctx context.Context, studentName string) (string, error)
	}

	ServiceDeps struct {
		Store      DocumentStore
		Placer     UploadPlacer
		Identity   IdentityProvider
		Validate   *validator.Validate
		Translator ut.Translator
		Logger     core.Logger

		// optional: submission receipts
		MailSvc     core.EmailService
		NotifyEmail string
	}

	// Service implements assignment & submission operations as load -> mutate -> save cycles on the DocumentStore.
	// Nothing guards the cycle: concurrent mutations race and the last save wins.
	Service struct {
		ServiceDeps
	}
)

func NewService(deps ServiceDeps) *Service {
	return &Service{ServiceDeps: deps}
}

// ListAssignments returns all assignments, latest dueDate first.
func (svc *Service) ListAssignments(ctx context.Context) ([]Assignment, error) {
	doc, err := svc.Store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading document")
	}
	asgs := doc.Assignments
	sortByDueDateDesc(asgs)
	return asgs, nil
}

// ListSubmissions returns all submissions in insertion order.
func (svc *Service) ListSubmissions(ctx context.Context) ([]Submission, error) {
	doc, err := svc.Store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading document")
	}
	return doc.Submissions, nil
}

func (svc *Service) CreateAssignment(ctx context.Context, na NewAssignment) (Assignment, error) {
	if err := na.Validate(svc.Validate, svc.Translator); err != nil {
		return Assignment{}, err
	}

	doc, err := svc.Store.Load(ctx)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "loading document")
	}
	id, err := newID(assignmentIDPrefix, func(id string) bool { return doc.assignmentIndex(id) >= 0 })
	if err != nil {
		return Assignment{}, err
	}

	asg := Assignment{
		ID:          id,
		Title:       na.Title,
		Description: na.Description,
		DueDate:     na.DueDate,
		CreatedAt:   timestamp(),
	}
	doc.Assignments = append(doc.Assignments, asg)
	if err = svc.Store.Save(ctx, doc); err != nil {
		return Assignment{}, errors.Wrap(err, "saving document")
	}

	svc.Logger.Info(fmt.Sprintf("assignment created: %s", asg.ID))
	return asg, nil
}

// CreateSubmission stores the uploaded file then records it.
// assignmentId is not checked against existing assignments.
func (svc *Service) CreateSubmission(ctx context.Context, ns NewSubmission) (Submission, error) {
	if err := ns.Validate(svc.Validate, svc.Translator); err != nil {
		return Submission{}, err
	}

	doc, err := svc.Store.Load(ctx)
	if err != nil {
		return Submission{}, errors.Wrap(err, "loading document")
	}

	// the record must only exist once the file is in place
	placed, err := svc.Placer.Place(ctx, ns.File.Name, ns.File.Content)
	if err != nil {
		return Submission{}, errors.Wrap(err, "placing uploaded file")
	}

	studentID, err := svc.Identity.StudentID(ctx, ns.StudentName)
	if err != nil {
		return Submission{}, errors.Wrap(err, "identifying student")
	}
	id, err := newID(submissionIDPrefix, doc.hasSubmission)
	if err != nil {
		return Submission{}, err
	}

	sub := Submission{
		ID:             id,
		AssignmentID:   ns.AssignmentID,
		StudentID:      studentID,
		StudentName:    ns.StudentName,
		FilePath:       placed.Path,
		FileName:       ns.File.Name,
		DownloadURL:    placed.DownloadURL,
		SubmissionTime: timestamp(),
	}
	doc.Submissions = append(doc.Submissions, sub)
	if err = svc.Store.Save(ctx, doc); err != nil {
		return Submission{}, errors.Wrap(err, "saving document")
	}

	svc.Logger.Info(fmt.Sprintf("submission created: %s (assignment %s, file %s, %d bytes)", sub.ID, sub.AssignmentID, placed.StoredName, placed.Size))
	svc.sendReceipt(sub)
	return sub, nil
}

// DeleteAssignment removes the assignment and every submission referencing it.
// Uploaded files stay on disk.
func (svc *Service) DeleteAssignment(ctx context.Context, id string) error {
	doc, err := svc.Store.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "loading document")
	}

	idx := doc.assignmentIndex(id)
	if idx < 0 {
		return core.NewNotFoundError("assignment", id)
	}
	doc.Assignments = append(doc.Assignments[:idx], doc.Assignments[idx+1:]...)

	kept := make([]Submission, 0, len(doc.Submissions))
	for _, sub := range doc.Submissions {
		if sub.AssignmentID != id {
			kept = append(kept, sub)
		}
	}
	removed := len(doc.Submissions) - len(kept)
	doc.Submissions = kept

	if err = svc.Store.Save(ctx, doc); err != nil {
		return errors.Wrap(err, "saving document")
	}

	svc.Logger.Info(fmt.Sprintf("assignment deleted: %s (%d submissions removed)", id, removed))
	return nil
}

func (svc *Service) sendReceipt(sub Submission) {
	if svc.MailSvc == nil || svc.NotifyEmail == "" {
		return
	}
	svc.MailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: svc.NotifyEmail}},
		Subject: "New submission from " + sub.StudentName,
		Body: fmt.Sprintf(
			"Student: %s (%s)\nAssignment: %s\nFile: %s\nDownload: %s\nSubmitted at: %s\n",
			sub.StudentName, sub.StudentID, sub.AssignmentID, sub.FileName, sub.DownloadURL, sub.SubmissionTime,
		),
	})
}

func timestamp() string {
	return NowFunc().UTC().Format(TimestampLayout)
}

// sortByDueDateDesc orders assignments by dueDate, latest first.
// Equal dates keep their insertion order; unparsable dates go last.
func sortByDueDateDesc(asgs []Assignment) {
	type entry struct {
		asg Assignment
		due time.Time
		ok  bool
	}
	entries := make([]entry, len(asgs))
	for i, asg := range asgs {
		due, ok := parseDueDate(asg.DueDate)
		entries[i] = entry{asg: asg, due: due, ok: ok}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ok != entries[j].ok {
			return entries[i].ok
		}
		return entries[i].ok && entries[i].due.After(entries[j].due)
	})
	for i, e := range entries {
		asgs[i] = e.asg
	}
}
