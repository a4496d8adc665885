package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/trezcool/classdrop/core"
	"github.com/trezcool/classdrop/core/coursework"
	emailsvc "github.com/trezcool/classdrop/services/email"
	"github.com/trezcool/classdrop/services/identity"
	logsvc "github.com/trezcool/classdrop/services/logger"
	"github.com/trezcool/classdrop/storage/document/jsonfile"
	"github.com/trezcool/classdrop/storage/upload/disk"
)

const UploadURLPrefix = "/uploads"

// Env is a throwaway document + upload dir wired into a coursework.Service.
type Env struct {
	Dir     string
	Store   *jsonfile.Store
	Placer  *disk.Placer
	MailSvc *emailsvc.ConsoleServiceMock
	Svc     *coursework.Service
}

func NewEnv(t *testing.T, notifyEmail ...string) *Env {
	t.Helper()

	dir := t.TempDir()
	logger := logsvc.NewDiscardLogger()
	store := jsonfile.NewStore(filepath.Join(dir, "db.json"), logger)
	placer, err := disk.NewPlacer(filepath.Join(dir, "uploads"), UploadURLPrefix)
	if err != nil {
		t.Fatalf("NewEnv() failed: %v", err)
	}
	mailSvc := emailsvc.NewConsoleServiceMock()

	deps := coursework.ServiceDeps{
		Store:    store,
		Placer:   placer,
		Identity: identity.NewAnonymousProvider(),
		Logger:   logger,
		MailSvc:  mailSvc,
	}
	deps.Validate, deps.Translator = core.NewValidator()
	if len(notifyEmail) > 0 {
		deps.NotifyEmail = notifyEmail[0]
	}

	return &Env{
		Dir:     dir,
		Store:   store,
		Placer:  placer,
		MailSvc: mailSvc,
		Svc:     coursework.NewService(deps),
	}
}

func CreateAssignment(t *testing.T, svc *coursework.Service, title, dueDate string) coursework.Assignment {
	t.Helper()

	asg, err := svc.CreateAssignment(context.Background(), coursework.NewAssignment{Title: title, DueDate: dueDate})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}

func CreateSubmission(t *testing.T, svc *coursework.Service, assignmentID, studentName, fileName, content string) coursework.Submission {
	t.Helper()

	sub, err := svc.CreateSubmission(context.Background(), coursework.NewSubmission{
		AssignmentID: assignmentID,
		StudentName:  studentName,
		File:         &coursework.UploadedFile{Name: fileName, Content: strings.NewReader(content)},
	})
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	return sub
}
