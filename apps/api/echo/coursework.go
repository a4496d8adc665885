package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classdrop/core/coursework"
)

const submissionFileField = "submissionFile"

type courseworkApi struct {
	svc *coursework.Service
}

func registerCourseworkAPI(g *echo.Group, svc *coursework.Service) {
	api := courseworkApi{svc: svc}

	ag := g.Group("/assignments")
	ag.GET("", api.queryAssignments)
	ag.POST("", api.createAssignment)
	ag.DELETE("/:id", api.destroyAssignment)

	sg := g.Group("/submissions")
	sg.GET("", api.querySubmissions)
	sg.POST("", api.createSubmission)
}

// Handlers

func (api *courseworkApi) queryAssignments(ctx echo.Context) error {
	asgs, err := api.svc.ListAssignments(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, asgs)
}

func (api *courseworkApi) querySubmissions(ctx echo.Context) error {
	subs, err := api.svc.ListSubmissions(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *courseworkApi) createAssignment(ctx echo.Context) error {
	var data coursework.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}

	asg, err := api.svc.CreateAssignment(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *courseworkApi) createSubmission(ctx echo.Context) error {
	data := coursework.NewSubmission{
		AssignmentID: ctx.FormValue("assignmentId"),
		StudentName:  ctx.FormValue("studentName"),
	}

	// a missing file is reported by the service's validation
	fh, err := ctx.FormFile(submissionFileField)
	switch err {
	case nil:
		f, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening submission file")
		}
		defer func() { _ = f.Close() }()
		data.File = &coursework.UploadedFile{Name: fh.Filename, Content: f}
	case http.ErrMissingFile, http.ErrNotMultipart:
	default:
		return errors.Wrap(err, "reading submission file")
	}

	sub, err := api.svc.CreateSubmission(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating submission")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *courseworkApi) destroyAssignment(ctx echo.Context) error {
	if err := api.svc.DeleteAssignment(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}
