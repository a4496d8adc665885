package tests

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classdrop/core/coursework"
	"github.com/trezcool/classdrop/tests"
)

func Test_courseworkApi_queryAssignments(t *testing.T) {
	srv, env := setup(t)

	req, rec := newRequest(http.MethodGet, "/api/assignments")
	srv.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)

	jan := testutil.CreateAssignment(t, env.Svc, "January", "2025-01-01")
	mar := testutil.CreateAssignment(t, env.Svc, "March", "2025-03-01")
	feb := testutil.CreateAssignment(t, env.Svc, "February", "2025-02-01")

	req, rec = newRequest(http.MethodGet, "/api/assignments/")
	srv.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, mar, feb, jan)}, rec)
}

func Test_courseworkApi_createAssignment(t *testing.T) {
	srv, env := setup(t)

	blank := marchallObj(t, map[string]string{
		"title":   "this field cannot be blank",
		"dueDate": "this field cannot be blank",
	})

	tests := []httpTest{
		{
			name:     "empty body",
			method:   http.MethodPost,
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: blank,
		},
		{
			name:     "blank fields",
			method:   http.MethodPost,
			body:     []byte(`{"title": "  ", "description": "d", "dueDate": " "}`),
			wantCode: http.StatusBadRequest,
			wantData: blank,
		},
		{
			name:     "missing dueDate",
			method:   http.MethodPost,
			body:     []byte(`{"title": "Essay"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"dueDate": "this field cannot be blank"}`),
		},
		{
			name:     "malformed json",
			method:   http.MethodPost,
			body:     []byte(`{"title": `),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, "/api/assignments", tt.body)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			asgs, err := env.Svc.ListAssignments(context.Background())
			require.NoError(t, err)
			assert.Empty(t, asgs)
		})
	}

	t.Run("valid", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/assignments", []byte(`{"title": " Essay ", "description": "500 words", "dueDate": "2025-05-01"}`))
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var asg coursework.Assignment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &asg))
		assert.True(t, strings.HasPrefix(asg.ID, "id-"))
		assert.Equal(t, "Essay", asg.Title)
		assert.Equal(t, "500 words", asg.Description)
		assert.Equal(t, "2025-05-01", asg.DueDate)
		assert.NotEmpty(t, asg.CreatedAt)

		asgs, err := env.Svc.ListAssignments(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []coursework.Assignment{asg}, asgs)
	})
}

func Test_courseworkApi_destroyAssignment(t *testing.T) {
	srv, env := setup(t)

	essay := testutil.CreateAssignment(t, env.Svc, "Essay", "2025-01-01")
	lab := testutil.CreateAssignment(t, env.Svc, "Lab", "2025-02-01")
	testutil.CreateSubmission(t, env.Svc, essay.ID, "Ada", "a.txt", "a")
	labSub := testutil.CreateSubmission(t, env.Svc, lab.ID, "Bob", "b.txt", "b")

	req, rec := newRequest(http.MethodDelete, "/api/assignments/"+essay.ID)
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	req, rec = newRequest(http.MethodGet, "/api/assignments")
	srv.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, lab)}, rec)

	req, rec = newRequest(http.MethodGet, "/api/submissions")
	srv.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, labSub)}, rec)

	// already gone
	req, rec = newRequest(http.MethodDelete, "/api/assignments/"+essay.ID)
	srv.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusNotFound,
		wantData: marchallObj(t, httpErr{Error: `assignment "` + essay.ID + `" not found`}),
	}, rec)
}

func Test_courseworkApi_createSubmission(t *testing.T) {
	srv, env := setup(t)
	asg := testutil.CreateAssignment(t, env.Svc, "Essay", "2025-01-01")

	tests := []struct {
		name     string
		fields   map[string]string
		file     *formFile
		wantData []byte
	}{
		{
			name:     "no file",
			fields:   map[string]string{"assignmentId": asg.ID, "studentName": "Ada"},
			wantData: []byte(`{"submissionFile": "this field is required"}`),
		},
		{
			name:     "blank studentName",
			fields:   map[string]string{"assignmentId": asg.ID, "studentName": " "},
			file:     &formFile{name: "essay.txt", content: "hello"},
			wantData: []byte(`{"studentName": "this field cannot be blank"}`),
		},
		{
			name:   "nothing",
			fields: map[string]string{},
			wantData: []byte(`{
				"assignmentId": "this field cannot be blank",
				"studentName": "this field cannot be blank",
				"submissionFile": "this field is required"
			}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newMultipartRequest(t, "/api/submissions", tt.fields, tt.file)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: tt.wantData}, rec)

			subs, err := env.Svc.ListSubmissions(context.Background())
			require.NoError(t, err)
			assert.Empty(t, subs)
			stored, err := env.Placer.ListStored()
			require.NoError(t, err)
			assert.Empty(t, stored)
		})
	}

	t.Run("not multipart", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/submissions", []byte(`{"assignmentId": "id-1", "studentName": "Ada"}`))
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("valid", func(t *testing.T) {
		req, rec := newMultipartRequest(t, "/api/submissions",
			map[string]string{"assignmentId": asg.ID, "studentName": "Ada"},
			&formFile{name: "essay.txt", content: "my essay"},
		)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var sub coursework.Submission
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		assert.True(t, strings.HasPrefix(sub.ID, "sub-"))
		assert.Equal(t, asg.ID, sub.AssignmentID)
		assert.Equal(t, "Ada", sub.StudentName)
		assert.True(t, strings.HasPrefix(sub.StudentID, "anonymous-user-"))
		assert.Equal(t, "essay.txt", sub.FileName)
		assert.True(t, strings.HasPrefix(sub.DownloadURL, testutil.UploadURLPrefix+"/"))
		assert.True(t, strings.HasSuffix(sub.DownloadURL, "-essay.txt"))

		data, err := os.ReadFile(sub.FilePath)
		require.NoError(t, err)
		assert.Equal(t, "my essay", string(data))

		// the stored file is served at its download URL
		req, rec = newRequest(http.MethodGet, sub.DownloadURL)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		served, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, "my essay", string(served))

		req, rec = newRequest(http.MethodGet, "/api/submissions")
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, sub)}, rec)
	})

	t.Run("file name needing escaping", func(t *testing.T) {
		req, rec := newMultipartRequest(t, "/api/submissions",
			map[string]string{"assignmentId": asg.ID, "studentName": "Cy"},
			&formFile{name: "100% done #1.txt", content: "x"},
		)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var sub coursework.Submission
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		assert.Equal(t, "100% done #1.txt", sub.FileName)
		assert.True(t, strings.HasSuffix(sub.DownloadURL, "-100%25%20done%20%231.txt"), sub.DownloadURL)

		req, rec = newRequest(http.MethodGet, sub.DownloadURL)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "x", rec.Body.String())
	})

	t.Run("same file name twice", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			req, rec := newMultipartRequest(t, "/api/submissions",
				map[string]string{"assignmentId": asg.ID, "studentName": "Bob"},
				&formFile{name: "essay.txt", content: "take " + string(rune('1'+i))},
			)
			srv.ServeHTTP(rec, req)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		}

		subs, err := env.Svc.ListSubmissions(context.Background())
		require.NoError(t, err)
		require.Len(t, subs, 4)
		assert.NotEqual(t, subs[2].FilePath, subs[3].FilePath)
	})
}
