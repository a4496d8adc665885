package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/classdrop/apps/api/echo"
	"github.com/trezcool/classdrop/core"
	logsvc "github.com/trezcool/classdrop/services/logger"
	"github.com/trezcool/classdrop/tests"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func setup(t *testing.T) (*echoapi.Server, *testutil.Env) {
	t.Helper()

	env := testutil.NewEnv(t)
	conf := &core.Config{
		TestMode: true,
		AppName:  "Classdrop",
		Server:   core.ServerConfig{DisableReqLogs: true},
		Storage: core.StorageConfig{
			DocumentPath:    env.Store.Path(),
			UploadDir:       env.Placer.Dir(),
			UploadURLPrefix: testutil.UploadURLPrefix,
		},
	}
	srv := echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logsvc.NewDiscardLogger(),
		CourseworkSvc: env.Svc,
	})
	return srv, env
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

type formFile struct {
	name    string
	content string
}

// newMultipartRequest builds a submission upload; a nil file sends the fields only.
func newMultipartRequest(t *testing.T, path string, fields map[string]string, file *formFile) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField() failed: %v", err)
		}
	}
	if file != nil {
		fw, err := w.CreateFormFile("submissionFile", file.name)
		if err != nil {
			t.Fatalf("CreateFormFile() failed: %v", err)
		}
		if _, err = io.WriteString(fw, file.content); err != nil {
			t.Fatalf("writing form file failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart Close() failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, httptest.NewRecorder()
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	assert.Equal(t, tt.wantCode, rec.Code, "code")
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
