package testtools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

var (
	ErrFileNameEmpty = errors.New("file name is empty")
)

const (
	jsonExt = "json"
	slash   = "/"
)

func ConvertJSONFileIntoStruct(path, name string, v interface{}) error {
	if len(name) == 0 {
		return ErrFileNameEmpty
	}

	// makes sure the file name has a json file extension
	if !strings.HasSuffix(name, jsonExt) {
		name += jsonExt
	}

	if len(path) > 0 {
		// makes sure the path has "/" suffix if there is a path
		if !strings.HasSuffix(path, slash) {
			path += slash
		}

		// makes sure the path has not "/" as prefix
		path = strings.TrimPrefix(path, slash)
	}

	fname := path + name

	f, err := os.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open file %s error %s", fname, err)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("could not read file %s error %s", fname, err)
	}

	err = json.Unmarshal(buf, v)
	if err != nil {
		return fmt.Errorf("could not unmarshal file contents into struct. file %s error %s", fname, err)
	}

	return nil
}

func GenerateCtxWithJSONAndParams(t *testing.T, data map[string]interface{}, params []gin.Param) *gin.Context {
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Params = params
	ctx.Request = httptest.NewRequest("POST", "http://localhost:8080", nil)

	jsonbytes, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}

	ctx.Request.Body = io.NopCloser(bytes.NewReader(jsonbytes))
	ctx.Request.Header.Set("Content-Type", "application/json")

	return ctx
}

// MultipartFile describes a single file part for GenerateCtxWithMultipart.
type MultipartFile struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

func GenerateCtxWithMultipart(t *testing.T, files []MultipartFile, fields map[string]string) *gin.Context {
	var body bytes.Buffer

	writer := multipart.NewWriter(&body)

	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		header.Set("Content-Type", f.ContentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatal(err)
		}

		if _, err := part.Write(f.Data); err != nil {
			t.Fatal(err)
		}
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest("POST", "http://localhost:8080", &body)
	ctx.Request.Header.Set("Content-Type", writer.FormDataContentType())

	return ctx
}

// GenerateCtxWithBody builds a test context carrying a raw request body and
// the given headers.
func GenerateCtxWithBody(t *testing.T, body []byte, headers map[string]string) *gin.Context {
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest("POST", "http://localhost:8080", bytes.NewReader(body))

	for key, value := range headers {
		ctx.Request.Header.Set(key, value)
	}

	return ctx
}
