package education

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/storage"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) UploadFile(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return nil
}

func (m *memStore) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "https://files.local/" + key, nil
}

func (m *memStore) DeleteFile(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func newRouter(store storage.ObjectStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	backend := repository.NewMemoryBackend()
	RegisterSchedules(r.Group("/api/schedule"), backend)
	RegisterDocuments(r.Group("/api/document"), backend, store)
	RegisterExams(r.Group("/api/education"), backend)
	RegisterHelpSupport(r.Group("/api/helpsupport"), backend)
	return r
}

func call(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestSchedules(t *testing.T) {
	r := newRouter(nil)
	body := `{"days":["Monday","Wednesday"],"subject":"Maths","startTime":"09:00 AM","endTime":"10:00 AM","faculty":"Mrs. Iyer"}`

	w := call(r, http.MethodPost, "/api/schedule/schedule", strings.Replace(body, `["Monday","Wednesday"]`, `[]`, 1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Days must be a non-empty array")
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/schedule/schedule", `{"subject":"Maths"}`).Code)

	w = call(r, http.MethodPost, "/api/schedule/schedule", body)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Message  string                 `json:"message"`
		Schedule map[string]interface{} `json:"schedule"`
	}
	decode(t, w, &created)
	assert.Equal(t, "Schedule created successfully", created.Message)
	id := created.Schedule["_id"].(string)

	w = call(r, http.MethodPut, "/api/schedule/schedule/"+id, `{"faculty":"Mr. Rao"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Schedule updated successfully")
	assert.Contains(t, w.Body.String(), "Maths")

	var list []map[string]interface{}
	decode(t, call(r, http.MethodGet, "/api/schedule/schedules", ""), &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Mr. Rao", list[0]["faculty"])

	assert.Contains(t, call(r, http.MethodDelete, "/api/schedule/schedule/"+id, "").Body.String(), "Schedule deleted successfully")
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/schedule/schedule/"+id, "").Code)
}

func createDocument(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := call(r, http.MethodPost, "/api/document/document", `{"studentId":"S1","documentType":"ID Card","fileUrl":"/files/s1.pdf","fileFormat":"pdf"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Document map[string]interface{} `json:"document"`
	}
	decode(t, w, &created)
	return created.Document["_id"].(string)
}

func uploadRequest(t *testing.T, path, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDocuments(t *testing.T) {
	r := newRouter(nil)
	w := call(r, http.MethodPost, "/api/document/document", `{"studentId":"S1","documentType":"Passport","fileUrl":"x","fileFormat":"pdf"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = call(r, http.MethodPost, "/api/document/document", `{"studentId":"S1","documentType":"Photo","fileUrl":"x","fileFormat":"gif"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := createDocument(t, r)
	w = call(r, http.MethodPut, "/api/document/document/"+id, `{"documentType":"Other Proof"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Other Proof")

	// no object storage configured
	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/document/document/"+id+"/file", "id.pdf", "%PDF"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, http.StatusServiceUnavailable, call(r, http.MethodGet, "/api/document/document/"+id+"/file", "").Code)

	assert.Contains(t, call(r, http.MethodDelete, "/api/document/document/"+id, "").Body.String(), "Document deleted successfully")
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodDelete, "/api/document/document/"+id, "").Code)
}

func TestDocumentFiles(t *testing.T) {
	store := newMemStore()
	r := newRouter(store)
	id := createDocument(t, r)

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/document/document/"+id+"/file", "").Code)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/document/document/"+id+"/file", "photo.gif", "GIF89a"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/document/document/"+id+"/file", "Photo.JPEG", "jpeg-bytes"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var up struct {
		Document map[string]interface{} `json:"document"`
	}
	decode(t, w, &up)
	key := up.Document["fileKey"].(string)
	assert.True(t, strings.HasPrefix(key, "documents/"+id+"/"))
	assert.Equal(t, "jpg", up.Document["fileFormat"])
	assert.Equal(t, []byte("jpeg-bytes"), store.objects[key])

	var link struct {
		URL string `json:"url"`
	}
	decode(t, call(r, http.MethodGet, "/api/document/document/"+id+"/file", ""), &link)
	assert.Equal(t, "https://files.local/"+key, link.URL)

	// a second upload replaces the first object
	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/document/document/"+id+"/file", "scan.pdf", "%PDF"))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, store.objects, key)
	assert.Len(t, store.objects, 1)

	require.Equal(t, http.StatusOK, call(r, http.MethodDelete, "/api/document/document/"+id, "").Code)
	assert.Empty(t, store.objects)
}

func TestExams(t *testing.T) {
	r := newRouter(nil)
	exam := `{"title":"Unit test 1","subject":"Physics","duration":60,"totalQuestions":1,"scheduledDate":"2025-07-10","scheduledTime":"14:30","passingMarks":10}`

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/education", `{"title":"x"}`).Code)
	w := call(r, http.MethodPost, "/api/education", exam)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Message string                 `json:"message"`
		Exam    map[string]interface{} `json:"exam"`
	}
	decode(t, w, &created)
	assert.Equal(t, "Exam created successfully", created.Message)
	assert.Equal(t, "scheduled", created.Exam["status"])
	id := created.Exam["_id"].(string)

	q := `{"questionText":"2+2?","options":["3","4"],"correctAnswer":"4","marks":2}`
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/education/"+id+"/questions", strings.Replace(q, `"marks":2`, `"marks":0`, 1)).Code)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/education/"+id+"/questions", q).Code)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/education/"+id+"/questions", strings.Replace(q, "2+2", "3+3", 1)).Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodPost, "/api/education/5f1d7f0e2c8b1a0012345678/questions", q).Code)

	var details map[string]interface{}
	decode(t, call(r, http.MethodGet, "/api/education/"+id, ""), &details)
	assert.Equal(t, 2.0, details["totalQuestions"])
	questions := details["questions"].([]interface{})
	require.Len(t, questions, 2)
	first := questions[0].(map[string]interface{})
	assert.Equal(t, "2+2?", first["questionText"])
	assert.NotContains(t, first, "correctAnswer")

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPatch, "/api/education/"+id+"/status", `{"status":"cancelled"}`).Code)
	w = call(r, http.MethodPatch, "/api/education/"+id+"/status", `{"status":"active"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"active"`)

	w = call(r, http.MethodPatch, "/api/education/"+id+"/results", `{"resultsVisible":false,"resultVisibilityTime":"2025-07-11T10:00"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2025-07-11T10:00")

	w = call(r, http.MethodPatch, "/api/education/"+id+"/results", `{"resultsVisible":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"resultVisibilityTime":null`)

	decode(t, call(r, http.MethodGet, "/api/education/"+id, ""), &details)
	first = details["questions"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "4", first["correctAnswer"])

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodPatch, "/api/education/5f1d7f0e2c8b1a0012345678/results", `{"resultsVisible":true}`).Code)

	var list []map[string]interface{}
	decode(t, call(r, http.MethodGet, "/api/education", ""), &list)
	assert.Len(t, list, 1)
	require.Equal(t, http.StatusOK, call(r, http.MethodDelete, "/api/education/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/education/"+id, "").Code)
}

func TestHelpSupport(t *testing.T) {
	r := newRouter(nil)
	ticket := `{"title":"Portal down","description":"Cannot log in","category":"Technical",
		"student":{"name":"Asha","email":"asha@uni.edu","id":"S42","course":"BSc"}}`

	w := call(r, http.MethodPost, "/api/helpsupport", strings.Replace(ticket, `"course":"BSc"`, `"course":""`, 1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Course is required")
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/helpsupport", strings.Replace(ticket, "Technical", "Sports", 1)).Code)

	w = call(r, http.MethodPost, "/api/helpsupport", ticket)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Ticket map[string]interface{} `json:"ticket"`
	}
	decode(t, w, &created)
	assert.Equal(t, "open", created.Ticket["status"])
	assert.Equal(t, "medium", created.Ticket["priority"])
	id := created.Ticket["_id"].(string)

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPatch, "/api/helpsupport/"+id+"/status", `{"status":"done"}`).Code)
	w = call(r, http.MethodPatch, "/api/helpsupport/"+id+"/status", `{"status":"in-progress","assignedTo":"IT desk"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "IT desk")

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/helpsupport/"+id+"/responses", `{"message":"hi"}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/helpsupport/"+id+"/responses", `{"message":"hi","sender":"bot","senderName":"x"}`).Code)
	w = call(r, http.MethodPost, "/api/helpsupport/"+id+"/responses", `{"message":"Looking into it","sender":"admin","senderName":"Ravi"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &created)
	responses := created.Ticket["responses"].([]interface{})
	require.Len(t, responses, 1)
	assert.Equal(t, "Ravi", responses[0].(map[string]interface{})["senderName"])

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodPost, "/api/helpsupport/5f1d7f0e2c8b1a0012345678/responses", `{"message":"hi","sender":"admin","senderName":"x"}`).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/helpsupport/"+id, "").Code)
	var list []map[string]interface{}
	decode(t, call(r, http.MethodGet, "/api/helpsupport", ""), &list)
	assert.Len(t, list, 1)
}
