package student_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/http/handlers/student"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// memoryStore is a map-backed storage.Storage.
type memoryStore struct {
	nextID   int64
	students map[int64]types.Student
	err      error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 1, students: map[int64]types.Student{}}
}

func (m *memoryStore) CreateStudent(name, nationalID string, age int) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	id := m.nextID
	m.nextID++
	m.students[id] = types.Student{ID: id, Name: name, NationalID: nationalID, Age: age}
	return id, nil
}

func (m *memoryStore) GetStudentByID(id int64) (types.Student, error) {
	if m.err != nil {
		return types.Student{}, m.err
	}
	s, ok := m.students[id]
	if !ok {
		return types.Student{}, storage.ErrNotFound
	}
	return s, nil
}

func (m *memoryStore) GetStudents() ([]types.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]types.Student, 0, len(m.students))
	for id := int64(1); id < m.nextID; id++ {
		if s, ok := m.students[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryStore) UpdateStudentByID(id int64, s types.Student) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.students[id]; !ok {
		return 0, nil
	}
	s.ID = id
	m.students[id] = s
	return 1, nil
}

func (m *memoryStore) DeleteStudentByID(id int64) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.students[id]; !ok {
		return 0, nil
	}
	delete(m.students, id)
	return 1, nil
}

func newRouter(store storage.Storage) *http.ServeMux {
	mux := http.NewServeMux()
	student.Routes(mux, store, zerolog.Nop())
	return mux
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(v))
}

func TestStudentLifecycle(t *testing.T) {
	router := newRouter(newMemoryStore())

	rec := do(t, router, http.MethodPost, "/api/students", `{"name":"Ana Silva","national_id":"11122233344","age":21}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]int64
	decode(t, rec, &created)
	require.Equal(t, int64(1), created["id"])

	rec = do(t, router, http.MethodGet, "/api/students/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got types.Student
	decode(t, rec, &got)
	require.Equal(t, types.Student{ID: 1, Name: "Ana Silva", NationalID: "11122233344", Age: 21}, got)

	rec = do(t, router, http.MethodPut, "/api/students/1", `{"name":"Ana Souza","national_id":"11122233344","age":22}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &got)
	require.Equal(t, 22, got.Age)
	require.Equal(t, "Ana Souza", got.Name)

	rec = do(t, router, http.MethodGet, "/api/students", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []types.Student
	decode(t, rec, &list)
	require.Len(t, list, 1)

	rec = do(t, router, http.MethodDelete, "/api/students/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/students/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEmptyIsArray(t *testing.T) {
	rec := do(t, newRouter(newMemoryStore()), http.MethodGet, "/api/students", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]\n", rec.Body.String())
}

func TestMissingRowsAreNotFound(t *testing.T) {
	router := newRouter(newMemoryStore())

	rec := do(t, router, http.MethodPut, "/api/students/42", `{"name":"x","national_id":"y","age":1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/students/42", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body response.Response
	decode(t, rec, &body)
	require.Equal(t, response.StatusError, body.Status)
	require.Equal(t, storage.ErrNotFound.Error(), body.Error)
}

func TestBadRequests(t *testing.T) {
	router := newRouter(newMemoryStore())

	rec := do(t, router, http.MethodGet, "/api/students/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/students", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body response.Response
	decode(t, rec, &body)
	require.Equal(t, "request body is empty", body.Error)

	rec = do(t, router, http.MethodPost, "/api/students", `{"name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStorageFailures(t *testing.T) {
	store := newMemoryStore()
	router := newRouter(store)

	store.err = &storage.ConnectionError{Op: "GetStudents", Err: errors.New("refused")}
	rec := do(t, router, http.MethodGet, "/api/students", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	store.err = &storage.StatementError{Op: "CreateStudent", Err: errors.New("duplicate"), Code: 1062}
	rec = do(t, router, http.MethodPost, "/api/students", `{"name":"Ana","national_id":"1","age":2}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
