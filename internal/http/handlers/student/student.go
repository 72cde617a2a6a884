// Package student contains the HTTP handlers for the Student resource.
//
// Every handler is built by a factory that receives its dependencies
// once at startup and returns the http.HandlerFunc the router calls per
// request:
//
//	router.HandleFunc("POST /api/students", student.New(store, log))
package student

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// Routes registers all five student endpoints on mux.
func Routes(mux *http.ServeMux, store storage.Storage, log zerolog.Logger) {
	mux.HandleFunc("POST /api/students", New(store, log))
	mux.HandleFunc("GET /api/students", GetList(store, log))
	mux.HandleFunc("GET /api/students/{id}", GetByID(store, log))
	mux.HandleFunc("PUT /api/students/{id}", Update(store, log))
	mux.HandleFunc("DELETE /api/students/{id}", Delete(store, log))
}

// New handles POST /api/students.
//
// Request body:
//
//	{ "name": "Ana Silva", "national_id": "11122233344", "age": 21 }
//
// Success response (201 Created):
//
//	{ "id": 1 }
func New(store storage.Storage, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Msg("creating a student")

		student, ok := decodeStudent(w, r)
		if !ok {
			return
		}

		lastID, err := store.CreateStudent(student.Name, student.NationalID, student.Age)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		log.Info().Int64("id", lastID).Msg("student created")
		response.WriteJSON(w, http.StatusCreated, map[string]int64{"id": lastID})
	}
}

// GetByID handles GET /api/students/{id}.
func GetByID(store storage.Storage, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		log.Info().Int64("id", id).Msg("getting a student")

		student, err := store.GetStudentByID(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /api/students.
// Returns an empty array [] (not null) when there are no students.
func GetList(store storage.Storage, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Msg("getting all students")

		students, err := store.GetStudents()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// Update handles PUT /api/students/{id} and replaces every field but the id.
// Responds with the stored record, or 404 when no row matched.
func Update(store storage.Storage, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		log.Info().Int64("id", id).Msg("updating a student")

		student, ok := decodeStudent(w, r)
		if !ok {
			return
		}

		n, err := store.UpdateStudentByID(id, student)
		if err != nil {
			response.StorageError(w, err)
			return
		}
		if n == 0 {
			response.StorageError(w, storage.ErrNotFound)
			return
		}

		updated, err := store.GetStudentByID(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		log.Info().Int64("id", id).Msg("student updated")
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/students/{id}.
func Delete(store storage.Storage, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		log.Info().Int64("id", id).Msg("deleting a student")

		n, err := store.DeleteStudentByID(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}
		if n == 0 {
			response.StorageError(w, storage.ErrNotFound)
			return
		}

		log.Info().Int64("id", id).Msg("student deleted")
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// pathID parses the {id} segment, answering 400 itself when it is not an
// integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// decodeStudent reads the JSON body. Field contents are passed through as
// they are; the database is the only judge of what it accepts.
func decodeStudent(w http.ResponseWriter, r *http.Request) (types.Student, bool) {
	var student types.Student

	err := json.NewDecoder(r.Body).Decode(&student)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return types.Student{}, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return types.Student{}, false
	}

	return student, true
}
