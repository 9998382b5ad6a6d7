// Package student contains all HTTP handlers related to the Student resource.
//
// Each exported function is a factory: it receives its dependencies once,
// at route registration, and returns the http.HandlerFunc that runs on
// every request.
//
//	router.HandleFunc("POST /students", student.New(store))
//
// Roster outcomes ("not found", "no match") are reported in the payload
// with status 200. Check is the one exception and answers 404.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/aanand-mishra/student-roster/internal/storage"
	"github.com/aanand-mishra/student-roster/internal/types"
	"github.com/aanand-mishra/student-roster/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

const (
	WelcomeMessage  = "Welcome to Student API"
	NoMatchMessage  = "No match found"
	NotFoundError   = "Student not found"
	CheckMissingErr = "Not found"
)

// validate is shared by all handlers; a validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON name ("name"), not the Go name ("Name").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeStudent reads and validates a StudentRequest body. On failure it
// writes the error response itself and returns false.
//
//	400 Bad Request          — empty body or malformed JSON
//	422 Unprocessable Entity — name missing or not a string
func decodeStudent(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req types.StudentRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return "", false
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		response.WriteJSON(w, http.StatusUnprocessableEntity, response.GeneralError(err))
		return "", false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return "", false
	}

	if err := validate.Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			response.WriteJSON(w, http.StatusUnprocessableEntity,
				response.ValidationError(validateErrs))
		} else {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		}
		return "", false
	}

	return *req.Name, true
}

// Welcome handles GET /
//
//	{ "message": "Welcome to Student API" }
func Welcome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.Message(WelcomeMessage))
	}
}

// GetList handles GET /students
// Returns the whole roster as an object keyed by id:
//
//	{ "1": "Alice", "2": "Bob" }
//
// An empty roster is {} (not null).
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := store.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// Search handles GET /search?name=...
// Exact, case-sensitive match on the name.
//
// Success response (200 OK), one of:
//
//	{ "1": "Alice" }
//	{ "message": "No match found" }
//
// A request without the name parameter is rejected with 422.
func Search(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if !query.Has("name") {
			response.WriteJSON(w, http.StatusUnprocessableEntity,
				response.GeneralError(errors.New("query parameter name is required")))
			return
		}
		name := query.Get("name")
		slog.Info("searching students", slog.String("name", name))

		matches, err := store.SearchStudents(name)
		if err != nil {
			slog.Error("error searching students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		if len(matches) == 0 {
			response.WriteJSON(w, http.StatusOK, response.Message(NoMatchMessage))
			return
		}
		response.WriteJSON(w, http.StatusOK, matches)
	}
}

// New handles POST /students
//
// Request body:
//
//	{ "name": "Alice" }
//
// Success response (200 OK):
//
//	{ "id": "1", "name": "Alice" }
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		name, ok := decodeStudent(w, r)
		if !ok {
			return
		}

		student, err := store.CreateStudent(name)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("student created", slog.String("id", student.ID))
		response.WriteJSON(w, http.StatusOK, student)
	}
}

// Update handles PUT /students/{id}
//
// Request body:
//
//	{ "name": "Alicia" }
//
// Response (200 OK in both cases):
//
//	{ "id": "1", "updated_name": "Alicia" }
//	{ "error": "Student not found" }
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		name, ok := decodeStudent(w, r)
		if !ok {
			return
		}

		updated, err := store.UpdateStudentByID(id, name)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusOK, response.Error(NotFoundError))
			return
		}
		if err != nil {
			slog.Error("error updating student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{
			"id":           updated.ID,
			"updated_name": updated.Name,
		})
	}
}

// Delete handles DELETE /students/{id}
//
// Response (200 OK in both cases):
//
//	{ "deleted_id": "1", "deleted_name": "Alice" }
//	{ "error": "Student not found" }
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		deleted, err := store.DeleteStudentByID(id)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusOK, response.Error(NotFoundError))
			return
		}
		if err != nil {
			slog.Error("error deleting student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{
			"deleted_id":   deleted.ID,
			"deleted_name": deleted.Name,
		})
	}
}

// Check handles GET /check/{id}
//
//	200 OK        { "id": "1", "name": "Alice" }
//	404 Not Found { "error": "Not found" }
func Check(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("checking a student", slog.String("id", id))

		student, err := store.GetStudentByID(id)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.Error(CheckMissingErr))
			return
		}
		if err != nil {
			slog.Error("error getting student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}
