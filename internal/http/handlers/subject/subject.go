// Package subject contains the HTTP handlers for the Subject resource.
//
// Every exported function is a factory: it receives its dependencies once
// at startup and returns the http.HandlerFunc the router calls on every
// request.
//
//	router.HandleFunc("GET /api/subjects/{id}", subject.Get(store, query.ByID))
//
// Status codes:
//
//	200 — read succeeded
//	201 — create or update succeeded
//	400 — bad id, bad body, failed validation, or the database refused the statement
//	404 — the query matched no rows
package subject

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"

	"github.com/harsha/subjects-api/internal/storage"
	"github.com/harsha/subjects-api/internal/storage/query"
	"github.com/harsha/subjects-api/internal/types"
	"github.com/harsha/subjects-api/internal/utils/response"
)

// The decoder caches struct metadata and the validator caches parsed
// tags; both are safe for concurrent use, so one of each is shared.
var (
	formDecoder = form.NewDecoder()
	validate    = validator.New()
)

// Get handles every subject read. variant decides which path parameter
// is required and how it filters:
//
//	GET /api/subjects                → query.All (no id)
//	GET /api/subjects/{id}           → query.ByID
//	GET /api/subjects/lecturer/{id}  → query.ByLecturer
//	GET /api/subjects/users/{id}     → query.ByEnrolledUser
//	GET /api/users/{id}/subjects     → query.ByEnrolledUser
//
// Success response (200 OK) is always an array:
//
//	[ { "SubjectID": 1, "SubjectName": "Maths", ... } ]
func Get(store storage.Storage, variant query.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sel := query.Selector{Variant: variant}

		if variant != query.All {
			id, err := pathID(r)
			if err != nil {
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
				return
			}
			sel.ID = id
		}

		slog.Info("getting subjects",
			slog.String("variant", variant.String()),
			slog.Int64("id", sel.ID))

		subjects, err := store.GetSubjects(r.Context(), sel)
		if err != nil {
			writeStorageError(w, "error getting subjects", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, subjects)
	}
}

// Create handles POST /api/subjects.
//
// Request body, JSON or URL-encoded:
//
//	{ "SubjectName": "Maths", "SubjectImageURL": "https://...", "SubjectLecturerID": 1 }
//
// Success response (201 Created) is the stored subject, with its new
// SubjectID and the lecturer's name filled in.
func Create(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a subject")

		in, ok := decodeInput(w, r)
		if !ok {
			return
		}

		created, err := store.CreateSubject(r.Context(), in)
		if err != nil {
			writeStorageError(w, "error creating subject", err)
			return
		}

		slog.Info("subject created", slog.Int64("id", created.SubjectID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// Update handles PUT /api/subjects/{id}.
// The body has the same shape as for Create and replaces all writable
// fields; omitted nullable fields become null.
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("updating a subject", slog.Int64("id", id))

		in, ok := decodeInput(w, r)
		if !ok {
			return
		}

		updated, err := store.UpdateSubject(r.Context(), id, in)
		if err != nil {
			writeStorageError(w, "error updating subject", err)
			return
		}

		slog.Info("subject updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusCreated, updated)
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid id: must be an integer")
	}
	return id, nil
}

// decodeInput reads a SubjectInput from a JSON or URL-encoded body and
// validates it. On failure it has already written the 400 response.
func decodeInput(w http.ResponseWriter, r *http.Request) (types.SubjectInput, bool) {
	var in types.SubjectInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return in, false
		}
		if err := formDecoder.Decode(&in, r.PostForm); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return in, false
		}
	default:
		err := json.NewDecoder(r.Body).Decode(&in)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return in, false
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return in, false
		}
	}

	if err := validate.Struct(in); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(validateErrs))
			return in, false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return in, false
	}

	return in, true
}

// writeStorageError maps a storage error onto the response: no rows is
// 404, anything else the database reported is 400 with the driver's own
// message. The full wrapped error only goes to the log.
func writeStorageError(w http.ResponseWriter, logMsg string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
		return
	}

	slog.Error(logMsg, slog.String("error", err.Error()))

	msg := err.Error()
	var qe *storage.QueryError
	if errors.As(err, &qe) {
		msg = qe.Err.Error()
	}
	response.WriteJSON(w, http.StatusBadRequest,
		response.Message("Failed to execute query: "+msg))
}
