package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/wonny/dcalab/internal/contracts"
)

// UploadField is the multipart form field carrying the CSV
const UploadField = "file"

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error  string `json:"error"`
	Row    int    `json:"row,omitempty"`
	Column string `json:"column,omitempty"`
}

// statusFor maps the domain error taxonomy to HTTP status codes
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, contracts.ErrParse),
		errors.Is(err, contracts.ErrInsufficientData),
		errors.Is(err, contracts.ErrInvalidBudget),
		errors.Is(err, contracts.ErrInvalidPrice),
		errors.Is(err, contracts.ErrUnsortedSeries),
		errors.Is(err, errNoUpload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError writes err with the status of its kind.
// Internal errors are not echoed to the client.
func respondDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		respondError(w, status, "Internal server error")
		return
	}

	body := ErrorResponse{Error: err.Error()}
	var pe *contracts.ParseError
	if errors.As(err, &pe) {
		body.Row = pe.Row
		body.Column = pe.Column
	}
	respondJSON(w, status, body)
}

var errNoUpload = errors.New("request has no CSV upload")

// readUpload returns the CSV from a multipart "file" field or the raw body.
// The body is capped at maxBytes; exceeding it yields *http.MaxBytesError.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile(UploadField)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return nil, errNoUpload
			}
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errNoUpload
	}
	return data, nil
}
