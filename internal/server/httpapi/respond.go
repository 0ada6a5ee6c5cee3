package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/validation"
	"github.com/go-chi/chi/v5"
)

const (
	msgNotFound         = "not found"
	msgUnauthorized     = "unauthorized"
	msgInternal         = "internal error"
	msgMethodNotAllowed = "method not allowed"
)

// maxBodyBytes caps request bodies; every payload here is a handful of
// short strings.
const maxBodyBytes = 1 << 20

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Errors map[string][]string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, dataEnvelope{Data: data})
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorEnvelope{Errors: map[string][]string{"message": {msg}}})
}

// writeError maps service errors onto status codes and the error envelope.
// Unknown errors are logged and reported without details.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := validation.As(err); ok {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Errors: verr.Map()})
		return
	}

	switch {
	case errors.Is(err, common.ErrorInvalidRequestBody):
		writeMessage(w, http.StatusBadRequest, common.ErrorInvalidRequestBody.Error())
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, common.ErrorInvalidCredentials.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, msgNotFound)
	default:
		s.logger.Error(r.Context(), err.Error(),
			"method", r.Method,
			"path", r.URL.Path,
		)
		writeMessage(w, http.StatusInternalServerError, msgInternal)
	}
}

// decodeBody reads a JSON object into dst. An empty body leaves dst as is,
// so missing fields surface as validation errors instead.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return common.ErrorInvalidRequestBody
	}
	if dec.More() {
		return common.ErrorInvalidRequestBody
	}
	return nil
}

// pathID parses a numeric route parameter. Anything else cannot name a
// stored record, so it is reported as not found.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, common.ErrorNotFound
	}
	return id, nil
}
