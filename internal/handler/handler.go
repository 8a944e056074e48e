// Package handler holds the HTTP surface: request decoding, validation and
// translation of service results into the JSON response envelope.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	apperrors "github.com/creditosas/prestamo-engine/pkg/errors"
	"github.com/creditosas/prestamo-engine/pkg/response"
)

// serviceError maps a service-layer error onto the response envelope.
func serviceError(w http.ResponseWriter, err error) {
	var bizErr *apperrors.BusinessError
	if errors.As(err, &bizErr) {
		response.BusinessError(w, bizErr)
		return
	}
	response.InternalServerError(w, "something went wrong", err)
}

// decode unmarshals a JSON body, reporting a bad request on failure.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "invalid JSON payload", err)
		return false
	}
	return true
}

// pathID parses a UUID path variable, reporting a bad request on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}
