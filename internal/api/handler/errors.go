package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tabsplit/tabsplit/internal/api/apierr"
)

// WriteError writes an error response envelope
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// decodeJSON decodes a request body, translating failures into a
// malformed-request error
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierr.NewInvalidRequestError("Invalid JSON request body")
	}
	return nil
}
