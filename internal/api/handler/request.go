package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"hackathon_hub/internal/common"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. On failure it writes a 400
// and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		msg := "Invalid request payload"
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			msg = "Request body is required"
		case errors.As(err, &maxErr):
			msg = "Request body too large"
		}
		common.RespondWithError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}
