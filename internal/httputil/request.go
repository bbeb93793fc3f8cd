package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// MaxBodyBytes bounds request bodies. Message batches carry whole file
// contents, so the limit is generous.
const MaxBodyBytes = 32 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// Unknown fields are ignored: the agent runtime adds part fields freely.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
