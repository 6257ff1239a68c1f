package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxRequestBodyBytes caps lead payloads.
const MaxRequestBodyBytes = 64 << 10

// ErrBodyTooLarge is returned when a request body exceeds MaxRequestBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")

// DecodeJSONRequest decodes JSON from HTTP request body into the provided interface.
// Usage: var data MyType; if err := DecodeJSONRequest(w, r, &data); err != nil { ... }
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, v interface{}) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes))
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return ErrBodyTooLarge
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return fmt.Errorf("malformed JSON body: %w", err)
		}
	}
	return nil
}
