// Package request decodes and validates JSON request bodies.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aanand-mishra/enrollment-api/internal/validation"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// Decode reads r.Body into dst and validates it. Both an unreadable body
// and a failed validation come back as *validation.Error, so handlers map
// them to 400 the same way.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		// io.EOF means the body was completely empty, nothing to decode.
		return &validation.Error{Details: []string{"request body is empty"}}
	}
	if err != nil {
		// Malformed JSON, wrong types (e.g. "age": 19.5), oversized body.
		return &validation.Error{Details: []string{err.Error()}}
	}
	return validation.Struct(dst)
}
