package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fieldbooking/internal/domain"
)

// maxBodyBytes bounds request bodies; commands carry small JSON documents.
const maxBodyBytes = 1 << 20

// Validator is implemented by request bodies that check themselves after
// decoding. Validate should return a domain validation error.
type Validator interface {
	Validate() error
}

// DecodeJSON reads one JSON document from the request body into dest, rejecting
// unknown fields and trailing data, then runs dest's Validate if it has one.
// Every failure is a domain validation error, so callers hand it straight to
// WriteServiceError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return bodyError(err)
	}
	if dec.More() {
		return domain.NewValidationError("request body must hold a single JSON object")
	}
	if v, ok := dest.(Validator); ok {
		return v.Validate()
	}
	return nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return domain.NewValidationError("request body is required")
	case errors.As(err, &tooLarge):
		return domain.NewValidationError("request body must not exceed %d bytes", tooLarge.Limit)
	case errors.As(err, &syntax), errors.Is(err, io.ErrUnexpectedEOF):
		return domain.NewValidationError("request body is not valid JSON")
	case errors.As(err, &typ):
		return domain.NewValidationError("%s must be a %s", typ.Field, typ.Type)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return domain.NewValidationError("unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
	}
	return domain.NewValidationError("invalid request body: %s", err)
}

// Problems collects field-level messages into one validation error, or nil.
type Problems []string

func (p *Problems) Add(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p Problems) Err() error {
	if len(p) == 0 {
		return nil
	}
	return domain.NewValidationError("%s", strings.Join(p, "; "))
}
