package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/DIEGO-rav10/UBELEZA/internal/core"
)

// payload is a decoded JSON request body. Numbers are kept as
// json.Number so monetary values can be parsed exactly.
type payload map[string]any

var errEmptyBody = errors.New("empty request body")

// decodePayload decodes the request body. A missing or null body
// returns errEmptyBody; callers decide whether that is acceptable.
func decodePayload(r *http.Request) (payload, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyBody
		}
		return nil, err
	}
	if m == nil {
		return nil, errEmptyBody
	}
	return m, nil
}

// optionalPayload treats a missing body as an empty one; malformed
// JSON still errors.
func optionalPayload(r *http.Request) (payload, error) {
	p, err := decodePayload(r)
	if errors.Is(err, errEmptyBody) {
		return payload{}, nil
	}
	return p, err
}

// Has reports whether the key appeared in the body, null included.
func (p payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// IsNull reports whether the key was an explicit JSON null.
func (p payload) IsNull(key string) bool {
	v, ok := p[key]
	return ok && v == nil
}

// Cents parses a monetary field (JSON number or string) into cents.
func (p payload) Cents(key string) (int64, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, core.ErrInvalidAmount
	}
	return core.CentsFromJSON(v)
}

// Int parses an integer field (JSON number or numeric string).
func (p payload) Int(key string) (int64, error) {
	switch v := p[key].(type) {
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, core.ErrInvalidAmount
	}
}

// String returns the field as a string, empty when absent or not one.
func (p payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Time parses an RFC 3339 timestamp field; reports absence as ok=false.
func (p payload) Time(key string) (time.Time, bool) {
	s, ok := p[key].(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
