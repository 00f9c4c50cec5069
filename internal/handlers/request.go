package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/GregMSThompson/owms-dashboard/internal/errs"
)

// maxBodyBytes caps request bodies; a full layout is well under this.
const maxBodyBytes = 1 << 20

// decodeJSON decodes the request body into v, reporting malformed input as
// a ValidationError.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.NewValidationError("request body is required")
		}
		return errs.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}

// ifMatchVersion parses an If-Match header holding a layout version, with
// or without quotes. An absent header returns nil.
func ifMatchVersion(r *http.Request) (*int64, error) {
	raw := strings.TrimSpace(r.Header.Get("If-Match"))
	if raw == "" {
		return nil, nil
	}
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return nil, errs.NewValidationError("If-Match must be a layout version")
	}
	return &v, nil
}

func revalidate(r *http.Request) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get("revalidate"))
	return b
}
