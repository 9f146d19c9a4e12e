// Package api holds the pieces shared by the bridge's HTTP handlers: JSON
// responses, error bodies, and query parameter parsing.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	logger "github.com/sirupsen/logrus"
)

// ErrorBody is the body of every non-2xx response.
type ErrorBody struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// WriteJSON writes body as JSON with the specified status code.
func WriteJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		logger.WithError(err).Error("error marshaling response body")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Internal Server Error"}`)) // nolint: errcheck
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(bodyJSON) // nolint: errcheck
}

// WriteError writes an ErrorBody with the specified status code. The error
// field is set to the standard text for the status code.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(
		w,
		statusCode,
		ErrorBody{
			Error:   http.StatusText(statusCode),
			Message: message,
		},
	)
}

// ParamError describes a missing or malformed request parameter.
type ParamError struct {
	Location string
	Name     string
	Reason   string
}

func (p *ParamError) Error() string {
	return fmt.Sprintf("%s/%s %s", p.Location, p.Name, p.Reason)
}

// RequiredString returns the named query string value, or a *ParamError if it
// is absent or empty.
func RequiredString(values url.Values, name string) (string, error) {
	val := values.Get(name)
	if val == "" {
		return "", &ParamError{
			Location: "querystring",
			Name:     name,
			Reason:   "is required",
		}
	}
	return val, nil
}

// RequiredInt64 returns the named query string value parsed as an integer, or a
// *ParamError if it is absent or not an integer.
func RequiredInt64(values url.Values, name string) (int64, error) {
	val, err := RequiredString(values, name)
	if err != nil {
		return 0, err
	}
	return ParseInt64("querystring", name, val)
}

// ParseInt64 parses an integer parameter found at the specified location.
func ParseInt64(location, name, val string) (int64, error) {
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, &ParamError{
			Location: location,
			Name:     name,
			Reason:   "must be an integer",
		}
	}
	return i, nil
}
