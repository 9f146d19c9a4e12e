package github

import (
	"fmt"
	"net/http"

	"github.com/google/go-github/v33/github"
	"github.com/pkg/errors"
)

// AuthenticationError is returned when no credentials are available for an
// installation or when GitHub refuses to exchange them for a token.
type AuthenticationError struct {
	InstallationID int64
	Reason         string
	Err            error
}

func (a *AuthenticationError) Error() string {
	msg := fmt.Sprintf(
		"authentication failed for installation %d: %s",
		a.InstallationID,
		a.Reason,
	)
	if a.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, a.Err)
	}
	return msg
}

func (a *AuthenticationError) Unwrap() error {
	return a.Err
}

// StatusCode extracts the HTTP status code from an error returned by the GitHub
// API. Zero is returned for errors that did not come with a response, such as
// network failures.
func StatusCode(err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	return 0
}

// IsNotFound returns true if the error is a 404 from the GitHub API.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
