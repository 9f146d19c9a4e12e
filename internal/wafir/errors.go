package wafir

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when a repository has no config file, or when the
// config path names a directory.
type NotFoundError struct {
	Owner string
	Repo  string
	Path  string
	Err   error
}

func (n *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s not found in %s/%s", n.Path, n.Owner, n.Repo)
	if n.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, n.Err)
	}
	return msg
}

func (n *NotFoundError) Unwrap() error {
	return n.Err
}

// ParseError is returned when a config file cannot be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (p *ParseError) Error() string {
	return fmt.Sprintf("error parsing %s: %s", p.Path, p.Err)
}

func (p *ParseError) Unwrap() error {
	return p.Err
}

// UpstreamError is returned when the GitHub API fails for any reason other than
// the config file not existing.
type UpstreamError struct {
	Err error
}

func (u *UpstreamError) Error() string {
	return fmt.Sprintf("error communicating with GitHub: %s", u.Err)
}

func (u *UpstreamError) Unwrap() error {
	return u.Err
}

// ValidationError lists every way in which a config document departs from the
// config schema.
type ValidationError struct {
	Problems []string
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s", strings.Join(v.Problems, "; "))
}
