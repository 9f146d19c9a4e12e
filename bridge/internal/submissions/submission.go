package submissions

import (
	"fmt"

	"github.com/wafir-dev/wafir-bridge/internal/wafir"
)

// Kind is the form a submission came from.
type Kind string

const (
	KindFeedback   Kind = "feedback"
	KindIssue      Kind = "issue"
	KindSuggestion Kind = "suggestion"
)

// Submission is a single completed widget form.
type Submission struct {
	InstallationID int64
	Owner          string
	Repo           string
	Kind           Kind
	Title          string
	Body           string
	// Labels overrides the labels from the repository's config. Nil means no
	// override was supplied.
	Labels []string
	// Fields holds custom field values keyed by field name.
	Fields      map[string]interface{}
	BrowserInfo map[string]interface{}
	ConsoleLog  string
	Screenshot  *Screenshot
}

// Screenshot is an image attached to a submission.
type Screenshot struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Result identifies what a submission was recorded as.
type Result struct {
	IssueNumber   int    `json:"issueNumber,omitempty"`
	IssueURL      string `json:"issueUrl,omitempty"`
	ProjectItemID string `json:"projectItemId,omitempty"`
}

// labels returns the labels to apply to the submission.
func (s Submission) labels(config wafir.Config) []string {
	if s.Labels != nil {
		return s.Labels
	}
	if s.Kind == KindIssue {
		return config.Issue.Labels
	}
	return config.Feedback.Labels
}

func parseKind(val string) (Kind, error) {
	switch Kind(val) {
	case "":
		return KindFeedback, nil
	case KindFeedback, KindIssue, KindSuggestion:
		return Kind(val), nil
	}
	return "", fmt.Errorf(
		"body/type must be one of %s, %s, %s",
		KindFeedback,
		KindIssue,
		KindSuggestion,
	)
}
