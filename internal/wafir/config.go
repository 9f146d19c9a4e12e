package wafir

// StorageType determines where submissions are recorded.
type StorageType string

const (
	// StorageTypeIssue records submissions as repository issues.
	StorageTypeIssue StorageType = "issue"
	// StorageTypeProject records submissions as draft items on a GitHub
	// Project.
	StorageTypeProject StorageType = "project"
	// StorageTypeBoth records submissions as repository issues and adds those
	// issues to a GitHub Project.
	StorageTypeBoth StorageType = "both"
)

// FieldType is the kind of form control rendered for a custom field.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
)

var (
	storageTypes = []StorageType{
		StorageTypeIssue,
		StorageTypeProject,
		StorageTypeBoth,
	}
	fieldTypes = []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeCheckbox,
	}
)

// Config is the typed form of a repository's .github/wafir.yaml.
type Config struct {
	Storage  Storage  `yaml:"storage" json:"storage"`
	Feedback Feedback `yaml:"feedback" json:"feedback"`
	Issue    Issue    `yaml:"issue" json:"issue"`
	Fields   []Field  `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Storage says where submissions go. Owner and Repo, when set, redirect
// submissions to a repository other than the one the config was read from.
type Storage struct {
	Type      StorageType `yaml:"type" json:"type"`
	Owner     string      `yaml:"owner,omitempty" json:"owner,omitempty"`
	Repo      string      `yaml:"repo,omitempty" json:"repo,omitempty"`
	ProjectID int         `yaml:"projectId,omitempty" json:"projectId,omitempty"`
}

// Feedback configures the general feedback form.
type Feedback struct {
	Title  string   `yaml:"title" json:"title"`
	Labels []string `yaml:"labels" json:"labels"`
}

// Issue configures the bug report form and what diagnostics it captures.
type Issue struct {
	Screenshot  bool     `yaml:"screenshot" json:"screenshot"`
	BrowserInfo bool     `yaml:"browserInfo" json:"browserInfo"`
	ConsoleLog  bool     `yaml:"consoleLog" json:"consoleLog"`
	Labels      []string `yaml:"labels" json:"labels"`
}

// Field is a custom form field.
type Field struct {
	Name     string    `yaml:"name" json:"name"`
	Label    string    `yaml:"label" json:"label"`
	Type     FieldType `yaml:"type" json:"type"`
	Required bool      `yaml:"required,omitempty" json:"required,omitempty"`
	Options  []string  `yaml:"options,omitempty" json:"options,omitempty"`
}

// Defaults returns the configuration used for anything a repository's config
// file leaves unspecified.
func Defaults() Config {
	return Config{
		Storage: Storage{
			Type: StorageTypeIssue,
		},
		Feedback: Feedback{
			Title:  "Feedback",
			Labels: []string{"feedback"},
		},
		Issue: Issue{
			Labels: []string{"bug"},
		},
	}
}

// ApplyDefaults fills unset values with those from Defaults. Label lists that
// were explicitly set to an empty list are left empty.
func (c *Config) ApplyDefaults() {
	defaults := Defaults()
	if c.Storage.Type == "" {
		c.Storage.Type = defaults.Storage.Type
	}
	if c.Feedback.Title == "" {
		c.Feedback.Title = defaults.Feedback.Title
	}
	if c.Feedback.Labels == nil {
		c.Feedback.Labels = defaults.Feedback.Labels
	}
	if c.Issue.Labels == nil {
		c.Issue.Labels = defaults.Issue.Labels
	}
}
