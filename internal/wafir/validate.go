package wafir

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// strictConfig mirrors Config for validation. Decoding it with KnownFields
// enabled rejects unknown keys at the top level and in the feedback and issue
// sections. Every value decodes into an interface{} so that its YAML type is
// kept and checked; typed fields would let yaml.v3 coerce any scalar into a
// string. Storage and field entries are maps so that their keys stay open.
type strictConfig struct {
	Storage  map[string]interface{}   `yaml:"storage"`
	Feedback strictFeedback           `yaml:"feedback"`
	Issue    strictIssue              `yaml:"issue"`
	Fields   []map[string]interface{} `yaml:"fields"`
}

type strictFeedback struct {
	Title  interface{} `yaml:"title"`
	Labels interface{} `yaml:"labels"`
}

type strictIssue struct {
	Screenshot  interface{} `yaml:"screenshot"`
	BrowserInfo interface{} `yaml:"browserInfo"`
	ConsoleLog  interface{} `yaml:"consoleLog"`
	Labels      interface{} `yaml:"labels"`
}

// Validate checks a raw config document against the config schema and returns
// a *ValidationError describing every problem found, or nil. An empty document
// is valid.
func Validate(raw []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	config := strictConfig{}
	problems := []string{}
	if err := decoder.Decode(&config); err != nil {
		if err == io.EOF {
			return nil
		}
		typeErr, ok := err.(*yaml.TypeError)
		if !ok {
			return &ValidationError{Problems: []string{err.Error()}}
		}
		// The decoder keeps going after type errors, so config still holds
		// everything that could be decoded.
		problems = append(problems, typeErr.Errors...)
	}
	problems = append(problems, validateStorage(config.Storage)...)
	problems = appendIf(problems, checkString("feedback.title", config.Feedback.Title))
	problems = appendIf(
		problems,
		checkStringList("feedback.labels", config.Feedback.Labels),
	)
	problems = appendIf(problems, checkBool("issue.screenshot", config.Issue.Screenshot))
	problems = appendIf(
		problems,
		checkBool("issue.browserInfo", config.Issue.BrowserInfo),
	)
	problems = appendIf(problems, checkBool("issue.consoleLog", config.Issue.ConsoleLog))
	problems = appendIf(problems, checkStringList("issue.labels", config.Issue.Labels))
	for i, field := range config.Fields {
		problems = append(problems, validateField(i, field)...)
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateStorage(storage map[string]interface{}) []string {
	problems := []string{}
	if val, ok := storage["type"]; ok {
		str, isStr := val.(string)
		if !isStr || !isStorageType(StorageType(str)) {
			problems = append(
				problems,
				fmt.Sprintf(
					"storage.type must be one of %v; got %v",
					storageTypes,
					val,
				),
			)
		}
	}
	for _, key := range []string{"owner", "repo"} {
		if val, ok := storage[key]; ok {
			if _, isStr := val.(string); !isStr {
				problems = append(
					problems,
					fmt.Sprintf("storage.%s must be a string; got %v", key, val),
				)
			}
		}
	}
	if val, ok := storage["projectId"]; ok {
		switch val.(type) {
		case int, int64, uint64, float64:
		default:
			problems = append(
				problems,
				fmt.Sprintf("storage.projectId must be a number; got %v", val),
			)
		}
	}
	return problems
}

func validateField(i int, field map[string]interface{}) []string {
	problems := []string{}
	for _, key := range []string{"name", "label", "type"} {
		val, ok := field[key]
		if !ok {
			problems = append(problems, fmt.Sprintf("fields[%d].%s is required", i, key))
			continue
		}
		if str, isStr := val.(string); !isStr || str == "" {
			problems = append(
				problems,
				fmt.Sprintf("fields[%d].%s must be a non-empty string", i, key),
			)
		}
	}
	if val, ok := field["type"].(string); ok && val != "" &&
		!isFieldType(FieldType(val)) {
		problems = append(
			problems,
			fmt.Sprintf("fields[%d].type must be one of %v; got %s", i, fieldTypes, val),
		)
	}
	problems = appendIf(
		problems,
		checkBool(fmt.Sprintf("fields[%d].required", i), field["required"]),
	)
	problems = appendIf(
		problems,
		checkStringList(fmt.Sprintf("fields[%d].options", i), field["options"]),
	)
	return problems
}

// The check functions below treat nil, meaning absent or null, as valid and
// return an empty string when the value is acceptable.

func checkString(path string, val interface{}) string {
	if _, ok := val.(string); val != nil && !ok {
		return fmt.Sprintf("%s must be a string; got %v", path, val)
	}
	return ""
}

func checkBool(path string, val interface{}) string {
	if _, ok := val.(bool); val != nil && !ok {
		return fmt.Sprintf("%s must be a boolean; got %v", path, val)
	}
	return ""
}

func checkStringList(path string, val interface{}) string {
	if val == nil {
		return ""
	}
	list, ok := val.([]interface{})
	if !ok {
		return fmt.Sprintf("%s must be a list of strings", path)
	}
	for i, item := range list {
		if _, isStr := item.(string); !isStr {
			return fmt.Sprintf(
				"%s must be a list of strings; item %d is %v",
				path,
				i,
				item,
			)
		}
	}
	return ""
}

func appendIf(problems []string, problem string) []string {
	if problem == "" {
		return problems
	}
	return append(problems, problem)
}

func isStorageType(storageType StorageType) bool {
	for _, t := range storageTypes {
		if t == storageType {
			return true
		}
	}
	return false
}

func isFieldType(fieldType FieldType) bool {
	for _, t := range fieldTypes {
		if t == fieldType {
			return true
		}
	}
	return false
}
