package wafir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	config := Config{
		Issue: Issue{Labels: []string{}},
	}
	config.ApplyDefaults()
	require.Equal(t, StorageTypeIssue, config.Storage.Type)
	require.Equal(t, "Feedback", config.Feedback.Title)
	require.Equal(t, []string{"feedback"}, config.Feedback.Labels)
	// An explicitly empty list is not replaced
	require.Empty(t, config.Issue.Labels)
	require.NotNil(t, config.Issue.Labels)
}

func TestJSONSchema(t *testing.T) {
	schemaJSON, err := json.Marshal(JSONSchema())
	require.NoError(t, err)
	schema := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(schemaJSON, &schema))
	require.Equal(t, false, schema["additionalProperties"])
	properties := schema["properties"].(map[string]interface{}) // nolint: forcetypeassert
	for _, section := range []string{"feedback", "issue"} {
		sectionSchema := properties[section].(map[string]interface{}) // nolint: forcetypeassert
		require.Equal(t, false, sectionSchema["additionalProperties"])
	}
	fields := properties["fields"].(map[string]interface{}) // nolint: forcetypeassert
	items := fields["items"].(map[string]interface{})        // nolint: forcetypeassert
	_, closed := items["additionalProperties"]
	require.False(t, closed)
	require.Equal(
		t,
		[]interface{}{"name", "label", "type"},
		items["required"],
	)
}
