package wafir

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-github/v33/github"
	logger "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	ghlib "github.com/wafir-dev/wafir-bridge/internal/github"
	"gopkg.in/yaml.v3"
)

func encodedFile(content string) *github.RepositoryContent {
	return &github.RepositoryContent{
		Type:     github.String("file"),
		Path:     github.String(ConfigPath),
		Encoding: github.String("base64"),
		Content: github.String(
			base64.StdEncoding.EncodeToString([]byte(content)),
		),
	}
}

func fileClient(
	file *github.RepositoryContent,
	dir []*github.RepositoryContent,
	err error,
) *ghlib.MockClient {
	return &ghlib.MockClient{
		GetFileContentFn: func(
			context.Context,
			string,
			string,
			string,
		) (*github.RepositoryContent, []*github.RepositoryContent, error) {
			return file, dir, err
		},
	}
}

func TestFetchConfig(t *testing.T) {
	testCases := []struct {
		name       string
		client     *ghlib.MockClient
		assertions func(interface{}, error)
	}{
		{
			name: "file not found",
			client: fileClient(
				nil,
				nil,
				&github.ErrorResponse{
					Response: &http.Response{StatusCode: http.StatusNotFound},
					Message:  "Not Found",
				},
			),
			assertions: func(_ interface{}, err error) {
				notFoundErr := &NotFoundError{}
				require.True(t, errors.As(err, &notFoundErr))
				require.Equal(t, ConfigPath, notFoundErr.Path)
			},
		},
		{
			name: "path is a directory",
			client: fileClient(
				nil,
				[]*github.RepositoryContent{{Name: github.String("a.yaml")}},
				nil,
			),
			assertions: func(_ interface{}, err error) {
				notFoundErr := &NotFoundError{}
				require.True(t, errors.As(err, &notFoundErr))
			},
		},
		{
			name:   "file has no content",
			client: fileClient(&github.RepositoryContent{}, nil, nil),
			assertions: func(_ interface{}, err error) {
				notFoundErr := &NotFoundError{}
				require.True(t, errors.As(err, &notFoundErr))
			},
		},
		{
			name:   "upstream failure",
			client: fileClient(nil, nil, errors.New("connection reset")),
			assertions: func(_ interface{}, err error) {
				upstreamErr := &UpstreamError{}
				require.True(t, errors.As(err, &upstreamErr))
				require.Contains(t, err.Error(), "connection reset")
			},
		},
		{
			name: "upstream 500",
			client: fileClient(
				nil,
				nil,
				&github.ErrorResponse{
					Response: &http.Response{
						StatusCode: http.StatusInternalServerError,
					},
				},
			),
			assertions: func(_ interface{}, err error) {
				upstreamErr := &UpstreamError{}
				require.True(t, errors.As(err, &upstreamErr))
			},
		},
		{
			name: "content is not base64",
			client: fileClient(
				&github.RepositoryContent{
					Encoding: github.String("base64"),
					Content:  github.String("!!!not base64!!!"),
				},
				nil,
				nil,
			),
			assertions: func(_ interface{}, err error) {
				parseErr := &ParseError{}
				require.True(t, errors.As(err, &parseErr))
			},
		},
		{
			name: "unsupported encoding",
			client: fileClient(
				&github.RepositoryContent{
					Encoding: github.String("none"),
					Content:  github.String(""),
				},
				nil,
				nil,
			),
			assertions: func(_ interface{}, err error) {
				parseErr := &ParseError{}
				require.True(t, errors.As(err, &parseErr))
				require.Contains(t, err.Error(), "unsupported content encoding")
			},
		},
		{
			name:   "content is not valid UTF-8",
			client: fileClient(encodedFile("\xff\xfe"), nil, nil),
			assertions: func(_ interface{}, err error) {
				parseErr := &ParseError{}
				require.True(t, errors.As(err, &parseErr))
				require.Contains(t, err.Error(), "UTF-8")
			},
		},
		{
			name:   "content is not valid YAML",
			client: fileClient(encodedFile("storage: [unclosed"), nil, nil),
			assertions: func(_ interface{}, err error) {
				parseErr := &ParseError{}
				require.True(t, errors.As(err, &parseErr))
			},
		},
		{
			name:   "infinite number",
			client: fileClient(encodedFile("limits:\n  max: .inf\n"), nil, nil),
			assertions: func(_ interface{}, err error) {
				parseErr := &ParseError{}
				require.True(t, errors.As(err, &parseErr))
				require.Contains(t, err.Error(), "at limits: at max")
			},
		},
		{
			name:   "NaN in a list",
			client: fileClient(encodedFile("values: [1, .nan]\n"), nil, nil),
			assertions: func(_ interface{}, err error) {
				parseErr := &ParseError{}
				require.True(t, errors.As(err, &parseErr))
				require.Contains(t, err.Error(), "at index 1")
			},
		},
		{
			name:   "empty file",
			client: fileClient(encodedFile(""), nil, nil),
			assertions: func(config interface{}, err error) {
				require.NoError(t, err)
				require.Equal(t, map[string]interface{}{}, config)
			},
		},
		{
			name:   "success",
			client: fileClient(encodedFile("storage:\n  type: issue\n"), nil, nil),
			assertions: func(config interface{}, err error) {
				require.NoError(t, err)
				require.Equal(
					t,
					map[string]interface{}{
						"storage": map[string]interface{}{"type": "issue"},
					},
					config,
				)
			},
		},
		{
			name: "success with line-wrapped base64",
			client: fileClient(
				&github.RepositoryContent{
					Encoding: github.String("base64"),
					// "storage:\n  type: both\n" split the way GitHub splits it
					Content: github.String("c3RvcmFnZToKICB0eXBl\nOiBib3RoCg==\n"),
				},
				nil,
				nil,
			),
			assertions: func(config interface{}, err error) {
				require.NoError(t, err)
				require.Equal(
					t,
					map[string]interface{}{
						"storage": map[string]interface{}{"type": "both"},
					},
					config,
				)
			},
		},
		{
			name:   "non-string keys are stringified",
			client: fileClient(encodedFile("1: one\ntrue: yes\n"), nil, nil),
			assertions: func(config interface{}, err error) {
				require.NoError(t, err)
				require.Equal(
					t,
					map[string]interface{}{"1": "one", "true": "yes"},
					config,
				)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			config, err := FetchConfig(
				context.Background(),
				testCase.client,
				"wafir-dev",
				"widget",
			)
			testCase.assertions(config, err)
		})
	}
}

func TestFetchConfigRequestsConfigPath(t *testing.T) {
	calls := 0
	client := &ghlib.MockClient{
		GetFileContentFn: func(
			_ context.Context,
			owner string,
			repo string,
			path string,
		) (*github.RepositoryContent, []*github.RepositoryContent, error) {
			calls++
			require.Equal(t, "wafir-dev", owner)
			require.Equal(t, "widget", repo)
			require.Equal(t, ".github/wafir.yaml", path)
			return encodedFile("{}"), nil, nil
		},
	}
	_, err := FetchConfig(context.Background(), client, "wafir-dev", "widget")
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestFetchConfigRoundTrip(t *testing.T) {
	testDocs := []map[string]interface{}{
		{},
		{"storage": map[string]interface{}{"type": "project", "projectId": 3}},
		{
			"feedback": map[string]interface{}{
				"title":  "Tell us",
				"labels": []interface{}{"feedback", "ux"},
			},
			"issue": map[string]interface{}{
				"screenshot":  true,
				"browserInfo": false,
				"consoleLog":  true,
				"labels":      []interface{}{"bug"},
			},
			"fields": []interface{}{
				map[string]interface{}{
					"name":     "severity",
					"label":    "Severity",
					"type":     "select",
					"required": true,
					"options":  []interface{}{"low", "high"},
				},
			},
		},
	}
	for _, doc := range testDocs {
		raw, err := yaml.Marshal(doc)
		require.NoError(t, err)
		config, err := FetchConfig(
			context.Background(),
			fileClient(encodedFile(string(raw)), nil, nil),
			"wafir-dev",
			"widget",
		)
		require.NoError(t, err)
		require.Equal(t, doc, config)
	}
}

func TestLoadConfig(t *testing.T) {
	testCases := []struct {
		name       string
		content    string
		assertions func(Config, error)
	}{
		{
			name:    "defaults",
			content: "",
			assertions: func(config Config, err error) {
				require.NoError(t, err)
				require.Equal(t, Defaults(), config)
			},
		},
		{
			name:    "unknown keys are ignored",
			content: "bogus: true\nfeedback:\n  title: Hi\n",
			assertions: func(config Config, err error) {
				require.NoError(t, err)
				require.Equal(t, "Hi", config.Feedback.Title)
				require.Equal(t, []string{"feedback"}, config.Feedback.Labels)
			},
		},
		{
			name:    "wrong types",
			content: "issue:\n  screenshot: [1, 2]\n",
			assertions: func(_ Config, err error) {
				parseErr := &ParseError{}
				require.True(t, errors.As(err, &parseErr))
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			config, err := LoadConfig(
				context.Background(),
				fileClient(encodedFile(testCase.content), nil, nil),
				"wafir-dev",
				"widget",
			)
			testCase.assertions(config, err)
		})
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	config := Config{
		Storage: Storage{
			Type:      StorageTypeBoth,
			Owner:     "wafir-dev",
			Repo:      "feedback",
			ProjectID: 7,
		},
		Feedback: Feedback{Title: "Feedback", Labels: []string{"ux"}},
		Issue: Issue{
			Screenshot: true,
			ConsoleLog: true,
			Labels:     []string{},
		},
		Fields: []Field{
			{Name: "email", Label: "Email", Type: FieldTypeText, Required: true},
			{
				Name:    "area",
				Label:   "Area",
				Type:    FieldTypeSelect,
				Options: []string{"ui", "api"},
			},
		},
	}
	raw, err := yaml.Marshal(config)
	require.NoError(t, err)
	loaded, err := LoadConfig(
		context.Background(),
		fileClient(encodedFile(string(raw)), nil, nil),
		"wafir-dev",
		"widget",
	)
	require.NoError(t, err)
	require.Equal(t, config, loaded)
}

func TestFetchIssueTypes(t *testing.T) {
	testCases := []struct {
		name       string
		client     *ghlib.MockClient
		assertions func([]ghlib.IssueType, *test.Hook)
	}{
		{
			name: "error getting user",
			client: &ghlib.MockClient{
				GetUserFn: func(context.Context, string) (*github.User, error) {
					return nil, errors.New("something went wrong")
				},
				ListOrgIssueTypesFn: func(
					context.Context,
					string,
				) ([]ghlib.IssueType, error) {
					require.Fail(t, "issue types should not have been listed")
					return nil, nil
				},
			},
			assertions: func(issueTypes []ghlib.IssueType, hook *test.Hook) {
				require.NotNil(t, issueTypes)
				require.Empty(t, issueTypes)
				require.NotNil(t, hook.LastEntry())
				require.Equal(t, logger.DebugLevel, hook.LastEntry().Level)
			},
		},
		{
			name: "owner is a user",
			client: &ghlib.MockClient{
				GetUserFn: func(context.Context, string) (*github.User, error) {
					return &github.User{Type: github.String("User")}, nil
				},
				ListOrgIssueTypesFn: func(
					context.Context,
					string,
				) ([]ghlib.IssueType, error) {
					require.Fail(t, "issue types should not have been listed")
					return nil, nil
				},
			},
			assertions: func(issueTypes []ghlib.IssueType, _ *test.Hook) {
				require.NotNil(t, issueTypes)
				require.Empty(t, issueTypes)
			},
		},
		{
			name: "error listing issue types",
			client: &ghlib.MockClient{
				GetUserFn: func(context.Context, string) (*github.User, error) {
					return &github.User{Type: github.String("Organization")}, nil
				},
				ListOrgIssueTypesFn: func(
					context.Context,
					string,
				) ([]ghlib.IssueType, error) {
					return nil, errors.New("issue types are not enabled")
				},
			},
			assertions: func(issueTypes []ghlib.IssueType, hook *test.Hook) {
				require.NotNil(t, issueTypes)
				require.Empty(t, issueTypes)
				require.Contains(
					t,
					hook.LastEntry().Data[logger.ErrorKey].(error).Error(), // nolint: forcetypeassert
					"issue types are not enabled",
				)
			},
		},
		{
			name: "success",
			client: &ghlib.MockClient{
				GetUserFn: func(context.Context, string) (*github.User, error) {
					return &github.User{Type: github.String("Organization")}, nil
				},
				ListOrgIssueTypesFn: func(
					_ context.Context,
					org string,
				) ([]ghlib.IssueType, error) {
					require.Equal(t, "wafir-dev", org)
					return []ghlib.IssueType{
						{ID: 1, Name: "Bug", Color: "red"},
						{ID: 2, Name: "Feature", Color: "blue"},
					}, nil
				},
			},
			assertions: func(issueTypes []ghlib.IssueType, _ *test.Hook) {
				require.Len(t, issueTypes, 2)
				require.Equal(t, "Feature", issueTypes[1].Name)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			log, hook := test.NewNullLogger()
			log.SetLevel(logger.DebugLevel)
			issueTypes := FetchIssueTypes(
				context.Background(),
				testCase.client,
				"wafir-dev",
				log,
			)
			testCase.assertions(issueTypes, hook)
		})
	}
}
