package wafir

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	ghlib "github.com/wafir-dev/wafir-bridge/internal/github"
	"gopkg.in/yaml.v3"
)

// ConfigPath is where a repository keeps its Wafir config.
const ConfigPath = ".github/wafir.yaml"

// FetchConfig retrieves a repository's Wafir config and returns it as a
// generic YAML value, exactly as the repository defines it. The value is not
// checked against the config schema.
func FetchConfig(
	ctx context.Context,
	client ghlib.ConfigClient,
	owner string,
	repo string,
) (interface{}, error) {
	raw, err := fetchConfigBytes(ctx, client, owner, repo)
	if err != nil {
		return nil, err
	}
	var doc interface{}
	if err = yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Path: ConfigPath, Err: err}
	}
	if doc == nil {
		return map[string]interface{}{}, nil
	}
	if doc, err = normalize(doc); err != nil {
		return nil, &ParseError{Path: ConfigPath, Err: err}
	}
	return doc, nil
}

// LoadConfig retrieves a repository's Wafir config, decodes it into a Config
// and fills in defaults. Keys the schema does not know about are ignored.
func LoadConfig(
	ctx context.Context,
	client ghlib.ConfigClient,
	owner string,
	repo string,
) (Config, error) {
	config := Config{}
	raw, err := fetchConfigBytes(ctx, client, owner, repo)
	if err != nil {
		return config, err
	}
	if err = yaml.Unmarshal(raw, &config); err != nil {
		return config, &ParseError{Path: ConfigPath, Err: err}
	}
	config.ApplyDefaults()
	return config, nil
}

// fetchConfigBytes makes one request for the config file and base64 decodes
// its content. It does not retry.
func fetchConfigBytes(
	ctx context.Context,
	client ghlib.ConfigClient,
	owner string,
	repo string,
) ([]byte, error) {
	file, _, err := client.GetFileContent(ctx, owner, repo, ConfigPath)
	if err != nil {
		if ghlib.IsNotFound(err) {
			return nil, &NotFoundError{
				Owner: owner,
				Repo:  repo,
				Path:  ConfigPath,
				Err:   err,
			}
		}
		return nil, &UpstreamError{
			Err: errors.Wrapf(err, "error getting %s from %s/%s", ConfigPath, owner, repo),
		}
	}
	// A directory listing comes back without a file, and a file without
	// content is of no use either.
	if file == nil || file.Content == nil {
		return nil, &NotFoundError{Owner: owner, Repo: repo, Path: ConfigPath}
	}
	if encoding := file.GetEncoding(); encoding != "" && encoding != "base64" {
		return nil, &ParseError{
			Path: ConfigPath,
			Err:  errors.Errorf("unsupported content encoding %q", encoding),
		}
	}
	// GitHub wraps base64 content across lines.
	content := bytes.NewReader(
		bytes.ReplaceAll([]byte(*file.Content), []byte("\n"), nil),
	)
	raw, err := io.ReadAll(base64.NewDecoder(base64.StdEncoding, content))
	if err != nil {
		return nil, &ParseError{
			Path: ConfigPath,
			Err:  errors.Wrap(err, "error decoding base64 content"),
		}
	}
	if !utf8.Valid(raw) {
		return nil, &ParseError{
			Path: ConfigPath,
			Err:  errors.New("content is not valid UTF-8"),
		}
	}
	return raw, nil
}

// normalize converts any maps with non-string keys, which YAML permits but JSON
// does not, into maps with string keys. YAML's .inf and .nan have no JSON form
// either, so they are rejected.
func normalize(val interface{}) (interface{}, error) {
	var err error
	switch v := val.(type) {
	case map[string]interface{}:
		for key, item := range v {
			if v[key], err = normalize(item); err != nil {
				return nil, errors.Wrapf(err, "at %s", key)
			}
		}
		return v, nil
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for key, item := range v {
			if m[fmt.Sprint(key)], err = normalize(item); err != nil {
				return nil, errors.Wrapf(err, "at %v", key)
			}
		}
		return m, nil
	case []interface{}:
		for i, item := range v {
			if v[i], err = normalize(item); err != nil {
				return nil, errors.Wrapf(err, "at index %d", i)
			}
		}
		return v, nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, errors.Errorf("%v cannot be represented in JSON", v)
		}
		return v, nil
	default:
		return v, nil
	}
}

// FetchIssueTypes returns the issue types configured for the owner of a
// repository. Issue types exist only for organizations, so this returns an
// empty list for user accounts. Failures are logged and otherwise ignored;
// issue types are a nicety and never a reason to fail a request.
func FetchIssueTypes(
	ctx context.Context,
	client ghlib.ConfigClient,
	owner string,
	log logger.FieldLogger,
) []ghlib.IssueType {
	issueTypes := []ghlib.IssueType{}
	log = log.WithField("owner", owner)
	user, err := client.GetUser(ctx, owner)
	if err != nil {
		log.WithError(err).Debug("could not look up owner account; skipping issue types")
		return issueTypes
	}
	if user.GetType() != "Organization" {
		return issueTypes
	}
	types, err := client.ListOrgIssueTypes(ctx, owner)
	if err != nil {
		log.WithError(err).Debug("could not list organization issue types")
		return issueTypes
	}
	return append(issueTypes, types...)
}
