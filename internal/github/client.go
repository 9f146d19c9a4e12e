package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v33/github"
	"github.com/pkg/errors"
	"github.com/shurcooL/githubv4"
)

// IssueType is an organization-level issue type such as "Bug" or "Feature".
type IssueType struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ConfigClient is the subset of the GitHub API needed to read a repository's
// Wafir configuration and the issue types available to its owner.
type ConfigClient interface {
	// GetFileContent retrieves a path from a repository's default branch.
	// Exactly one of the returned file or directory listing is non-nil on
	// success.
	GetFileContent(
		ctx context.Context,
		owner string,
		repo string,
		path string,
	) (*github.RepositoryContent, []*github.RepositoryContent, error)
	// GetUser retrieves a user or organization account by login.
	GetUser(ctx context.Context, login string) (*github.User, error)
	// ListOrgIssueTypes lists the issue types configured for an organization.
	ListOrgIssueTypes(ctx context.Context, org string) ([]IssueType, error)
}

// IssuesClient is the subset of the GitHub API needed to file a submission.
type IssuesClient interface {
	CreateIssue(
		ctx context.Context,
		owner string,
		repo string,
		req *github.IssueRequest,
	) (*github.Issue, error)
	CreateFile(
		ctx context.Context,
		owner string,
		repo string,
		path string,
		opts *github.RepositoryContentFileOptions,
	) (*github.RepositoryContentResponse, error)
}

// Client is a GitHub API client authenticated either as an App installation or
// with a user's personal access token.
type Client interface {
	ConfigClient
	IssuesClient
	ProjectsClient
}

type client struct {
	gh *github.Client
	v4 *githubv4.Client
}

func (c *client) GetFileContent(
	ctx context.Context,
	owner string,
	repo string,
	path string,
) (*github.RepositoryContent, []*github.RepositoryContent, error) {
	file, dir, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	return file, dir, err
}

func (c *client) GetUser(
	ctx context.Context,
	login string,
) (*github.User, error) {
	user, _, err := c.gh.Users.Get(ctx, login)
	return user, err
}

func (c *client) ListOrgIssueTypes(
	ctx context.Context,
	org string,
) ([]IssueType, error) {
	// go-github has no typed support for this endpoint, so the request is built
	// by hand.
	req, err := c.gh.NewRequest(
		http.MethodGet,
		fmt.Sprintf("orgs/%s/issue-types", org),
		nil,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "error building issue types request for %s", org)
	}
	issueTypes := []IssueType{}
	if _, err = c.gh.Do(ctx, req, &issueTypes); err != nil {
		return nil, errors.Wrapf(err, "error listing issue types for %s", org)
	}
	return issueTypes, nil
}

func (c *client) CreateIssue(
	ctx context.Context,
	owner string,
	repo string,
	req *github.IssueRequest,
) (*github.Issue, error) {
	issue, _, err := c.gh.Issues.Create(ctx, owner, repo, req)
	return issue, err
}

func (c *client) CreateFile(
	ctx context.Context,
	owner string,
	repo string,
	path string,
	opts *github.RepositoryContentFileOptions,
) (*github.RepositoryContentResponse, error) {
	res, _, err := c.gh.Repositories.CreateFile(ctx, owner, repo, path, opts)
	return res, err
}
