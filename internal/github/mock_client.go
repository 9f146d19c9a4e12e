package github

import (
	"context"

	"github.com/google/go-github/v33/github"
)

type MockResolver struct {
	ResolveFn          func(ctx context.Context, installationID int64) (Client, error)
	ResolveFromTokenFn func(ctx context.Context, token string) Client
}

func (m *MockResolver) Resolve(
	ctx context.Context,
	installationID int64,
) (Client, error) {
	return m.ResolveFn(ctx, installationID)
}

func (m *MockResolver) ResolveFromToken(ctx context.Context, token string) Client {
	return m.ResolveFromTokenFn(ctx, token)
}

type MockClient struct {
	GetFileContentFn func(
		ctx context.Context,
		owner string,
		repo string,
		path string,
	) (*github.RepositoryContent, []*github.RepositoryContent, error)
	GetUserFn           func(ctx context.Context, login string) (*github.User, error)
	ListOrgIssueTypesFn func(ctx context.Context, org string) ([]IssueType, error)
	CreateIssueFn       func(
		ctx context.Context,
		owner string,
		repo string,
		req *github.IssueRequest,
	) (*github.Issue, error)
	CreateFileFn func(
		ctx context.Context,
		owner string,
		repo string,
		path string,
		opts *github.RepositoryContentFileOptions,
	) (*github.RepositoryContentResponse, error)
	FindProjectIDFn func(
		ctx context.Context,
		login string,
		number int,
	) (string, error)
	AddProjectItemFn func(
		ctx context.Context,
		projectID string,
		contentID string,
	) (string, error)
	AddProjectDraftIssueFn func(
		ctx context.Context,
		projectID string,
		title string,
		body string,
	) (string, error)
}

func (m *MockClient) GetFileContent(
	ctx context.Context,
	owner string,
	repo string,
	path string,
) (*github.RepositoryContent, []*github.RepositoryContent, error) {
	return m.GetFileContentFn(ctx, owner, repo, path)
}

func (m *MockClient) GetUser(
	ctx context.Context,
	login string,
) (*github.User, error) {
	return m.GetUserFn(ctx, login)
}

func (m *MockClient) ListOrgIssueTypes(
	ctx context.Context,
	org string,
) ([]IssueType, error) {
	return m.ListOrgIssueTypesFn(ctx, org)
}

func (m *MockClient) CreateIssue(
	ctx context.Context,
	owner string,
	repo string,
	req *github.IssueRequest,
) (*github.Issue, error) {
	return m.CreateIssueFn(ctx, owner, repo, req)
}

func (m *MockClient) CreateFile(
	ctx context.Context,
	owner string,
	repo string,
	path string,
	opts *github.RepositoryContentFileOptions,
) (*github.RepositoryContentResponse, error) {
	return m.CreateFileFn(ctx, owner, repo, path, opts)
}

func (m *MockClient) FindProjectID(
	ctx context.Context,
	login string,
	number int,
) (string, error) {
	return m.FindProjectIDFn(ctx, login, number)
}

func (m *MockClient) AddProjectItem(
	ctx context.Context,
	projectID string,
	contentID string,
) (string, error) {
	return m.AddProjectItemFn(ctx, projectID, contentID)
}

func (m *MockClient) AddProjectDraftIssue(
	ctx context.Context,
	projectID string,
	title string,
	body string,
) (string, error) {
	return m.AddProjectDraftIssueFn(ctx, projectID, title, body)
}
