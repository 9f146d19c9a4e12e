package github

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shurcooL/githubv4"
)

// ProjectsClient is the subset of the GitHub GraphQL API needed to record
// submissions in a Projects (v2) board.
type ProjectsClient interface {
	// FindProjectID returns the node ID of the project with the given number
	// owned by login, which may name an organization or a user.
	FindProjectID(ctx context.Context, login string, number int) (string, error)
	// AddProjectItem adds an existing issue, identified by its node ID, to a
	// project and returns the new project item's ID.
	AddProjectItem(
		ctx context.Context,
		projectID string,
		contentID string,
	) (string, error)
	// AddProjectDraftIssue creates a draft issue in a project and returns the
	// new project item's ID.
	AddProjectDraftIssue(
		ctx context.Context,
		projectID string,
		title string,
		body string,
	) (string, error)
}

type projectV2 struct {
	ID string
}

// Projects can belong to organizations or users, and the GraphQL API has no
// single lookup covering both, so the organization is tried first.
func (c *client) FindProjectID(
	ctx context.Context,
	login string,
	number int,
) (string, error) {
	vars := map[string]interface{}{
		"login":  githubv4.String(login),
		"number": githubv4.Int(number),
	}
	var orgQuery struct {
		Organization struct {
			ProjectV2 projectV2 `graphql:"projectV2(number: $number)"`
		} `graphql:"organization(login: $login)"`
	}
	orgErr := c.v4.Query(ctx, &orgQuery, vars)
	if orgErr == nil && orgQuery.Organization.ProjectV2.ID != "" {
		return orgQuery.Organization.ProjectV2.ID, nil
	}
	var userQuery struct {
		User struct {
			ProjectV2 projectV2 `graphql:"projectV2(number: $number)"`
		} `graphql:"user(login: $login)"`
	}
	if err := c.v4.Query(ctx, &userQuery, vars); err != nil {
		if orgErr != nil {
			err = errors.Wrapf(err, "organization lookup also failed (%s)", orgErr)
		}
		return "", errors.Wrapf(err, "error finding project %d of %s", number, login)
	}
	if id := userQuery.User.ProjectV2.ID; id != "" {
		return id, nil
	}
	return "", errors.Errorf("project %d of %s not found", number, login)
}

func (c *client) AddProjectItem(
	ctx context.Context,
	projectID string,
	contentID string,
) (string, error) {
	var mutation struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string
			}
		} `graphql:"addProjectV2ItemById(input: $input)"`
	}
	err := c.v4.Mutate(
		ctx,
		&mutation,
		githubv4.AddProjectV2ItemByIdInput{
			ProjectID: githubv4.ID(projectID),
			ContentID: githubv4.ID(contentID),
		},
		nil,
	)
	if err != nil {
		return "", errors.Wrapf(
			err,
			"error adding %s to project %s",
			contentID,
			projectID,
		)
	}
	return mutation.AddProjectV2ItemByID.Item.ID, nil
}

func (c *client) AddProjectDraftIssue(
	ctx context.Context,
	projectID string,
	title string,
	body string,
) (string, error) {
	var mutation struct {
		AddProjectV2DraftIssue struct {
			ProjectItem struct {
				ID string
			}
		} `graphql:"addProjectV2DraftIssue(input: $input)"`
	}
	err := c.v4.Mutate(
		ctx,
		&mutation,
		githubv4.AddProjectV2DraftIssueInput{
			ProjectID: githubv4.ID(projectID),
			Title:     githubv4.String(title),
			Body:      githubv4.NewString(githubv4.String(body)),
		},
		nil,
	)
	if err != nil {
		return "", errors.Wrapf(
			err,
			"error adding draft issue to project %s",
			projectID,
		)
	}
	return mutation.AddProjectV2DraftIssue.ProjectItem.ID, nil
}
