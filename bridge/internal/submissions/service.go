package submissions

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/go-github/v33/github"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	ghlib "github.com/wafir-dev/wafir-bridge/internal/github"
	"github.com/wafir-dev/wafir-bridge/internal/wafir"
)

// screenshotDir is where screenshots are committed in the destination
// repository.
const screenshotDir = ".github/wafir/screenshots"

// Service is an interface for components that record widget submissions on
// GitHub. Implementations of this interface are transport-agnostic.
type Service interface {
	// Submit records a submission according to the storage settings of the
	// repository's Wafir config.
	Submit(ctx context.Context, sub Submission) (Result, error)
}

type service struct {
	resolver ghlib.Resolver
	log      logger.FieldLogger
	// newID is overridable for testing purposes
	newID func() string
}

// NewService returns an implementation of the Service interface for recording
// submissions.
func NewService(resolver ghlib.Resolver, log logger.FieldLogger) Service {
	return &service{
		resolver: resolver,
		log:      log,
		newID:    uuid.NewString,
	}
}

func (s *service) Submit(ctx context.Context, sub Submission) (Result, error) {
	log := s.log.WithFields(logger.Fields{
		"installationId": sub.InstallationID,
		"owner":          sub.Owner,
		"repo":           sub.Repo,
		"kind":           sub.Kind,
	})

	client, err := s.resolver.Resolve(ctx, sub.InstallationID)
	if err != nil {
		return Result{}, errors.Wrap(err, "error resolving GitHub client")
	}

	// A repository without a usable config still accepts submissions.
	config, err := wafir.LoadConfig(ctx, client, sub.Owner, sub.Repo)
	if err != nil {
		log.WithError(err).Warn("could not load config; using defaults")
		config = wafir.Defaults()
	}

	owner, repo := sub.Owner, sub.Repo
	if config.Storage.Owner != "" {
		owner = config.Storage.Owner
	}
	if config.Storage.Repo != "" {
		repo = config.Storage.Repo
	}

	var screenshotURL string
	if sub.Screenshot != nil {
		if screenshotURL, err = s.uploadScreenshot(
			ctx,
			client,
			owner,
			repo,
			*sub.Screenshot,
		); err != nil {
			return Result{}, err
		}
	}

	body := renderBody(sub, config, screenshotURL)

	switch config.Storage.Type {
	case wafir.StorageTypeProject:
		projectID, err := s.projectID(ctx, client, owner, config)
		if err != nil {
			return Result{}, err
		}
		itemID, err := client.AddProjectDraftIssue(ctx, projectID, sub.Title, body)
		if err != nil {
			return Result{}, err
		}
		return Result{ProjectItemID: itemID}, nil

	case wafir.StorageTypeBoth:
		issue, err := s.createIssue(ctx, client, owner, repo, sub, config, body)
		if err != nil {
			return Result{}, err
		}
		res := Result{
			IssueNumber: issue.GetNumber(),
			IssueURL:    issue.GetHTMLURL(),
		}
		// The issue exists at this point, so failing to add it to the project
		// does not fail the submission.
		projectID, err := s.projectID(ctx, client, owner, config)
		if err == nil {
			res.ProjectItemID, err =
				client.AddProjectItem(ctx, projectID, issue.GetNodeID())
		}
		if err != nil {
			log.WithError(err).WithField("issue", issue.GetNumber()).
				Error("issue was created but could not be added to the project")
		}
		return res, nil

	default:
		issue, err := s.createIssue(ctx, client, owner, repo, sub, config, body)
		if err != nil {
			return Result{}, err
		}
		return Result{
			IssueNumber: issue.GetNumber(),
			IssueURL:    issue.GetHTMLURL(),
		}, nil
	}
}

func (s *service) createIssue(
	ctx context.Context,
	client ghlib.IssuesClient,
	owner string,
	repo string,
	sub Submission,
	config wafir.Config,
	body string,
) (*github.Issue, error) {
	labels := sub.labels(config)
	issue, err := client.CreateIssue(
		ctx,
		owner,
		repo,
		&github.IssueRequest{
			Title:  github.String(sub.Title),
			Body:   github.String(body),
			Labels: &labels,
		},
	)
	return issue, errors.Wrapf(err, "error creating issue in %s/%s", owner, repo)
}

func (s *service) projectID(
	ctx context.Context,
	client ghlib.ProjectsClient,
	owner string,
	config wafir.Config,
) (string, error) {
	if config.Storage.ProjectID == 0 {
		return "", errors.Errorf(
			"storage type %q requires storage.projectId",
			config.Storage.Type,
		)
	}
	return client.FindProjectID(ctx, owner, config.Storage.ProjectID)
}

// uploadScreenshot commits a screenshot to the destination repository's default
// branch and returns a URL that renders it.
func (s *service) uploadScreenshot(
	ctx context.Context,
	client ghlib.IssuesClient,
	owner string,
	repo string,
	screenshot Screenshot,
) (string, error) {
	filePath := path.Join(
		screenshotDir,
		s.newID()+screenshotExtension(screenshot),
	)
	res, err := client.CreateFile(
		ctx,
		owner,
		repo,
		filePath,
		&github.RepositoryContentFileOptions{
			Message: github.String("Add Wafir screenshot"),
			Content: screenshot.Data,
		},
	)
	if err != nil {
		return "", errors.Wrapf(
			err,
			"error uploading screenshot to %s/%s",
			owner,
			repo,
		)
	}
	return fmt.Sprintf("%s?raw=true", res.GetContent().GetHTMLURL()), nil
}

func screenshotExtension(screenshot Screenshot) string {
	if ext := strings.ToLower(path.Ext(screenshot.Filename)); ext != "" {
		return ext
	}
	switch screenshot.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
