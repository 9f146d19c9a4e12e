package configs

import (
	"context"

	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	ghlib "github.com/wafir-dev/wafir-bridge/internal/github"
	"github.com/wafir-dev/wafir-bridge/internal/wafir"
)

// Service is an interface for components that can retrieve Wafir configuration
// and related details from GitHub. Implementations of this interface are
// transport-agnostic.
type Service interface {
	// GetConfig returns the parsed contents of a repository's
	// .github/wafir.yaml.
	GetConfig(
		ctx context.Context,
		installationID int64,
		owner string,
		repo string,
	) (interface{}, error)
	// GetIssueTypes returns the issue types of the specified owner. Only a
	// failure to authenticate is reported as an error.
	GetIssueTypes(
		ctx context.Context,
		installationID int64,
		owner string,
	) ([]ghlib.IssueType, error)
}

type service struct {
	resolver ghlib.Resolver
	log      logger.FieldLogger
}

// NewService returns an implementation of the Service interface for retrieving
// Wafir configuration.
func NewService(resolver ghlib.Resolver, log logger.FieldLogger) Service {
	return &service{
		resolver: resolver,
		log:      log,
	}
}

func (s *service) GetConfig(
	ctx context.Context,
	installationID int64,
	owner string,
	repo string,
) (interface{}, error) {
	client, err := s.resolver.Resolve(ctx, installationID)
	if err != nil {
		return nil, errors.Wrap(err, "error resolving GitHub client")
	}
	return wafir.FetchConfig(ctx, client, owner, repo)
}

func (s *service) GetIssueTypes(
	ctx context.Context,
	installationID int64,
	owner string,
) ([]ghlib.IssueType, error) {
	client, err := s.resolver.Resolve(ctx, installationID)
	if err != nil {
		return nil, errors.Wrap(err, "error resolving GitHub client")
	}
	return wafir.FetchIssueTypes(
		ctx,
		client,
		owner,
		s.log.WithField("installationId", installationID),
	), nil
}
