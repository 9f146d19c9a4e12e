package github

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v33/github"
	"github.com/pkg/errors"
	"github.com/shurcooL/githubv4"
	"github.com/wafir-dev/wafir-bridge/internal/tokens"
	"golang.org/x/oauth2"
)

// Resolver is an interface for components that produce GitHub API clients
// scoped to a single App installation.
type Resolver interface {
	// Resolve returns a client for the specified installation. A personal access
	// token previously registered for the installation takes precedence over
	// authenticating as the GitHub App.
	Resolve(ctx context.Context, installationID int64) (Client, error)
	// ResolveFromToken wraps a personal access token. The token is not
	// validated; an invalid token surfaces as an error on first use.
	ResolveFromToken(ctx context.Context, token string) Client
}

type resolver struct {
	app    App
	tokens tokens.Store
	// baseURL overrides the GitHub API endpoint. It is only ever set by tests.
	baseURL *url.URL
}

// NewResolver returns an implementation of the Resolver interface. The App may
// be unconfigured, in which case only installations with a stored token can be
// resolved.
func NewResolver(app App, tokenStore tokens.Store) Resolver {
	return &resolver{
		app:    app,
		tokens: tokenStore,
	}
}

func (r *resolver) Resolve(
	ctx context.Context,
	installationID int64,
) (Client, error) {
	if token, ok := r.tokens.Get(installationID); ok {
		return r.ResolveFromToken(ctx, token), nil
	}
	if !r.app.Configured() {
		return nil, &AuthenticationError{
			InstallationID: installationID,
			Reason:         "GitHub App credentials are not configured",
		}
	}
	installationToken, err := r.getInstallationToken(ctx, installationID)
	if err != nil {
		return nil, &AuthenticationError{
			InstallationID: installationID,
			Reason:         "failed to negotiate an installation token",
			Err:            err,
		}
	}
	return r.newClient(
		ctx,
		&oauth2.Token{
			TokenType:   "token", // This type indicates an installation token
			AccessToken: installationToken,
		},
	), nil
}

func (r *resolver) ResolveFromToken(ctx context.Context, token string) Client {
	return r.newClient(ctx, &oauth2.Token{AccessToken: token})
}

// newClient returns a Client whose REST and GraphQL halves share one
// authenticated *http.Client.
func (r *resolver) newClient(ctx context.Context, token *oauth2.Token) Client {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	return &client{
		gh: r.newGitHubClient(httpClient),
		v4: r.newGraphQLClient(httpClient),
	}
}

// getInstallationToken uses a JWT signed with the App's private key to
// authenticate to the GitHub Apps API and obtain an installation token for the
// given installationID.
//
// See the following for further details:
// https://docs.github.com/en/apps/creating-github-apps/authenticating-with-a-github-app
func (r *resolver) getInstallationToken(
	ctx context.Context,
	installationID int64,
) (string, error) {
	jwt, err := createJWT(r.app.AppID, r.app.APIKey, time.Now())
	if err != nil {
		return "", errors.Wrapf(
			err,
			"error getting signed JSON web token for installation %d",
			installationID,
		)
	}
	appsClient := r.newGitHubClient(
		oauth2.NewClient(
			ctx,
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: jwt}),
		),
	).Apps
	installationToken, _, err := appsClient.CreateInstallationToken(
		ctx,
		installationID,
		&github.InstallationTokenOptions{},
	)
	if err != nil {
		return "", errors.Wrapf(
			err,
			"error creating installation token for installation %d",
			installationID,
		)
	}
	return installationToken.GetToken(), nil
}

func (r *resolver) newGitHubClient(httpClient *http.Client) *github.Client {
	ghClient := github.NewClient(httpClient)
	if r.baseURL != nil {
		ghClient.BaseURL = r.baseURL
	}
	return ghClient
}

func (r *resolver) newGraphQLClient(httpClient *http.Client) *githubv4.Client {
	if r.baseURL != nil {
		return githubv4.NewEnterpriseClient(
			r.baseURL.ResolveReference(&url.URL{Path: "graphql"}).String(),
			httpClient,
		)
	}
	return githubv4.NewClient(httpClient)
}

// createJWT uses the provided appID and ASCII-armored x509 certificate key to
// create a JWT that can be used to authenticate to GitHub APIs as the specified
// App. The issued-at claim is backdated by a minute to tolerate clock drift
// between this host and GitHub.
func createJWT(appID int64, keyPEM []byte, now time.Time) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(keyPEM)
	if err != nil {
		return "", err
	}
	return jwt.NewWithClaims(
		jwt.SigningMethodRS256,
		jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
			Issuer:    strconv.FormatInt(appID, 10),
		},
	).SignedString(key)
}
