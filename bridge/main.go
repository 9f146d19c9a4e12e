package main

import (
	"net/http"
	"os"

	libHTTP "github.com/brigadecore/brigade-foundations/http"
	"github.com/brigadecore/brigade-foundations/signals"
	"github.com/brigadecore/brigade-foundations/version"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"
	"github.com/wafir-dev/wafir-bridge/bridge/internal/api"
	"github.com/wafir-dev/wafir-bridge/bridge/internal/configs"
	"github.com/wafir-dev/wafir-bridge/bridge/internal/credentials"
	"github.com/wafir-dev/wafir-bridge/bridge/internal/submissions"
	ghlib "github.com/wafir-dev/wafir-bridge/internal/github"
	"github.com/wafir-dev/wafir-bridge/internal/tokens"
)

func main() {
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})

	// A .env file is a convenience for local development only.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Fatal(err)
	}

	level, err := logLevel()
	if err != nil {
		logger.Fatal(err)
	}
	logger.SetLevel(level)

	logger.WithFields(logger.Fields{
		"version": version.Version(),
		"commit":  version.Commit(),
	}).Info("Starting Wafir Bridge")

	log := logger.StandardLogger()

	githubApp, err := githubAppConfig()
	if err != nil {
		log.WithError(err).Warn(
			"GitHub App authentication is disabled; only installations with " +
				"a stored token can be served",
		)
		githubApp = ghlib.App{}
	}

	tokenStore := tokens.NewStore()
	resolver := ghlib.NewResolver(githubApp, tokenStore)

	var server libHTTP.Server
	{
		loggingFilter := api.NewLoggingFilter(log)
		configsHandler := &configs.Handler{
			Service: configs.NewService(resolver, log),
			Log:     log,
		}
		submissionsHandler := &submissions.Handler{
			Service: submissions.NewService(resolver, log),
			Log:     log,
		}
		credentialsHandler := &credentials.Handler{
			Store: tokenStore,
			Log:   log,
		}
		adminSecret := tokenAdminSecret()
		if adminSecret == "" {
			log.Warn(
				"TOKEN_ADMIN_SECRET is not set; storing and deleting installation " +
					"tokens is disabled",
			)
		}
		adminAuthFilter := credentials.NewAdminAuthFilter(
			credentials.AdminAuthFilterConfig{
				Secret: adminSecret,
			},
		)

		router := mux.NewRouter()
		router.StrictSlash(true)
		route := func(path string, handle http.HandlerFunc, method string) {
			router.HandleFunc(path, loggingFilter.Decorate(handle)).Methods(method)
		}
		route("/config", configsHandler.GetConfig, http.MethodGet)
		route("/config/schema", configsHandler.GetSchema, http.MethodGet)
		route("/config/validate", configsHandler.ValidateConfig, http.MethodPost)
		route("/issue-types", configsHandler.GetIssueTypes, http.MethodGet)
		route("/submit", submissionsHandler.Submit, http.MethodPost)
		route("/preview", submissionsHandler.Preview, http.MethodPost)
		const tokenPath = "/installations/{installationId}/token"
		route(
			tokenPath,
			adminAuthFilter.Decorate(credentialsHandler.PutToken),
			http.MethodPut,
		)
		route(tokenPath, credentialsHandler.GetToken, http.MethodGet)
		route(
			tokenPath,
			adminAuthFilter.Decorate(credentialsHandler.DeleteToken),
			http.MethodDelete,
		)
		router.HandleFunc("/healthz", libHTTP.Healthz).Methods(http.MethodGet)

		cors := handlers.CORS(
			handlers.AllowedOrigins(corsAllowedOrigins()),
			handlers.AllowedMethods([]string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodDelete,
				http.MethodOptions,
			}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		)

		serverConfig, err := serverConfig()
		if err != nil {
			log.Fatal(err)
		}
		server = libHTTP.NewServer(cors(router), &serverConfig)
	}

	log.Println(
		server.ListenAndServe(signals.Context()),
	)
}
