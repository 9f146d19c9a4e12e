package main

import (
	"github.com/brigadecore/brigade-foundations/http"
	libOS "github.com/brigadecore/brigade-foundations/os"
	logger "github.com/sirupsen/logrus"
	"github.com/wafir-dev/wafir-bridge/internal/github"
	"github.com/wafir-dev/wafir-bridge/internal/os"
)

// githubAppConfig populates the details of the GitHub App the bridge
// authenticates as from environment variables.
func githubAppConfig() (github.App, error) {
	app := github.App{}
	var err error
	if app.AppID, err = os.GetRequiredInt64FromEnvVar("GITHUB_APP_ID"); err != nil {
		return app, err
	}
	app.APIKey, err = os.GetRequiredPEMFromEnvVar("GITHUB_PRIVATE_KEY")
	return app, err
}

// serverConfig populates configuration for the HTTP/S server from environment
// variables.
func serverConfig() (http.ServerConfig, error) {
	config := http.ServerConfig{}
	var err error
	config.Port, err = libOS.GetIntFromEnvVar("BRIDGE_PORT", 3000)
	if err != nil {
		return config, err
	}
	config.TLSEnabled, err = libOS.GetBoolFromEnvVar("TLS_ENABLED", false)
	if err != nil {
		return config, err
	}
	if config.TLSEnabled {
		config.TLSCertPath, err = libOS.GetRequiredEnvVar("TLS_CERT_PATH")
		if err != nil {
			return config, err
		}
		config.TLSKeyPath, err = libOS.GetRequiredEnvVar("TLS_KEY_PATH")
		if err != nil {
			return config, err
		}
	}
	return config, nil
}

// corsAllowedOrigins returns the origins browsers may call the bridge from.
func corsAllowedOrigins() []string {
	return os.GetTrimmedStringSliceFromEnvVar("CORS_ALLOWED_ORIGINS", []string{"*"})
}

// logLevel returns the minimum level of log entries to emit.
func logLevel() (logger.Level, error) {
	return logger.ParseLevel(libOS.GetEnvVar("LOG_LEVEL", "info"))
}

// tokenAdminSecret returns the bearer token required to store or delete
// installation tokens. An empty value disables those routes.
func tokenAdminSecret() string {
	return libOS.GetEnvVar("TOKEN_ADMIN_SECRET", "")
}
