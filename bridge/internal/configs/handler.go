package configs

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	"github.com/wafir-dev/wafir-bridge/bridge/internal/api"
	"github.com/wafir-dev/wafir-bridge/internal/wafir"
)

const (
	configNotFoundError   = "Config Not Found"
	configNotFoundMessage = "No .github/wafir.yaml found in repo"
	fetchFailedMessage    = "Failed to fetch config"

	maxConfigSize = 1 << 20
)

// Handler exposes a Service over HTTP.
type Handler struct {
	// Service is a transport-agnostic config retrieval service.
	Service Service
	// Log receives details of failures that are not exposed to callers.
	Log logger.FieldLogger
}

// GetConfig handles GET /config?installationId=&owner=&repo=. The repository's
// config is returned as is; it is not checked against the config schema.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	installationID, err := api.RequiredInt64(query, "installationId")
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	owner, err := api.RequiredString(query, "owner")
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	repo, err := api.RequiredString(query, "repo")
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	log := h.Log.WithFields(logger.Fields{
		"installationId": installationID,
		"owner":          owner,
		"repo":           repo,
	})

	config, err := h.Service.GetConfig(r.Context(), installationID, owner, repo)
	if err != nil {
		notFoundErr := &wafir.NotFoundError{}
		if errors.As(err, &notFoundErr) {
			log.WithError(err).Warn("config not found")
			api.WriteJSON(
				w,
				http.StatusNotFound,
				api.ErrorBody{
					Error:   configNotFoundError,
					Message: configNotFoundMessage,
				},
			)
			return
		}
		log.WithError(err).Error("error fetching config")
		api.WriteError(w, http.StatusInternalServerError, fetchFailedMessage)
		return
	}

	api.WriteJSON(w, http.StatusOK, config)
}

// GetIssueTypes handles GET /issue-types?installationId=&owner=.
func (h *Handler) GetIssueTypes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	installationID, err := api.RequiredInt64(query, "installationId")
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	owner, err := api.RequiredString(query, "owner")
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	issueTypes, err :=
		h.Service.GetIssueTypes(r.Context(), installationID, owner)
	if err != nil {
		h.Log.WithError(err).WithFields(logger.Fields{
			"installationId": installationID,
			"owner":          owner,
		}).Error("error fetching issue types")
		api.WriteError(
			w,
			http.StatusInternalServerError,
			"Failed to fetch issue types",
		)
		return
	}
	api.WriteJSON(
		w,
		http.StatusOK,
		struct {
			IssueTypes interface{} `json:"issueTypes"`
		}{
			IssueTypes: issueTypes,
		},
	)
}

// GetSchema handles GET /config/schema.
func (h *Handler) GetSchema(w http.ResponseWriter, _ *http.Request) {
	api.WriteJSON(w, http.StatusOK, wafir.JSONSchema())
}

// ValidateConfig handles POST /config/validate. The body is a candidate
// .github/wafir.yaml document. An invalid document is not a failed request, so
// the problems found are returned with a 200.
func (h *Handler) ValidateConfig(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxConfigSize))
	if err != nil {
		maxBytesErr := &http.MaxBytesError{}
		if errors.As(err, &maxBytesErr) {
			api.WriteError(
				w,
				http.StatusRequestEntityTooLarge,
				"Config document is too large",
			)
			return
		}
		api.WriteError(w, http.StatusBadRequest, "Could not read request body")
		return
	}
	res := struct {
		Valid    bool     `json:"valid"`
		Problems []string `json:"problems"`
	}{
		Valid:    true,
		Problems: []string{},
	}
	if err = wafir.Validate(raw); err != nil {
		validationErr := &wafir.ValidationError{}
		if !errors.As(err, &validationErr) {
			h.Log.WithError(err).Error("error validating config")
			api.WriteError(
				w,
				http.StatusInternalServerError,
				"Failed to validate config",
			)
			return
		}
		res.Valid = false
		res.Problems = validationErr.Problems
	}
	api.WriteJSON(w, http.StatusOK, res)
}
