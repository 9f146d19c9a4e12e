package credentials

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	logger "github.com/sirupsen/logrus"
	"github.com/wafir-dev/wafir-bridge/bridge/internal/api"
	"github.com/wafir-dev/wafir-bridge/internal/tokens"
)

// maxTokenRequestSize bounds the body of a PUT. Tokens are short.
const maxTokenRequestSize = 16 << 10

// Handler lets widget owners who have not installed the GitHub App register a
// personal access token for use in place of an installation token.
type Handler struct {
	// Store holds registered tokens.
	Store tokens.Store
	// Log receives an entry for every change to the store. Token values are
	// never logged.
	Log logger.FieldLogger
}

type putTokenRequest struct {
	Token string `json:"token"`
}

// PutToken handles PUT /installations/{installationId}/token.
func (h *Handler) PutToken(w http.ResponseWriter, r *http.Request) {
	installationID, ok := installationIDFromPath(w, r)
	if !ok {
		return
	}
	req := putTokenRequest{}
	if err := json.NewDecoder(
		http.MaxBytesReader(w, r.Body, maxTokenRequestSize),
	).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "body must be a JSON object")
		return
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		api.WriteError(w, http.StatusBadRequest, "body/token is required")
		return
	}
	h.Store.Set(installationID, token)
	h.Log.WithField("installationId", installationID).Info("token registered")
	w.WriteHeader(http.StatusNoContent)
}

// GetToken handles GET /installations/{installationId}/token. It reports only
// whether a token is registered; the token itself is never returned.
func (h *Handler) GetToken(w http.ResponseWriter, r *http.Request) {
	installationID, ok := installationIDFromPath(w, r)
	if !ok {
		return
	}
	api.WriteJSON(
		w,
		http.StatusOK,
		struct {
			Exists bool `json:"exists"`
		}{
			Exists: h.Store.Has(installationID),
		},
	)
}

// DeleteToken handles DELETE /installations/{installationId}/token.
func (h *Handler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	installationID, ok := installationIDFromPath(w, r)
	if !ok {
		return
	}
	deleted := h.Store.Delete(installationID)
	if deleted {
		h.Log.WithField("installationId", installationID).Info("token removed")
	}
	api.WriteJSON(
		w,
		http.StatusOK,
		struct {
			Deleted bool `json:"deleted"`
		}{
			Deleted: deleted,
		},
	)
}

func installationIDFromPath(
	w http.ResponseWriter,
	r *http.Request,
) (int64, bool) {
	installationID, err := api.ParseInt64(
		"params",
		"installationId",
		mux.Vars(r)["installationId"],
	)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return installationID, true
}
