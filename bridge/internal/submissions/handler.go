package submissions

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	"github.com/wafir-dev/wafir-bridge/bridge/internal/api"
	"github.com/wafir-dev/wafir-bridge/internal/markdown"
)

const (
	maxScreenshotSize = 10 << 20
	// maxSubmitSize leaves room for the other form values and multipart
	// framing around a screenshot of the maximum size.
	maxSubmitSize  = maxScreenshotSize + 1<<20
	maxPreviewSize = 1 << 20
	// maxFormMemory is how much of a multipart form is held in memory before
	// file parts spill to disk.
	maxFormMemory = 32 << 20

	submitFailedMessage  = "Failed to submit feedback"
	previewFailedMessage = "Failed to render preview"
	tooLargeMessage      = "Request body is too large"
)

// Handler exposes a Service over HTTP.
type Handler struct {
	// Service is a transport-agnostic submission service.
	Service Service
	// Log receives details of failures that are not exposed to callers.
	Log logger.FieldLogger
}

// Submit handles multipart POST /submit requests from the widget.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitSize)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		if isTooLarge(err) {
			writeMessage(w, http.StatusRequestEntityTooLarge, tooLargeMessage)
			return
		}
		writeMessage(
			w,
			http.StatusBadRequest,
			"body must be multipart/form-data",
		)
		return
	}
	defer r.MultipartForm.RemoveAll() // nolint: errcheck

	sub, err := parseSubmission(r)
	if err != nil {
		if isTooLarge(err) {
			writeMessage(w, http.StatusRequestEntityTooLarge, tooLargeMessage)
			return
		}
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.Service.Submit(r.Context(), sub)
	if err != nil {
		h.Log.WithError(err).WithFields(logger.Fields{
			"installationId": sub.InstallationID,
			"owner":          sub.Owner,
			"repo":           sub.Repo,
		}).Error("error submitting feedback")
		writeMessage(w, http.StatusInternalServerError, submitFailedMessage)
		return
	}

	api.WriteJSON(w, http.StatusOK, res)
}

// Preview handles POST /preview, rendering markdown the way GitHub would
// render the body of an issue.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPreviewSize)
	req := struct {
		Markdown *string `json:"markdown"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isTooLarge(err) {
			writeMessage(w, http.StatusRequestEntityTooLarge, tooLargeMessage)
			return
		}
		writeMessage(w, http.StatusBadRequest, "body must be a JSON object")
		return
	}
	if req.Markdown == nil {
		writeMessage(w, http.StatusBadRequest, "body/markdown is required")
		return
	}
	html, err := markdown.Render(*req.Markdown)
	if err != nil {
		h.Log.WithError(err).Error("error rendering markdown preview")
		writeMessage(w, http.StatusInternalServerError, previewFailedMessage)
		return
	}
	api.WriteJSON(
		w,
		http.StatusOK,
		struct {
			HTML string `json:"html"`
		}{
			HTML: html,
		},
	)
}

// parseSubmission builds a Submission from a parsed multipart form.
func parseSubmission(r *http.Request) (Submission, error) {
	form := r.MultipartForm.Value
	value := func(name string) string {
		if vals := form[name]; len(vals) > 0 {
			return vals[0]
		}
		return ""
	}
	required := func(name string) (string, error) {
		val := strings.TrimSpace(value(name))
		if val == "" {
			return "", &api.ParamError{
				Location: "body",
				Name:     name,
				Reason:   "is required",
			}
		}
		return val, nil
	}

	sub := Submission{}
	installationID, err := required("installationId")
	if err != nil {
		return sub, err
	}
	if sub.InstallationID, err =
		api.ParseInt64("body", "installationId", installationID); err != nil {
		return sub, err
	}
	if sub.Owner, err = required("owner"); err != nil {
		return sub, err
	}
	if sub.Repo, err = required("repo"); err != nil {
		return sub, err
	}
	if sub.Title, err = required("title"); err != nil {
		return sub, err
	}
	if sub.Kind, err = parseKind(value("type")); err != nil {
		return sub, err
	}
	sub.Body = value("body")
	sub.ConsoleLog = value("consoleLog")
	if err = unmarshalValue(value("labels"), "labels", &sub.Labels); err != nil {
		return sub, err
	}
	if err = unmarshalValue(value("fields"), "fields", &sub.Fields); err != nil {
		return sub, err
	}
	if err = unmarshalValue(
		value("browserInfo"),
		"browserInfo",
		&sub.BrowserInfo,
	); err != nil {
		return sub, err
	}

	file, header, err := r.FormFile("screenshot")
	if err == http.ErrMissingFile {
		return sub, nil
	}
	if err != nil {
		return sub, errors.Wrap(err, "error reading screenshot")
	}
	defer file.Close()
	if header.Size > maxScreenshotSize {
		return sub, &http.MaxBytesError{Limit: maxScreenshotSize}
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return sub, errors.Wrap(err, "error reading screenshot")
	}
	sub.Screenshot = &Screenshot{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	return sub, nil
}

// unmarshalValue decodes a JSON encoded form value. An empty value leaves out
// untouched.
func unmarshalValue(val string, name string, out interface{}) error {
	if val == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return &api.ParamError{
			Location: "body",
			Name:     name,
			Reason:   "must be valid JSON",
		}
	}
	return nil
}

func isTooLarge(err error) bool {
	maxBytesErr := &http.MaxBytesError{}
	return errors.As(err, &maxBytesErr)
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	api.WriteJSON(w, statusCode, api.ErrorBody{Message: message})
}
