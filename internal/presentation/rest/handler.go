package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fundchain/riskd/internal/application/dto"
	"github.com/fundchain/riskd/internal/application/usecase"
	"github.com/fundchain/riskd/internal/domain/model"
)

const maxBodyBytes = 10 << 20

// errBadRequest marks malformed input that never reached a use case.
var errBadRequest = errors.New("bad request")

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap renders handler errors as {"detail": ...} with the matching status.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		code, detail := r.classify(err)
		if code == http.StatusInternalServerError {
			r.deps.Logger.ErrorContext(req.Context(), "request failed",
				slog.String("path", req.URL.Path),
				slog.String("error", err.Error()),
			)
		}
		writeJSON(w, code, map[string]string{"detail": detail})
	}
}

func (r *Router) classify(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, model.ErrAssessmentNotFound):
		return http.StatusNotFound, "Assessment not found"
	case errors.Is(err, usecase.ErrRecordingDisabled):
		return http.StatusServiceUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, usecase.FailureMessage(err)
	}
}

// GET /
func (r *Router) handleStatus(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, r.deps.Describe.Status())
	return nil
}

// POST /analyze-project
func (r *Router) handleAnalyzeProject(w http.ResponseWriter, req *http.Request) error {
	var body dto.AnalyzeProjectRequest
	if err := decodeBody(w, req, &body); err != nil {
		return &model.ValidationError{Field: "body", Reason: err.Error()}
	}

	resp, err := r.deps.AnalyzeProject.Execute(req.Context(), body)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

// POST /analyze-batch
// Body: a JSON array of analyze-project requests. Elements that do not
// decode become per-item errors instead of failing the request.
func (r *Router) handleAnalyzeBatch(w http.ResponseWriter, req *http.Request) error {
	var raw []json.RawMessage
	if err := decodeBody(w, req, &raw); err != nil {
		return &model.ValidationError{Field: "body", Reason: err.Error()}
	}

	resp, err := r.deps.AnalyzeBatch.Execute(req.Context(), dto.DecodeBatch(raw))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

// GET /model-info
func (r *Router) handleModelInfo(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, r.deps.Describe.ModelInfo())
	return nil
}

// GET /assessments/{id}
func (r *Router) handleGetAssessment(w http.ResponseWriter, req *http.Request) error {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		return fmt.Errorf("%w: invalid assessment id", errBadRequest)
	}

	resp, err := r.deps.GetAssessment.Execute(req.Context(), dto.GetAssessmentRequest{AssessmentID: id})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

func decodeBody(w http.ResponseWriter, req *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
