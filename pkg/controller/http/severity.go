package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

type severityPredictRequest struct {
	Description    string `json:"description"`
	InjuryCategory string `json:"injury_category,omitempty"`
}

func (s *Server) handleSeverityPredict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req severityPredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(ctx, w, goerr.Wrap(model.ErrInvalidRequest, "invalid predict request body", goerr.V("cause", err)))
		return
	}

	pred, err := s.uc.Severity.Predict(ctx, req.Description, types.InjuryCategory(req.InjuryCategory))
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, pred)
}

func (s *Server) handleSeverityRetrain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	metrics, err := s.uc.Severity.Retrain(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, metrics)
}
