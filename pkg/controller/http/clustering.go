package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/usecase"
	"github.com/safesight-lab/safesight/pkg/utils/errutil"
)

type clusteringRequest struct {
	K       int  `json:"k,omitempty"`
	SelectK bool `json:"select_k,omitempty"`
}

func (s *Server) handleClusteringRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req clusteringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		handleError(ctx, w, goerr.Wrap(model.ErrInvalidRequest, "invalid clustering request body", goerr.V("cause", err)))
		return
	}

	sess := s.session(w, r, "")

	result, err := s.uc.Clustering.Run(ctx, usecase.RunOptions{
		K:       req.K,
		SelectK: req.SelectK,
	})
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	sess.LastClustering = result

	respondJSON(ctx, w, http.StatusOK, result)
}

func (s *Server) handleClusteringLast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := s.sessionID(r)
	sess := s.uc.Sessions.Get(id)
	if sess == nil || sess.LastClustering == nil {
		errutil.HandleHTTP(ctx, w, goerr.New("no clustering result for this session"), http.StatusNotFound)
		return
	}

	respondJSON(ctx, w, http.StatusOK, sess.LastClustering)
}
