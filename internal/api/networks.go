package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/porelab/porenet/pkg/cache"
	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/export"
	"github.com/porelab/porenet/pkg/pipeline"
	"github.com/porelab/porenet/pkg/topo"
)

type planDTO struct {
	Removed   int     `json:"removed"`
	Protected int     `json:"protected"`
	Target    float64 `json:"target"`
	Achieved  float64 `json:"achieved"`
	Shortfall int     `json:"shortfall,omitempty"`
}

type healthDTO struct {
	OK            bool `json:"ok"`
	Clusters      int  `json:"clusters"`
	IsolatedPores int  `json:"isolated_pores"`
}

type networkResponse struct {
	Network   json.RawMessage      `json:"network"`
	Hash      string               `json:"hash"`
	Pores     int                  `json:"pores"`
	Throats   int                  `json:"throats"`
	Plan      *planDTO             `json:"plan,omitempty"`
	Health    healthDTO            `json:"health"`
	Fractions map[string][]float64 `json:"fractions,omitempty"`
}

func planDTOFrom(plan *topo.Plan) *planDTO {
	if plan == nil {
		return nil
	}
	return &planDTO{
		Removed:   len(plan.Remove),
		Protected: len(plan.Protected),
		Target:    plan.Target,
		Achieved:  plan.Achieved,
		Shortfall: plan.Shortfall,
	}
}

func healthDTOFrom(h topo.Health) healthDTO {
	return healthDTO{
		OK:            h.OK(),
		Clusters:      len(h.Clusters),
		IsolatedPores: len(h.IsolatedPores),
	}
}

// handleBuildNetwork runs the pipeline and returns the resulting network
// document. The request body is a pipeline options document; the formats
// field is ignored since the response always carries the JSON form.
func (s *Server) handleBuildNetwork(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeBody(r, &opts); err != nil {
		s.respondError(w, err)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.respondError(w, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "invalid pipeline options"))
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.respondError(w, pipelineError(err))
		return
	}

	resp := networkResponse{
		Network: result.Artifacts[pipeline.FormatJSON],
		Hash:    result.NetworkHash,
		Pores:   result.Stats.PoreCount,
		Throats: result.Stats.ThroatCount,
		Plan:    planDTOFrom(result.Plan),
		Health:  healthDTOFrom(result.Health),
	}
	if result.Mixture != nil {
		resp.Fractions = fractionsOf(result.Mixture)
	}
	s.respondJSON(w, http.StatusOK, resp)
}

type reduceRequest struct {
	Network      json.RawMessage `json:"network"`
	Coordination float64         `json:"coordination"`
	Seed         uint64          `json:"seed,omitempty"`
}

// handleReduceNetwork trims a posted network document to a target average
// coordination and returns the trimmed document with the plan that
// produced it.
func (s *Server) handleReduceNetwork(w http.ResponseWriter, r *http.Request) {
	var req reduceRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if len(req.Network) == 0 {
		s.respondError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "network document is required"))
		return
	}
	if req.Coordination <= 0 {
		s.respondError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidInput,
			"coordination must be positive, got %g", req.Coordination))
		return
	}
	if req.Seed == 0 {
		req.Seed = pipeline.DefaultSeed
	}

	net, err := export.ReadJSON(bytes.NewReader(req.Network))
	if err != nil {
		s.respondError(w, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidNetwork, err, "parse network document"))
		return
	}

	plan, err := topo.ReduceCoordination(net, req.Coordination, req.Seed)
	if err != nil {
		s.respondError(w, pipelineError(err))
		return
	}
	if err := plan.Apply(net); err != nil {
		s.respondError(w, pipelineError(err))
		return
	}

	var buf bytes.Buffer
	if err := export.WriteJSON(net, &buf); err != nil {
		s.respondError(w, pkgerrors.Wrap(pkgerrors.ErrCodeInternal, err, "serialize network"))
		return
	}

	s.respondJSON(w, http.StatusOK, networkResponse{
		Network: buf.Bytes(),
		Hash:    cache.Hash(buf.Bytes()),
		Pores:   net.PoreCount(),
		Throats: net.ThroatCount(),
		Plan:    planDTOFrom(plan),
		Health:  healthDTOFrom(topo.CheckHealth(net)),
	})
}
