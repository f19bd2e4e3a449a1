package api

import (
	"net/http"

	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/mixture"
	"github.com/porelab/porenet/pkg/pipeline"
)

type resolveRequest struct {
	Pores     int                       `json:"pores"`
	Tolerance float64                   `json:"tolerance,omitempty"`
	Balance   string                    `json:"balance,omitempty"`
	Species   []pipeline.SpeciesOptions `json:"species"`
}

type resolveResponse struct {
	Pores     int                  `json:"pores"`
	Fractions map[string][]float64 `json:"fractions"`
}

// handleResolveMixture completes per-pore mole fractions: every species
// listed without a fraction is solved from the closure constraint.
func (s *Server) handleResolveMixture(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.Pores < 1 {
		s.respondError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidInput,
			"pores must be positive, got %d", req.Pores))
		return
	}
	if len(req.Species) == 0 {
		s.respondError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "at least one species is required"))
		return
	}

	opts := pipeline.Options{
		Species:   req.Species,
		Balance:   req.Balance,
		Tolerance: req.Tolerance,
	}
	if err := opts.ValidateForCompose(); err != nil {
		s.respondError(w, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidComposition, err, "invalid composition"))
		return
	}

	m, err := pipeline.Compose(req.Pores, opts)
	if err != nil {
		s.respondError(w, pipelineError(err))
		return
	}

	s.respondJSON(w, http.StatusOK, resolveResponse{
		Pores:     m.PoreCount(),
		Fractions: fractionsOf(m),
	})
}

// fractionsOf dumps every species' mole fraction field, keyed by name.
func fractionsOf(m *mixture.Mixture) map[string][]float64 {
	out := make(map[string][]float64, m.SpeciesCount())
	for _, name := range m.SpeciesNames() {
		if xs, ok := m.Fraction(name); ok {
			out[name] = xs
		}
	}
	return out
}
