// Package api exposes the pipeline and the project store over HTTP.
//
// Routes:
//
//	GET    /healthz                     liveness probe with build info
//	POST   /v1/networks                 run the pipeline (build, reduce, compose)
//	POST   /v1/networks/reduce          trim a posted network to a target coordination
//	POST   /v1/mixtures/resolve         complete per-pore mole fractions
//	GET    /v1/projects                 list stored projects
//	POST   /v1/projects                 create a project
//	GET    /v1/projects/{projectID}     fetch a project with its network
//	PUT    /v1/projects/{projectID}     rename a project
//	DELETE /v1/projects/{projectID}     delete a project
//
// Failures are returned as JSON documents carrying machine-readable codes:
//
//	{"error": {"code": "PROJECT_NOT_FOUND", "message": "no project with id ..."}}
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/porelab/porenet/pkg/buildinfo"
	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/mixture"
	"github.com/porelab/porenet/pkg/pipeline"
	"github.com/porelab/porenet/pkg/store"
	"github.com/porelab/porenet/pkg/topo"
)

// Server holds the handler dependencies. Construct with [NewServer] and
// mount [Server.Router] on an http.Server.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// NewServer creates a server around the given runner and project store.
// A nil store disables the project routes (they respond 404). A nil
// logger falls back to the default logger.
func NewServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: runner,
		store:  st,
		logger: logger,
	}
}

// Router builds the chi routing tree with logging and recovery middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/networks", s.handleBuildNetwork)
		r.Post("/networks/reduce", s.handleReduceNetwork)
		r.Post("/mixtures/resolve", s.handleResolveMixture)

		if s.store != nil {
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", s.handleListProjects)
				r.Post("/", s.handleCreateProject)
				r.Get("/{projectID}", s.handleGetProject)
				r.Put("/{projectID}", s.handleRenameProject)
				r.Delete("/{projectID}", s.handleDeleteProject)
			})
		}
	})

	return r
}

type healthzResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, healthzResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Commit:  buildinfo.Commit,
	})
}

type errorBody struct {
	Code    pkgerrors.Code `json:"code"`
	Message string         `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	code := pkgerrors.GetCode(err)
	if code == "" {
		code = pkgerrors.ErrCodeInternal
	}
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	s.respondJSON(w, status, errorResponse{
		Error: errorBody{Code: code, Message: pkgerrors.UserMessage(err)},
	})
}

// decodeBody reads a JSON request body into v, rejecting unknown fields
// so typos in option names fail loudly instead of being ignored.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// statusForCode maps error codes onto HTTP status codes. Unknown codes
// are treated as internal failures.
func statusForCode(code pkgerrors.Code) int {
	switch code {
	case pkgerrors.ErrCodeNotFound,
		pkgerrors.ErrCodeProjectNotFound,
		pkgerrors.ErrCodeSpeciesNotFound,
		pkgerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case pkgerrors.ErrCodeDisconnected,
		pkgerrors.ErrCodeInvalidComposition:
		return http.StatusUnprocessableEntity
	case pkgerrors.ErrCodeInvalidInput,
		pkgerrors.ErrCodeInvalidRecipe,
		pkgerrors.ErrCodeInvalidNetwork,
		pkgerrors.ErrCodeInvalidFormat,
		pkgerrors.ErrCodeIndexRange:
		return http.StatusBadRequest
	case pkgerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// pipelineError attaches a code to an error escaping a pipeline stage.
// Domain sentinels map to their dedicated codes so clients can branch;
// anything else after validation is an internal failure.
func pipelineError(err error) error {
	switch {
	case pkgerrors.GetCode(err) != "":
		return err
	case errors.Is(err, topo.ErrDisconnected):
		return pkgerrors.Wrap(pkgerrors.ErrCodeDisconnected, err, "reduction would disconnect the network")
	case errors.Is(err, mixture.ErrUnderdetermined),
		errors.Is(err, mixture.ErrInconsistentComposition):
		return pkgerrors.Wrap(pkgerrors.ErrCodeInvalidComposition, err, "composition does not resolve")
	default:
		return pkgerrors.Wrap(pkgerrors.ErrCodeInternal, err, "pipeline failed")
	}
}
