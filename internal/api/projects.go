package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/export"
	"github.com/porelab/porenet/pkg/pipeline"
	"github.com/porelab/porenet/pkg/project"
	"github.com/porelab/porenet/pkg/store"
)

type projectResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	CreatedAt  time.Time       `json:"created_at"`
	ModifiedAt time.Time       `json:"modified_at"`
	Pores      int             `json:"pores,omitempty"`
	Throats    int             `json:"throats,omitempty"`
	Mixtures   []string        `json:"mixtures,omitempty"`
	Network    json.RawMessage `json:"network,omitempty"`
}

func projectResponseFrom(p *project.Project, withNetwork bool) (projectResponse, error) {
	resp := projectResponse{
		ID:         p.ID(),
		Name:       p.Name(),
		CreatedAt:  p.CreatedAt(),
		ModifiedAt: p.ModifiedAt(),
		Mixtures:   p.MixtureNames(),
	}
	if net := p.Network(); net != nil {
		resp.Pores = net.PoreCount()
		resp.Throats = net.ThroatCount()
		if withNetwork {
			var buf bytes.Buffer
			if err := export.WriteJSON(net, &buf); err != nil {
				return projectResponse{}, pkgerrors.Wrap(pkgerrors.ErrCodeInternal, err, "serialize network")
			}
			resp.Network = buf.Bytes()
		}
	}
	return resp, nil
}

type listProjectsResponse struct {
	Projects []store.Info `json:"projects"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	s.respondJSON(w, http.StatusOK, listProjectsResponse{Projects: infos})
}

type createProjectRequest struct {
	Name string `json:"name"`

	// Options, when present, runs the pipeline and stores its network in
	// the new project. A composed mixture is stored under Mixture.
	Options *pipeline.Options `json:"options,omitempty"`
	Mixture string            `json:"mixture,omitempty"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	p, err := project.New(req.Name)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if req.Options != nil {
		opts := *req.Options
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
		p.SetNetwork(result.Network)
		if result.Mixture != nil {
			name := req.Mixture
			if name == "" {
				name = "default"
			}
			if err := p.AddMixture(name, result.Mixture); err != nil {
				s.respondError(w, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "store mixture %q", name))
				return
			}
		}
	}

	if err := s.store.Save(r.Context(), p); err != nil {
		s.respondError(w, err)
		return
	}

	resp, err := projectResponseFrom(p, false)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	p, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	resp, err := projectResponseFrom(p, true)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

type renameProjectRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRenameProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	var req renameProjectRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	p, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := p.Rename(req.Name); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), p); err != nil {
		s.respondError(w, err)
		return
	}

	resp, err := projectResponseFrom(p, false)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
