// Package http exposes the kit entry sessions
package http

import (
	"net/http"
	"strconv"

	"fieldnote/internal/modkit/httpkit"
	perr "fieldnote/internal/platform/errors"
	"fieldnote/internal/services/api/kits/domain"
)

// Register mounts the session endpoints
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	r.Post("/sessions", httpkit.OptionalJSON(h.open))
	r.Route("/sessions/{id}", func(r httpkit.Router) {
		httpkit.Get(r, "/", h.view)
		httpkit.Delete(r, "/", h.done)
		httpkit.Post(r, "/reset", h.reset)

		httpkit.Post(r, "/rows", h.addRow)
		httpkit.PutJSON(r, "/rows/{index}/value", h.setValue)
		httpkit.PutJSON(r, "/rows/{index}/type", h.setType)
		httpkit.Delete(r, "/rows/{index}", h.deleteRow)

		httpkit.PostJSON(r, "/finalize", h.finalize)
		httpkit.PostJSON(r, "/load", h.load)
		httpkit.PatchJSON(r, "/batch", h.edit)
		httpkit.Post(r, "/upload", h.upload)
	})
}

type handlers struct{ svc domain.ServicePort }

func sessionID(r *http.Request) string { return httpkit.Param(r, "id") }

func rowIndex(r *http.Request) (int, error) {
	s := httpkit.Param(r, "index")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, perr.WithField(perr.InvalidArgf("row index %q is not a positive integer", s), "index")
	}
	return n, nil
}

func (h *handlers) open(r *http.Request, in domain.OpenInput) (any, error) {
	res, err := h.svc.Open(r.Context(), httpkit.Identity(r), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(res), nil
}

func (h *handlers) view(r *http.Request) (any, error) {
	return h.svc.View(r.Context(), sessionID(r))
}

func (h *handlers) done(r *http.Request) (any, error) {
	return h.svc.Done(r.Context(), sessionID(r))
}

func (h *handlers) reset(r *http.Request) (any, error) {
	return h.svc.Reset(r.Context(), sessionID(r))
}

func (h *handlers) addRow(r *http.Request) (any, error) {
	return h.svc.AddRow(r.Context(), sessionID(r))
}

func (h *handlers) setValue(r *http.Request, in domain.RowValueInput) (any, error) {
	idx, err := rowIndex(r)
	if err != nil {
		return nil, err
	}
	return h.svc.SetRowValue(r.Context(), sessionID(r), idx, in)
}

func (h *handlers) setType(r *http.Request, in domain.RowTypeInput) (any, error) {
	idx, err := rowIndex(r)
	if err != nil {
		return nil, err
	}
	return h.svc.SetRowType(r.Context(), sessionID(r), idx, in)
}

func (h *handlers) deleteRow(r *http.Request) (any, error) {
	idx, err := rowIndex(r)
	if err != nil {
		return nil, err
	}
	return h.svc.DeleteRow(r.Context(), sessionID(r), idx)
}

func (h *handlers) finalize(r *http.Request, in domain.FinalizeInput) (any, error) {
	return h.svc.Finalize(r.Context(), sessionID(r), in)
}

func (h *handlers) load(r *http.Request, in domain.LoadInput) (any, error) {
	return h.svc.Load(r.Context(), sessionID(r), in)
}

func (h *handlers) edit(r *http.Request, in domain.CellEditInput) (any, error) {
	return h.svc.Edit(r.Context(), sessionID(r), in)
}

func (h *handlers) upload(r *http.Request) (any, error) {
	return h.svc.Upload(r.Context(), sessionID(r))
}
