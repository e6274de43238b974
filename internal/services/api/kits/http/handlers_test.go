package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fieldnote/internal/modkit/httpkit"
	perr "fieldnote/internal/platform/errors"
	pnet "fieldnote/internal/platform/net"
	phttp "fieldnote/internal/platform/net/http"
	"fieldnote/internal/services/api/kits/domain"

	"github.com/go-chi/chi/v5"
)

// fakeSvc records the last call it saw
type fakeSvc struct {
	op    string
	id    string
	index int
	who   pnet.Identity
	in    any
	err   error
}

func (f *fakeSvc) view(op, id string) (domain.SessionView, error) {
	f.op, f.id = op, id
	return domain.SessionView{ID: id, UploadEnabled: true}, f.err
}

func (f *fakeSvc) Open(_ context.Context, who pnet.Identity, in domain.OpenInput) (domain.OpenResult, error) {
	f.op, f.who, f.in = "open", who, in
	return domain.OpenResult{Session: domain.SessionView{ID: "s1", User: who.User, Locked: who.Locked}}, f.err
}
func (f *fakeSvc) View(_ context.Context, id string) (domain.SessionView, error) {
	return f.view("view", id)
}
func (f *fakeSvc) Done(_ context.Context, id string) (domain.SessionView, error) {
	return f.view("done", id)
}
func (f *fakeSvc) Reset(_ context.Context, id string) (domain.SessionView, error) {
	return f.view("reset", id)
}
func (f *fakeSvc) AddRow(_ context.Context, id string) (domain.SessionView, error) {
	return f.view("add", id)
}
func (f *fakeSvc) SetRowValue(_ context.Context, id string, index int, in domain.RowValueInput) (domain.SessionView, error) {
	f.index, f.in = index, in
	return f.view("value", id)
}
func (f *fakeSvc) SetRowType(_ context.Context, id string, index int, in domain.RowTypeInput) (domain.SessionView, error) {
	f.index, f.in = index, in
	return f.view("type", id)
}
func (f *fakeSvc) DeleteRow(_ context.Context, id string, index int) (domain.SessionView, error) {
	f.index = index
	return f.view("delete", id)
}
func (f *fakeSvc) Finalize(_ context.Context, id string, in domain.FinalizeInput) (domain.SessionView, error) {
	f.in = in
	return f.view("finalize", id)
}
func (f *fakeSvc) Load(_ context.Context, id string, in domain.LoadInput) (domain.SessionView, error) {
	f.in = in
	return f.view("load", id)
}
func (f *fakeSvc) Edit(_ context.Context, id string, in domain.CellEditInput) (domain.EditResult, error) {
	f.op, f.id, f.in = "edit", id, in
	return domain.EditResult{Row: in.Row, Column: in.Column, Reverted: true, Severity: domain.Warning}, f.err
}
func (f *fakeSvc) Upload(_ context.Context, id string) (domain.UploadReport, error) {
	f.op, f.id = "upload", id
	return domain.UploadReport{Inserted: 2, Severity: domain.Success}, f.err
}

func serve(t *testing.T, svc domain.ServicePort, method, path, body string, hdr map[string]string) (int, pnet.Wire) {
	t.Helper()
	mux := chi.NewRouter()
	httpkit.MountAPIV1(phttp.AdaptChi(mux), httpkit.CommonStack(httpkit.StackOptions{}), func(r httpkit.Router) {
		r.Route("/kits", func(r httpkit.Router) { Register(r, svc) })
	})
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	var w pnet.Wire
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &w); err != nil {
			t.Fatalf("decode %q: %v", rr.Body.String(), err)
		}
	}
	return rr.Code, w
}

func TestOpen(t *testing.T) {
	svc := &fakeSvc{}
	code, w := serve(t, svc, http.MethodPost, "/api/v1/kits/sessions", "", map[string]string{"Dh-User": "jdoe"})
	if code != http.StatusCreated || svc.op != "open" || svc.who.User != "jdoe" || !svc.who.Locked {
		t.Fatalf("header open: %d %+v", code, svc)
	}
	data, _ := w.Data.(map[string]any)
	sess, _ := data["session"].(map[string]any)
	if sess["locked"] != true {
		t.Fatalf("session = %v", data)
	}

	code, _ = serve(t, svc, http.MethodPost, "/api/v1/kits/sessions", `{"user":"typed"}`, nil)
	if code != http.StatusCreated || svc.who.Locked || svc.in.(domain.OpenInput).User != "typed" {
		t.Fatalf("typed open: %d %+v", code, svc)
	}

	code, w = serve(t, svc, http.MethodPost, "/api/v1/kits/sessions", `{"user":"`+strings.Repeat("x", 201)+`"}`, nil)
	if code != http.StatusBadRequest || w.Field != "user" {
		t.Fatalf("long user: %d %+v", code, w)
	}
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		op     string
		index  int
	}{
		{"view", http.MethodGet, "/api/v1/kits/sessions/s1", "", "view", 0},
		{"done", http.MethodDelete, "/api/v1/kits/sessions/s1", "", "done", 0},
		{"reset", http.MethodPost, "/api/v1/kits/sessions/s1/reset", "", "reset", 0},
		{"add row", http.MethodPost, "/api/v1/kits/sessions/s1/rows", "", "add", 0},
		{"row value", http.MethodPut, "/api/v1/kits/sessions/s1/rows/3/value", `{"value":"ECCC0001"}`, "value", 3},
		{"row type", http.MethodPut, "/api/v1/kits/sessions/s1/rows/2/type", `{"type":"Blank"}`, "type", 2},
		{"delete row", http.MethodDelete, "/api/v1/kits/sessions/s1/rows/4", "", "delete", 4},
		{"finalize", http.MethodPost, "/api/v1/kits/sessions/s1/finalize", `{"kit_id":"EC-0001"}`, "finalize", 0},
		{"load", http.MethodPost, "/api/v1/kits/sessions/s1/load", `{"kit_id":"EC-0001"}`, "load", 0},
		{"edit", http.MethodPatch, "/api/v1/kits/sessions/s1/batch", `{"row":0,"column":"note","value":"x"}`, "edit", 0},
		{"upload", http.MethodPost, "/api/v1/kits/sessions/s1/upload", "", "upload", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeSvc{}
			code, w := serve(t, svc, tc.method, tc.path, tc.body, nil)
			if code != http.StatusOK {
				t.Fatalf("code %d wire %+v", code, w)
			}
			if svc.op != tc.op || svc.id != "s1" || svc.index != tc.index {
				t.Fatalf("call = %+v", svc)
			}
		})
	}
}

func TestBindingFailures(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
		field  string
	}{
		{"bad index", http.MethodPut, "/api/v1/kits/sessions/s1/rows/x/value", `{"value":"a"}`, http.StatusUnprocessableEntity, "index"},
		{"zero index", http.MethodDelete, "/api/v1/kits/sessions/s1/rows/0", "", http.StatusUnprocessableEntity, "index"},
		{"bad type", http.MethodPut, "/api/v1/kits/sessions/s1/rows/1/type", `{"type":"Other"}`, http.StatusBadRequest, "type"},
		{"load bad kit", http.MethodPost, "/api/v1/kits/sessions/s1/load", `{"kit_id":"EC-1"}`, http.StatusBadRequest, "kit_id"},
		{"edit negative row", http.MethodPatch, "/api/v1/kits/sessions/s1/batch", `{"row":-1,"column":"note"}`, http.StatusBadRequest, "row"},
		{"edit no column", http.MethodPatch, "/api/v1/kits/sessions/s1/batch", `{"row":0}`, http.StatusBadRequest, "column"},
		{"finalize no body", http.MethodPost, "/api/v1/kits/sessions/s1/finalize", "", http.StatusBadRequest, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeSvc{}
			code, w := serve(t, svc, tc.method, tc.path, tc.body, nil)
			if code != tc.code || w.Field != tc.field {
				t.Fatalf("code %d wire %+v", code, w)
			}
			if svc.op != "" {
				t.Fatalf("service reached: %s", svc.op)
			}
		})
	}
}

func TestServiceErrors(t *testing.T) {
	svc := &fakeSvc{err: perr.NotFoundf("session %q not found or expired", "s9")}
	if code, _ := serve(t, svc, http.MethodGet, "/api/v1/kits/sessions/s9", "", nil); code != http.StatusNotFound {
		t.Fatalf("code = %d", code)
	}
	svc.err = perr.Conflictf("tracked meanwhile")
	if code, _ := serve(t, svc, http.MethodPost, "/api/v1/kits/sessions/s9/upload", "", nil); code != http.StatusConflict {
		t.Fatalf("code = %d", code)
	}
}

func TestEditRevertIsNotAnError(t *testing.T) {
	svc := &fakeSvc{}
	code, w := serve(t, svc, http.MethodPatch, "/api/v1/kits/sessions/s1/batch",
		`{"row":0,"column":"sample_start","value":"soon"}`, nil)
	data, _ := w.Data.(map[string]any)
	if code != http.StatusOK || data["reverted"] != true || data["severity"] != "warning" {
		t.Fatalf("code %d data %v", code, data)
	}
	if in := svc.in.(domain.CellEditInput); in.Column != "sample_start" {
		t.Fatalf("in = %+v", in)
	}
}
