package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fieldnote/internal/modkit/httpkit"
	perr "fieldnote/internal/platform/errors"
	phttp "fieldnote/internal/platform/net/http"
	"fieldnote/internal/services/api/lookups/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct {
	snap      domain.Snapshot
	err       error
	refreshed int
}

func (f *fakeSvc) Snapshot(context.Context) (domain.Snapshot, error) { return f.snap, f.err }
func (f *fakeSvc) Refresh(context.Context) (domain.Snapshot, error) {
	f.refreshed++
	return f.snap, f.err
}

func serve(svc domain.ServicePort, method, path string) *httptest.ResponseRecorder {
	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/lookups", func(r httpkit.Router) { Register(r, svc) })
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestTables(t *testing.T) {
	svc := &fakeSvc{snap: domain.Snapshot{
		Sites:    []domain.Record{{"siteid": "S001"}},
		Flags:    []domain.Record{{"flag": "V0"}},
		Projects: []string{"mercury"},
	}}
	tests := []struct {
		path string
		want string
	}{
		{"/lookups/sites", `[{"siteid":"S001"}]`},
		{"/lookups/flags", `[{"flag":"V0"}]`},
		{"/lookups/users", `null`},
		{"/lookups/projects", `["mercury"]`},
	}
	for _, tc := range tests {
		rr := serve(svc, http.MethodGet, tc.path)
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatal(err)
		}
		got := string(env.Data)
		if got == "" {
			got = "null"
		}
		if rr.Code != http.StatusOK || got != tc.want {
			t.Fatalf("%s: %d %s", tc.path, rr.Code, got)
		}
	}
}

func TestRefreshAndFailure(t *testing.T) {
	svc := &fakeSvc{}
	if rr := serve(svc, http.MethodPost, "/lookups/refresh"); rr.Code != http.StatusOK || svc.refreshed != 1 {
		t.Fatalf("refresh: %d %d", rr.Code, svc.refreshed)
	}
	svc.err = perr.FromPostgres(perr.DBf("refused"), "reference tables could not be read")
	if rr := serve(svc, http.MethodGet, "/lookups/"); rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}
