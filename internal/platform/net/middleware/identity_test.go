package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pnet "fieldnote/internal/platform/net"
	"fieldnote/internal/platform/net/middleware"
)

func TestIdentity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		header string
		set    map[string]string
		want   pnet.Identity
	}{
		{"absent", "", nil, pnet.Identity{}},
		{"default header", "", map[string]string{"Dh-User": "  jdoe "}, pnet.Identity{User: "jdoe", Locked: true}},
		{"blank header is absent", "", map[string]string{"Dh-User": "   "}, pnet.Identity{}},
		{"custom header", "X-Forwarded-User", map[string]string{"X-Forwarded-User": "asmith"}, pnet.Identity{User: "asmith", Locked: true}},
		{"custom header ignores default", "X-Forwarded-User", map[string]string{"Dh-User": "jdoe"}, pnet.Identity{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got pnet.Identity
			h := middleware.Identity(tc.header)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = pnet.IdentityFrom(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.set {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tc.want {
				t.Fatalf("identity = %+v, want %+v", got, tc.want)
			}
		})
	}
}
