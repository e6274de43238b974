package middleware

import (
	"net/http"

	"fieldnote/internal/core/textnorm"
	"fieldnote/internal/platform/logger"
	pnet "fieldnote/internal/platform/net"
)

// DefaultIdentityHeader is the header the upstream proxy sets
const DefaultIdentityHeader = "Dh-User"

// Identity reads the upstream user header on every request
// present: the identity is locked to it. absent: the identity is left
// unlocked for the handler to fill from the request body
// the request logger picks up request_id and user either way
func Identity(header string) func(http.Handler) http.Handler {
	if header == "" {
		header = DefaultIdentityHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := pnet.Identity{}
			if u := textnorm.User(r.Header.Get(header)); u != "" {
				id = pnet.Identity{User: u, Locked: true}
			}
			ctx := pnet.WithIdentity(r.Context(), id)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), id.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
