package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"fieldnote/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	IdentityHeader string
	CORS           middleware.CORSOptions
	Timeout        time.Duration
	SlowRequest    time.Duration
}

// CommonStack is the per API middleware slice: correlation, panic safety,
// identity, access log, CORS and compression
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.IdentityHeader == "" {
		o.IdentityHeader = middleware.DefaultIdentityHeader
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.SlowRequest <= 0 {
		o.SlowRequest = 500 * time.Millisecond
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.Identity(o.IdentityHeader),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		middleware.CORS(o.CORS, o.IdentityHeader),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
