// Package version reports the build of the fieldnote binaries
package version

// BuildInfo identifies a build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build stamped in by the linker, e.g.
// -ldflags "-X 'fieldnote/internal/core/version.version=v0.3.0' -X 'fieldnote/internal/core/version.commit=abcd'"
func Info() BuildInfo {
	return BuildInfo{
		Service: "fieldnote-api",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// UserAgent is sent to stores that record a client name
func UserAgent() string { return "fieldnote/" + version }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
