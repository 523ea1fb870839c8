package handler

import (
	"net/http"
	"runtime"
	"runtime/debug"
)

// BuildInfo is what /version reports about the running planner.
type BuildInfo struct {
	Version       string `json:"version"`
	GoVersion     string `json:"go_version"`
	Revision      string `json:"revision,omitempty"`
	WorldID       int    `json:"world_id"`
	RevenuePolicy string `json:"revenue_policy"`
}

// Revision is the VCS revision, overridable via -ldflags.
var Revision = ""

// HandleVersion reports the build plus the market settings prices are
// computed with.
func HandleVersion(info BuildInfo) http.HandlerFunc {
	info.GoVersion = runtime.Version()
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Revision == "" {
		info.Revision = vcsRevision()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, info)
	}
}

func vcsRevision() string {
	if Revision != "" {
		return Revision
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
