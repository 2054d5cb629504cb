package handlers

import "net/http"

// VersionResponse is the version payload.
type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
}

// Version reports build information.
func Version(version, commit, date string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, VersionResponse{
			Version: version,
			Commit:  commit,
			Date:    date,
		})
	}
}
