package model

// VersionInfo describes the running build for the system endpoints.
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
}
