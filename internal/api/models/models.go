// Package models defines the request and response shapes of the HTTP API.
package models

import "time"

// HealthData represents the health check payload
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Health status"`
	Message string `json:"message" example:"API is healthy" doc:"Health detail"`
}

// HealthResponse represents the HTTP response for the health check
type HealthResponse struct {
	Body HealthData
}

// VersionData represents build and version information
type VersionData struct {
	Version   string `json:"version" example:"1.2.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2025-08-25T10:00:00Z" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go compiler version"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Build platform"`
}

// VersionResponse represents the HTTP response for version information
type VersionResponse struct {
	Body VersionData
}

// RunCreateData is the payload for starting a run
type RunCreateData struct {
	Source string `json:"source" required:"true" example:"/videos/input.mp4" doc:"Source video path"`
	Sink   string `json:"sink" required:"true" example:"/videos/output.mkv" doc:"Output video path"`
	Seed   int64  `json:"seed" required:"false" example:"42" doc:"Mask seed; the same seed restores the original"`
	Mode   string `json:"mode,omitempty" enum:"encrypt,decrypt" example:"encrypt" doc:"Run mode, defaults to encrypt"`
}

// RunRequest represents the HTTP request to start a run
type RunRequest struct {
	Body RunCreateData
}

// RunData is a snapshot of one run
type RunData struct {
	RunID      string     `json:"run_id" example:"run-000001" doc:"Run identifier"`
	Source     string     `json:"source" example:"/videos/input.mp4" doc:"Source video path"`
	Sink       string     `json:"sink" example:"/videos/output.mkv" doc:"Output video path"`
	Mode       string     `json:"mode" example:"encrypt" doc:"Run mode"`
	Seed       int64      `json:"seed" example:"42" doc:"Mask seed"`
	State      string     `json:"state" example:"running" doc:"Lifecycle state"`
	Progress   int        `json:"progress" example:"42" doc:"Completion percentage, 0 when total frames are unknown"`
	Frames     int        `json:"frames" example:"378" doc:"Frames written so far"`
	Message    string     `json:"message,omitempty" doc:"Terminal outcome message, empty while running"`
	IsError    bool       `json:"is_error" doc:"Whether the terminal outcome is an error"`
	StartedAt  time.Time  `json:"started_at" doc:"Run start time"`
	FinishedAt *time.Time `json:"finished_at,omitempty" doc:"Run finish time, absent while running"`
}

// RunResponse represents the HTTP response for a single run
type RunResponse struct {
	Body RunData
}

// RunListData represents the run collection payload
type RunListData struct {
	Runs  []RunData `json:"runs" doc:"All known runs, oldest first"`
	Count int       `json:"count" example:"2" doc:"Number of runs"`
}

// RunListResponse represents the HTTP response for the run collection
type RunListResponse struct {
	Body RunListData
}

// PresetData is a named run configuration
type PresetData struct {
	Name   string `json:"name" example:"nightly" doc:"Preset name"`
	Source string `json:"source" example:"/videos/input.mp4" doc:"Source video path"`
	Sink   string `json:"sink" example:"/videos/output.mkv" doc:"Output video path"`
	Seed   int64  `json:"seed" example:"42" doc:"Mask seed"`
	Mode   string `json:"mode,omitempty" example:"encrypt" doc:"Run mode"`
}

// PresetListData represents the preset collection payload
type PresetListData struct {
	Presets []PresetData `json:"presets" doc:"All configured presets, sorted by name"`
	Count   int          `json:"count" example:"3" doc:"Number of presets"`
}

// PresetListResponse represents the HTTP response for the preset collection
type PresetListResponse struct {
	Body PresetListData
}
