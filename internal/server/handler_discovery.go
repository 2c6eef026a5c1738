package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "studyplan API",
		Version:     "v1",
		Description: "Task scheduling, conflict detection, and conflict resolution for study plans",
		Endpoints: []endpointInfo{
			{"/api/v1/tasks", []string{"GET", "POST"}, "Task management. GET accepts ?status=, ?limit=, ?offset="},
			{"/api/v1/tasks/{id}", []string{"GET", "PUT", "DELETE"}, "Single Task operations"},
			{"/api/v1/blocks", []string{"GET", "POST"}, "Time block management. GET requires ?date=YYYY-MM-DD"},
			{"/api/v1/blocks/{id}", []string{"GET", "PUT", "DELETE"}, "Single time block operations"},
			{"/api/v1/blocks/{id}/move", []string{"POST"}, "Move a block to a new start time within its day"},
			{"/api/v1/schedule/auto", []string{"POST"}, "Compute a schedule for selected tasks (not persisted)"},
			{"/api/v1/schedule/commit", []string{"POST"}, "Persist an accepted schedule as time blocks"},
			{"/api/v1/conflicts/check", []string{"POST"}, "Classify a proposed placement against the calendar"},
			{"/api/v1/conflicts/{id}/options", []string{"GET"}, "Resolution options for a detected conflict"},
			{"/api/v1/conflicts/{id}/resolve", []string{"POST"}, "Apply one resolution option"},
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
		},
	})
}
