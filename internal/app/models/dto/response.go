package dto

// MessageResponse is returned by endpoints with nothing else to report,
// e.g. deletes.
type MessageResponse struct {
	Message string `json:"message" example:"Post deleted successfully"`
}

// HealthResponse reports process and database health
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}
