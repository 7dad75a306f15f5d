package models

// ErrorResponse is the body returned for any failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the body returned for mutations with no payload
type StatusResponse struct {
	Status string `json:"status"`
}

// MissionResponse wraps a single mission in the status envelope
type MissionResponse struct {
	Status  string  `json:"status"`
	Mission Mission `json:"mission"`
}

// UploadRequest is the expected body for the image upload endpoint
type UploadRequest struct {
	Image string `json:"image"`
}

// UploadResponse carries the hosted URL back to the client
type UploadResponse struct {
	Status string `json:"status"`
	URL    string `json:"url"`
}

// HealthCheckResponse returns the health check response
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
