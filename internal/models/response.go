package models

// APIResponse is the uniform success envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// APIError is the uniform error envelope. Data is always null and Errors is
// always an array so clients can rely on the shape regardless of origin.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Errors  []any  `json:"errors"`
	Data    any    `json:"data"`
}

func OK(data any, message string) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data}
}

type UploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
