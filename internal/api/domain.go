package api

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message,omitempty" example:"Operation successful"`
	Error   string `json:"error,omitempty" example:"Resource not found"`
}

// ValidationProblem is the body of a 400 caused by invalid request fields.
type ValidationProblem struct {
	Success   bool              `json:"success" example:"false"`
	Error     string            `json:"error" example:"validation failed"`
	Fields    map[string]string `json:"fields"`
	RequestID string            `json:"request_id,omitempty"`
}
