package errors

// ErrorResponse is the JSON body every failed request gets
type ErrorResponse struct {
	Error   string `json:"error"`             // stable machine-readable code
	Message string `json:"message"`           // human-readable summary
	Details string `json:"details,omitempty"` // sanitized in production
}

// classification result for an underlying error
type ErrorInfo struct {
	category  string
	sanitized string
}
