package dto

import "time"

// APIErrorResponse is the structured error body returned for every failure:
// a timestamp, the numeric HTTP status, a short category label, and a map of
// field-to-message details.
type APIErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Messages  map[string]string `json:"messages"`
}

// NewAPIErrorResponse builds an error body stamped with the current time.
func NewAPIErrorResponse(status int, label string, messages map[string]string) APIErrorResponse {
	return APIErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     label,
		Messages:  messages,
	}
}
