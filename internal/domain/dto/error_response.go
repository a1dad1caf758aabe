package dto

import "time"

// ErrorResponse is the JSON body returned for every failed request.
//
// Fields:
//   - Message: short, client-facing description.
//   - ErrorDetails: the underlying error text, omitted when there is none.
//   - Timestamp: when the error response was built (UTC).
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid window"`
	ErrorDetails string    `json:"error,omitempty" example:"window must be a positive integer"`
	Timestamp    time.Time `json:"timestamp" example:"2025-09-12T15:04:05Z"`
}

// Error implements the error interface so the response can travel through c.Error.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
//
// Parameters:
//   - message: client-facing description.
//   - err: optional underlying error; nil leaves ErrorDetails empty.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
