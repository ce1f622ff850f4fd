package envelope

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
)

// ErrorResponse is the transport facing rendering of a rejected message.
type ErrorResponse struct {
	Code    string                 `json:"Code"`
	Message string                 `json:"Message"`
	Details map[string]interface{} `json:"Details"`
}

// Error implements the error interface for ErrorResponse.
func (e *ErrorResponse) Error() string {
	return e.Message
}

// ToErrorResponse converts err into an ErrorResponse, keeping the code of the
// stage that failed. Errors outside the envelope taxonomy get ErrorCodeUnknown.
func ToErrorResponse(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	var coded CodedError
	if errors.As(err, &coded) {
		return &ErrorResponse{
			Code:    coded.Code(),
			Message: err.Error(),
			Details: coded.Details(),
		}
	}
	return &ErrorResponse{
		Code:    ErrorCodeUnknown,
		Message: err.Error(),
		Details: map[string]interface{}{},
	}
}

// ErrorToText renders err as a JSON ErrorResponse.
func ErrorToText(err error) string {
	b, marshalError := json.Marshal(ToErrorResponse(err))
	if marshalError != nil {
		msg := "error converting envelope error to JSON"
		log.Error().Err(marshalError).Msg(msg)
		return msg
	}
	return string(b)
}
