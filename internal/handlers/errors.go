package handlers

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// MessageError is the error body every service returns: a status code and a
// single human-readable message. Internal details (stack traces, backend
// addresses) never reach the response.
type MessageError struct {
	status  int
	Message string `json:"message"`
}

func (e *MessageError) Error() string {
	return e.Message
}

func (e *MessageError) GetStatus() int {
	return e.status
}

// UseMessageErrors replaces huma's default RFC 7807 error model with the
// {"message"} body these services have always returned. Detail errors are
// joined into the message the way the validators join their issues.
func UseMessageErrors() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		details := make([]string, 0, len(errs))

		for _, err := range errs {
			if err != nil {
				details = append(details, err.Error())
			}
		}

		if len(details) > 0 {
			message = strings.Join(details, ", ")
		}

		return &MessageError{
			status:  status,
			Message: message,
		}
	}
}
