package errors

import (
	"fmt"
	"strings"
)

// ErrorMessage is the JSON body returned for every failed request.
type ErrorMessage struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// EntityNotFoundMessage describes a lookup of entity by id that found nothing.
func EntityNotFoundMessage(entity string, id int) ErrorMessage {
	return ErrorMessage{
		Title:  entity + " not found",
		Detail: fmt.Sprintf("No %s found for the supplied id - %d", strings.ToLower(entity), id),
	}
}

// RequestContentMismatchMessage describes a body whose id differs from the one in the path.
func RequestContentMismatchMessage() ErrorMessage {
	return ErrorMessage{
		Title:  "Request content mismatch",
		Detail: "Error in the request context.",
	}
}

func InvalidRequestMessage(detail string) ErrorMessage {
	return ErrorMessage{
		Title:  "Invalid request",
		Detail: detail,
	}
}

func InternalErrorMessage(detail string) ErrorMessage {
	return ErrorMessage{
		Title:  "Internal server error",
		Detail: detail,
	}
}
