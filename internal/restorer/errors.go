package restorer

import (
	"context"
	"errors"
	"strings"

	"github.com/UnendingLoop/PhotoRestorer/internal/model"
	"google.golang.org/genai"
)

// RequestError is a transport or protocol failure of the provider call
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// UserMessage converts any restoration failure into the text shown to the user
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return model.GenericRestoreMessage
	case errors.As(err, &reqErr):
		return reqErr.Message
	case errors.Is(err, model.ErrNoResult):
		return "Could not generate the image. Please try again."
	case errors.Is(err, model.ErrInvalidImage):
		return "The source image could not be read. Please upload it again."
	default:
		return model.GenericRestoreMessage
	}
}

func providerMessage(err error) string {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Message != "" {
		return apiErrPtr.Message
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return model.GenericRestoreMessage
}
