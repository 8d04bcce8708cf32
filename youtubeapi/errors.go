package youtubeapi

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// APIError is an error response from the YouTube API, carrying the HTTP
// status and Google's machine-readable reason (e.g. "quotaExceeded").
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube api: %s (%d %s)", e.Message, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("youtube api: %s (%d)", e.Message, e.StatusCode)
}

// NotFoundError reports a missing resource by type and id.
type NotFoundError struct {
	ResourceType string
	ResourceID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.ResourceType, e.ResourceID)
}

// notFound builds the error used both for HTTP 404s and for list responses
// that came back empty for an id lookup.
func notFound(resourceType, id string) error {
	return &NotFoundError{ResourceType: resourceType, ResourceID: id}
}

// wrapAPIError converts a googleapi.Error into the package error types.
// resourceType and id feed the NotFoundError when the status is 404.
func wrapAPIError(err error, resourceType, id string) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("youtube api: %w", err)
	}
	if gerr.Code == http.StatusNotFound {
		return notFound(resourceType, id)
	}
	reason := ""
	if len(gerr.Errors) > 0 {
		reason = gerr.Errors[0].Reason
	}
	return &APIError{StatusCode: gerr.Code, Reason: reason, Message: gerr.Message}
}
