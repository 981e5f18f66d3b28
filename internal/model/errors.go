package model

// ServiceError is the uniform failure shape. Message is the exact text
// shown to the user, Code the HTTP status the failure maps to.
type ServiceError struct {
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`

	Code int `json:"-"`
}

func (err ServiceError) Error() string {
	return err.Message
}

type Error string

func (err Error) Error() string {
	return string(err)
}

const (
	ErrNotAuthenticated Error = "not authenticated"
	ErrMissingParameter Error = "missing parameter"
)
