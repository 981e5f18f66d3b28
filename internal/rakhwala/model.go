package rakhwala

// AuthResult is the decoded body of a successful validate_user call.
type AuthResult struct {
	// Token is the bearer credential for subsequent calls.
	Token string
	// Message is the optional human-readable note from the service.
	Message string
}

// RegistrationResult is the decoded body of a successful user_registry
// call.
type RegistrationResult struct {
	Message string
}

// CommandResult is the decoded body of an update_task call.
type CommandResult struct {
	Message string
}
