package inference

// ProtocolError reports that the inference service could not be reached or
// that its response was malformed or absent. The message is suitable for
// display to the user.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return e.Message
}

// DomainError reports that the inference service answered well-formed but
// explicitly declined the task, carrying the service's own error message.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}
