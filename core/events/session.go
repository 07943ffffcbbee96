package events

const (
	// KindSessionCreated identifies the remote session being established.
	KindSessionCreated Kind = "session.created"
	// KindSessionConfigured identifies acknowledgement of the session
	// configuration sent on connect.
	KindSessionConfigured Kind = "session.configured"
	// KindSessionClosed identifies the connection ending, whether by an
	// explicit disconnect or a transport failure.
	KindSessionClosed Kind = "session.closed"
	// KindSessionError identifies a protocol-level error raised by the remote
	// side. The connection itself stays up.
	KindSessionError Kind = "session.error"
)

// SessionCreated marks the remote session being established.
type SessionCreated struct {
	Base
	SessionID string
}

func NewSessionCreated(sessionID string) SessionCreated {
	return SessionCreated{Base: NewBase(KindSessionCreated), SessionID: sessionID}
}

// SessionConfigured marks acknowledgement of the session configuration.
type SessionConfigured struct{ Base }

func NewSessionConfigured() SessionConfigured {
	return SessionConfigured{Base: NewBase(KindSessionConfigured)}
}

// SessionClosed marks the end of the connection. Err is nil on an explicit
// disconnect.
type SessionClosed struct {
	Base
	Err error
}

func NewSessionClosed(err error) SessionClosed {
	return SessionClosed{Base: NewBase(KindSessionClosed), Err: err}
}

// SessionError carries a protocol error message from the remote side.
type SessionError struct {
	Base
	Message string
}

func NewSessionError(message string) SessionError {
	return SessionError{Base: NewBase(KindSessionError), Message: message}
}
