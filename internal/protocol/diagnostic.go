package protocol

// Diagnostic is a structured error or warning produced by the backend. It is
// consumed only for display and logging; the client never branches on its
// contents beyond presence.
type Diagnostic struct {
	// Message is the human-readable body, possibly colored with ANSI escapes.
	Message string `json:"message"`

	// ModuleName identifies the module the diagnostic originated in.
	ModuleName string `json:"moduleName,omitempty"`

	// File is the source file, when the backend can attribute one.
	File string `json:"file,omitempty"`

	// Loc is the position within the file, e.g. "12:4-19".
	Loc string `json:"loc,omitempty"`
}
