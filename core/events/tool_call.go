package events

const (
	// KindToolCallRequested identifies a model-issued function call.
	KindToolCallRequested Kind = "tool_call.requested"
	// KindToolCallStarted identifies tool call execution start.
	KindToolCallStarted Kind = "tool_call.started"
	// KindToolCallCompleted identifies successful tool call completion.
	KindToolCallCompleted Kind = "tool_call.completed"
	// KindToolCallFailed identifies tool call failure.
	KindToolCallFailed Kind = "tool_call.failed"
)

// ToolCallRequested carries a parsed function call from the wire. Arguments
// is the raw JSON object string as sent by the model.
type ToolCallRequested struct {
	Base
	CallID    string
	Name      string
	Arguments string
}

// NewToolCallRequested creates a tool call requested event.
func NewToolCallRequested(callID, name, arguments string) ToolCallRequested {
	return ToolCallRequested{Base: NewBase(KindToolCallRequested), CallID: callID, Name: name, Arguments: arguments}
}

// ToolCallStarted marks start of tool execution.
type ToolCallStarted struct {
	Base
	CallID string
	Name   string
}

// NewToolCallStarted creates a tool call started event.
func NewToolCallStarted(callID, name string) ToolCallStarted {
	return ToolCallStarted{Base: NewBase(KindToolCallStarted), CallID: callID, Name: name}
}

// ToolCallCompleted marks successful tool execution. Output is the textual
// result relayed back into the conversation.
type ToolCallCompleted struct {
	Base
	CallID string
	Name   string
	Output string
}

// NewToolCallCompleted creates a tool call completed event.
func NewToolCallCompleted(callID, name, output string) ToolCallCompleted {
	return ToolCallCompleted{Base: NewBase(KindToolCallCompleted), CallID: callID, Name: name, Output: output}
}

// ToolCallFailed marks failed tool execution.
type ToolCallFailed struct {
	Base
	CallID string
	Name   string
	Error  string
}

// NewToolCallFailed creates a tool call failed event.
func NewToolCallFailed(callID, name, err string) ToolCallFailed {
	return ToolCallFailed{Base: NewBase(KindToolCallFailed), CallID: callID, Name: name, Error: err}
}
