// Package events defines the typed event contract between the streaming
// protocol client, the tool dispatch bridge and the conversation
// orchestrator.
//
// Event kinds are grouped by namespace:
//
//   - session.*: connection lifecycle raised by the protocol client.
//   - user_speech.*: server-side voice activity detection boundaries.
//   - assistant_response.*: streamed transcript and audio of the model's
//     spoken reply. Deltas arrive zero or more times and are always followed
//     by a matching done event; different namespaces may interleave within
//     one response.
//   - tool_call.*: model-issued function calls and their local execution.
//
// Every event carries its kind and a creation timestamp through [Base]. The
// orchestrator consumes all of them through a single emitter so ordering is
// decided at exactly one dispatch point.
package events
