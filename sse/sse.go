// Package sse renders decoded event-stream messages as Anthropic-shaped
// server-sent-event text. It is a pure templating layer: nothing here
// reads from or writes back into a decoder.Decoder, it only consumes
// values a caller has already pulled out of a decoder.ParsedMessage.
package sse

import "github.com/bytedance/sonic"

// Event is one SSE frame: an event name plus a JSON-serializable body.
type Event struct {
	Type string
	Data any
}

// Format renders the event in the standard "event: ...\ndata: ...\n\n"
// text form. Marshal failures render an empty data line rather than
// panicking, matching the original builder's unwrap_or_default.
func (e Event) Format() string {
	body, err := sonic.ConfigStd.Marshal(e.Data)
	if err != nil {
		body = []byte("")
	}
	return "event: " + e.Type + "\ndata: " + string(body) + "\n\n"
}

// MessageStart opens a new assistant message.
func MessageStart(conversationID, model string, inputTokens int) Event {
	return Event{
		Type: "message_start",
		Data: map[string]any{
			"type": "message_start",
			"message": map[string]any{
				"id":            conversationID,
				"type":          "message",
				"role":          "assistant",
				"content":       []any{},
				"model":         model,
				"stop_reason":   nil,
				"stop_sequence": nil,
				"usage":         map[string]any{"input_tokens": inputTokens, "output_tokens": 0},
			},
		},
	}
}

// ContentBlockStart opens one content block within a message. blockType
// is typically "text", "thinking", or "tool_use"; unrecognized block
// types get a bare {"type": blockType} body rather than failing.
func ContentBlockStart(index int, blockType string) Event {
	var block map[string]any
	switch blockType {
	case "text":
		block = map[string]any{"type": "text", "text": ""}
	case "thinking":
		block = map[string]any{"type": "thinking", "thinking": ""}
	default:
		block = map[string]any{"type": blockType}
	}

	return Event{
		Type: "content_block_start",
		Data: map[string]any{
			"type":          "content_block_start",
			"index":         index,
			"content_block": block,
		},
	}
}

// ContentBlockDelta emits an incremental update to a content block.
// fieldName is omitted from the delta body entirely when empty, rather
// than writing an empty-string field.
func ContentBlockDelta(index int, text, deltaType, fieldName string) Event {
	delta := map[string]any{"type": deltaType}
	if fieldName != "" {
		delta[fieldName] = text
	}

	return Event{
		Type: "content_block_delta",
		Data: map[string]any{
			"type":  "content_block_delta",
			"index": index,
			"delta": delta,
		},
	}
}

// ContentBlockStop closes a content block.
func ContentBlockStop(index int) Event {
	return Event{
		Type: "content_block_stop",
		Data: map[string]any{"type": "content_block_stop", "index": index},
	}
}

// Ping is a keep-alive event with no payload of its own.
func Ping() Event {
	return Event{Type: "ping", Data: map[string]any{"type": "ping"}}
}

// MessageStop renders the two chained events that close a message: a
// message_delta carrying final usage/stop_reason, followed by
// message_stop. An empty stopReason defaults to "end_turn".
func MessageStop(outputTokens int, stopReason string) string {
	if stopReason == "" {
		stopReason = "end_turn"
	}

	delta := Event{
		Type: "message_delta",
		Data: map[string]any{
			"type":  "message_delta",
			"delta": map[string]any{"stop_reason": stopReason, "stop_sequence": nil},
			"usage": map[string]any{"output_tokens": outputTokens},
		},
	}
	stop := Event{Type: "message_stop", Data: map[string]any{"type": "message_stop"}}

	return delta.Format() + stop.Format()
}

// ToolUseStart opens a tool_use content block.
func ToolUseStart(index int, toolUseID, toolName string) Event {
	return Event{
		Type: "content_block_start",
		Data: map[string]any{
			"type":  "content_block_start",
			"index": index,
			"content_block": map[string]any{
				"type":  "tool_use",
				"id":    toolUseID,
				"name":  toolName,
				"input": map[string]any{},
			},
		},
	}
}

// ToolUseInputDelta emits one fragment of a tool call's streamed JSON
// arguments.
func ToolUseInputDelta(index int, partialJSON string) Event {
	return Event{
		Type: "content_block_delta",
		Data: map[string]any{
			"type":  "content_block_delta",
			"index": index,
			"delta": map[string]any{
				"type":         "input_json_delta",
				"partial_json": partialJSON,
			},
		},
	}
}
