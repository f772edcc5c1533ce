package ai

import "encoding/json"

// ChatRequest is a decoded proxy payload. Messages holds every entry of the
// client's array as {role, content}; role filtering happens in AssembleMessages.
type ChatRequest struct {
	Messages     []ChatMessage
	SystemPrompt string
}

// DecodeChatRequest checks that body is JSON with a messages array. Fields of
// the wrong type are treated as absent: a non-string systemPrompt is ignored
// and entries that are not objects keep an empty role.
func DecodeChatRequest(body []byte) (*ChatRequest, error) {
	if len(body) == 0 {
		return nil, ErrBodyMissing
	}
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, ErrMessagesRequired
	}
	list, ok := obj["messages"].([]interface{})
	if !ok {
		return nil, ErrMessagesRequired
	}

	req := &ChatRequest{Messages: make([]ChatMessage, 0, len(list))}
	if sp, ok := obj["systemPrompt"].(string); ok {
		req.SystemPrompt = sp
	}
	for _, item := range list {
		var m ChatMessage
		if entry, ok := item.(map[string]interface{}); ok {
			m.Role, _ = entry["role"].(string)
			m.Content, _ = entry["content"].(string)
		}
		req.Messages = append(req.Messages, m)
	}
	return req, nil
}

// AssembleMessages builds the upstream sequence: an optional leading system
// entry from systemPrompt, then the user and assistant entries in order.
// Client-supplied system entries never pass.
func AssembleMessages(systemPrompt string, history []ChatMessage) []ChatMessage {
	out := make([]ChatMessage, 0, len(history)+1)
	if systemPrompt != "" {
		out = append(out, ChatMessage{Role: RoleSystem, Content: systemPrompt})
	}
	for _, m := range history {
		if m.Role == RoleUser || m.Role == RoleAssistant {
			out = append(out, ChatMessage{Role: m.Role, Content: m.Content})
		}
	}
	return out
}

// HasConversation reports whether msgs holds anything besides system entries.
func HasConversation(msgs []ChatMessage) bool {
	for _, m := range msgs {
		if m.Role != RoleSystem {
			return true
		}
	}
	return false
}
