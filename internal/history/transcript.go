package history

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// speakerPattern matches "User: text", "**Assistant:** text" and the system variants
var speakerPattern = regexp.MustCompile(`^(?:\*\*)?(?i:(user|assistant|system)):(?:\*\*)?\s*(.*)$`)

// ParseTranscript decodes a JSON message array, falling back to the
// plain "User:" / "Assistant:" text format
func ParseTranscript(content []byte) ([]ChatMessage, error) {
	trimmed := strings.TrimSpace(string(content))
	if strings.HasPrefix(trimmed, "[") {
		return ParseJSONTranscript(content)
	}
	return ParseTextTranscript(trimmed)
}

// ParseJSONTranscript parses a JSON array of messages
func ParseJSONTranscript(content []byte) ([]ChatMessage, error) {
	var msgs []ChatMessage
	if err := json.Unmarshal(content, &msgs); err != nil {
		return nil, err
	}

	for i, msg := range msgs {
		if !msg.Role.Valid() {
			return nil, fmt.Errorf("invalid role '%s' in message %d", msg.Role, i)
		}
		if strings.TrimSpace(msg.Content) == "" {
			return nil, fmt.Errorf("empty message content in message %d", i)
		}
	}
	return msgs, nil
}

// ParseTextTranscript parses "Speaker: text" blocks; continuation lines
// belong to the previous speaker and leading unlabelled lines are ignored
func ParseTextTranscript(content string) ([]ChatMessage, error) {
	var msgs []ChatMessage
	var role Role
	var body []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if role != "" && text != "" {
			msgs = append(msgs, ChatMessage{Role: role, Content: text})
		}
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if match := speakerPattern.FindStringSubmatch(line); match != nil {
			flush()
			role = Role(strings.ToLower(match[1]))
			body = []string{match[2]}
			continue
		}
		if role != "" {
			body = append(body, line)
		}
	}
	flush()

	if len(msgs) == 0 {
		return nil, fmt.Errorf("no conversation messages found")
	}
	return msgs, nil
}

// FormatTranscript renders messages in the text format ParseTextTranscript reads
func FormatTranscript(msgs []ChatMessage) string {
	var sb strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(speakerLabel(msg.Role))
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
	}
	return sb.String()
}

func speakerLabel(role Role) string {
	switch role {
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return "User"
	}
}

// IsTranscriptFile checks if a file might be a transcript based on extension
func IsTranscriptFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".conversation", ".chat", ".history", ".txt", ".md":
		return true
	}
	return false
}
