package ai

import (
	"encoding/json"
	"strings"
)

// stripCodeFence removes a surrounding markdown code block (``` or ```json)
// that models like to wrap JSON answers in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decodeModelJSON(raw string, dst interface{}) error {
	return json.Unmarshal([]byte(stripCodeFence(raw)), dst)
}
