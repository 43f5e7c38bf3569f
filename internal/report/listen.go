package report

import "strings"

// ListenPrefix starts every recording playback command.
const ListenPrefix = "/listen_"

// ListenCommand encodes a call id as a playback command: "1623100000.123"
// becomes "/listen_1623100000_123".
func ListenCommand(callID string) string {
	return ListenPrefix + strings.ReplaceAll(callID, ".", "_")
}

// ParseListenCommand reverses ListenCommand by turning the first underscore
// of the token back into a dot.
func ParseListenCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, ListenPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(text, ListenPrefix)
	if token == "" || strings.ContainsAny(token, " \t\n/") {
		return "", false
	}
	return strings.Replace(token, "_", ".", 1), true
}
