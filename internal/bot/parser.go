// Package bot — parser.go is the command grammar. Commands are matched
// against a fixed table, both for direct messages and for content
// relayed through another bot, so no handler ever does substring
// matching on raw text.
package bot

import "strings"

// commandTable is the closed set of known commands (without prefix).
var commandTable = map[string]struct{}{
	"start":        {},
	"help":         {},
	"streakon":     {},
	"streakbroken": {},
	"justdone":     {}, // alias for streakbroken
	"nightfall":    {},
	"leaderboard":  {},
	"countdown":    {},
	"rank":         {},
	"setup":        {},
	"testpost":     {},
	"login":        {},
}

// CommandParser recognizes commands with !, . or / prefixes.
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser creates the parser.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
	}
}

// ParseCommand splits a direct message into command and arguments.
// The message must start with a prefix and name a known command.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}
	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	// Telegram clients append @botname to commands in groups.
	if i := strings.Index(command, "@"); i > 0 {
		command = command[:i]
	}
	if _, known := commandTable[command]; !known {
		return "", nil, false
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}
	return command, args, true
}

// ScanForCommand tokenizes relayed content and returns the first token
// that is a prefixed known command. Relay bots wrap the command in
// their own text, so position within the message carries no meaning.
func (p *CommandParser) ScanForCommand(text string) (string, bool) {
	for _, token := range strings.Fields(text) {
		cmd, _, ok := p.ParseCommand(token)
		if ok {
			return cmd, true
		}
	}
	return "", false
}
