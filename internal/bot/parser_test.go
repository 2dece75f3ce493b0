package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	p := NewCommandParser()

	tests := []struct {
		name     string
		text     string
		wantCmd  string
		wantArgs []string
		wantOK   bool
	}{
		{"bang prefix", "!streakon", "streakon", nil, true},
		{"dot prefix", ".nightfall", "nightfall", nil, true},
		{"slash prefix", "/leaderboard", "leaderboard", nil, true},
		{"uppercase normalized", "!STREAKON", "streakon", nil, true},
		{"args preserved", "!setup @streaks extra", "setup", []string{"@streaks", "extra"}, true},
		{"botname suffix stripped", "/streakon@streak_bot", "streakon", nil, true},
		{"surrounding whitespace", "  !countdown  ", "countdown", nil, true},
		{"no prefix", "streakon", "", nil, false},
		{"unknown command", "!gamble", "", nil, false},
		{"prefix only", "!", "", nil, false},
		{"empty", "", "", nil, false},
		{"plain chat", "had a rough day", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, ok := p.ParseCommand(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestScanForCommand(t *testing.T) {
	p := NewCommandParser()

	tests := []struct {
		name    string
		text    string
		wantCmd string
		wantOK  bool
	}{
		{"command mid-sentence", "relaying for @bob: !streakon sent at 21:03", "streakon", true},
		{"first known command wins", "!gamble then !nightfall then !streakon", "nightfall", true},
		{"bare word is not a command", "time to streakon everyone", "", false},
		{"no command at all", "good evening", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := p.ScanForCommand(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCmd, cmd)
		})
	}
}
