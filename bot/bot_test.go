package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tb "gopkg.in/tucnak/telebot.v2"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		command string
		params  []string
		ok      bool
	}{
		{name: "bare command", text: "/start", command: "start", ok: true},
		{name: "command with params", text: "/analytics last week", command: "analytics", params: []string{"last", "week"}, ok: true},
		{name: "group-addressed command", text: "/analytics@GatekeeperBot", command: "analytics", ok: true},
		{name: "plain text", text: "hello"},
		{name: "lone slash", text: "/"},
		{name: "slash with spaces", text: "/   "},
		{name: "empty", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, params, ok := ParseCommand(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.command, command)
			if tt.params == nil {
				assert.Empty(t, params)
			} else {
				assert.Equal(t, tt.params, params)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "alice", DisplayName(&tb.User{Username: "alice", FirstName: "Alice"}))
	assert.Equal(t, "Alice", DisplayName(&tb.User{FirstName: "Alice"}))
}

func TestRegisterCommands(t *testing.T) {
	called := false
	RegisterCommands("probe", func(b *Bot, m *tb.Message, params []string) { called = true })
	handler, ok := GlobalCommandMapper["probe"]
	assert.True(t, ok)
	handler(nil, nil, nil)
	assert.True(t, called)
}
