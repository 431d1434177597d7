package command_handler

import (
	"github.com/meta-betties/gatekeeper/bot"
	tb "gopkg.in/tucnak/telebot.v2"
)

func init() {
	bot.RegisterCommands("start", Start)
}

func Start(b *bot.Bot, m *tb.Message, params []string) {
	b.Bot.Reply(m, "✅ Bot is active!", tb.Silent, tb.NoPreview)
}
