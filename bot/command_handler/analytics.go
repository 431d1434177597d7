package command_handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/meta-betties/gatekeeper/bot"
	"github.com/meta-betties/gatekeeper/pkg/log"
	tb "gopkg.in/tucnak/telebot.v2"
)

const recentEntries = 10

func init() {
	bot.RegisterCommands("analytics", Analytics)
}

// Analytics replies with verification totals and the recent activity of the
// group. Group admins only.
func Analytics(b *bot.Bot, m *tb.Message, params []string) {
	if !b.IsAdmin(m.Chat, m.Sender) {
		b.Bot.Reply(m, "❌ Only group admins can use this command.", tb.Silent, tb.NoPreview)
		return
	}
	summary, err := b.Analytics.Summarize(recentEntries)
	if err != nil {
		log.Warn("Analytics: %v", err)
		b.Bot.Reply(m, fmt.Sprintf("Error reading analytics: %v", err), tb.Silent, tb.NoPreview)
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Group Analytics:\nTotal verified: %d\nTotal removed: %d\n\nRecent activity:\n",
		summary.TotalVerified, summary.TotalRemoved)
	for _, e := range summary.Recent {
		t := time.Unix(int64(e.Timestamp), 0).Format("2006-01-02 15:04")
		fmt.Fprintf(&sb, "@%s - %s (%s)\n", e.Username, e.Status, t)
	}
	b.Bot.Reply(m, sb.String(), tb.Silent, tb.NoPreview)
}
