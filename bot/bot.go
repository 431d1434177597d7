package bot

import (
	"strings"
	"time"

	"github.com/meta-betties/gatekeeper/analytics"
	"github.com/meta-betties/gatekeeper/pkg/log"
	"github.com/meta-betties/gatekeeper/service"
	tb "gopkg.in/tucnak/telebot.v2"
)

// Bot adapts Telegram to the coordinator: it is both the join-event source
// and the service.Gateway the coordinator mutates the group through.
type Bot struct {
	Bot         *tb.Bot
	Coordinator *service.Coordinator
	Analytics   *analytics.Log
	GroupID     int64
}

type CommandHandler func(b *Bot, m *tb.Message, params []string)

var GlobalCommandMapper = make(map[string]CommandHandler)

func RegisterCommands(command string, f CommandHandler) {
	GlobalCommandMapper[command] = f
}

func New(token string, groupID int64, poller *tb.LongPoller) (*Bot, error) {
	if poller == nil {
		poller = &tb.LongPoller{Timeout: 15 * time.Second}
	}
	b, err := tb.NewBot(tb.Settings{
		Token:  token,
		Poller: poller,
	})
	if err != nil {
		return nil, err
	}
	bot := &Bot{
		Bot:     b,
		GroupID: groupID,
	}
	b.Handle(tb.OnUserJoined, bot.handleUserJoined)
	b.Handle(tb.OnText, bot.handleText)
	return bot, nil
}

// Run blocks on the long poller until the bot is stopped.
func (b *Bot) Run() {
	b.Bot.Start()
}

func (b *Bot) handleUserJoined(m *tb.Message) {
	joined := m.UsersJoined
	if len(joined) == 0 && m.UserJoined != nil {
		joined = []tb.User{*m.UserJoined}
	}
	for i := range joined {
		u := &joined[i]
		if u.IsBot {
			continue
		}
		b.Coordinator.OnMemberJoined(int64(u.ID), DisplayName(u))
	}
}

func (b *Bot) handleText(m *tb.Message) {
	command, params, ok := ParseCommand(m.Text)
	if !ok {
		return
	}
	if handler, ok := GlobalCommandMapper[command]; ok {
		handler(b, m, params)
	}
}

// ParseCommand splits a "/command[@botname] arg..." message. ok is false for
// anything that is not a command.
func ParseCommand(text string) (command string, params []string, ok bool) {
	if !strings.HasPrefix(text, "/") || len(text) <= 1 {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(text, "/"))
	if len(fields) == 0 {
		return "", nil, false
	}
	// commands in groups may be addressed as /cmd@BotName
	command = strings.SplitN(fields[0], "@", 2)[0]
	if command == "" {
		return "", nil, false
	}
	return command, fields[1:], true
}

// DisplayName is the best-effort human label of a user, never its identity.
func DisplayName(u *tb.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

func (b *Bot) group() *tb.Chat {
	return &tb.Chat{ID: b.GroupID}
}

// SendGroupMessage posts html to the gated group.
func (b *Bot) SendGroupMessage(html string) error {
	_, err := b.Bot.Send(b.group(), html, &tb.SendOptions{ParseMode: tb.ModeHTML})
	return err
}

// Ban removes the member from the gated group.
func (b *Bot) Ban(memberID int64) error {
	return b.Bot.Ban(b.group(), &tb.ChatMember{
		User:            &tb.User{ID: memberID},
		RestrictedUntil: tb.Forever(),
	})
}

// Unban lifts the ban record so the member can rejoin and verify again.
func (b *Bot) Unban(memberID int64) error {
	return b.Bot.Unban(b.group(), &tb.User{ID: memberID})
}

// IsAdmin reports whether user is a creator or administrator of chat.
func (b *Bot) IsAdmin(chat *tb.Chat, user *tb.User) bool {
	member, err := b.Bot.ChatMemberOf(chat, user)
	if err != nil {
		log.Warn("ChatMemberOf(%v, %v): %v", chat.ID, user.ID, err)
		return false
	}
	return member.Role == tb.Creator || member.Role == tb.Administrator
}

var _ service.Gateway = (*Bot)(nil)
