// Package filters inspects incoming messages before routing.
// relay.go recognizes messages from a trusted relay bot and extracts
// the user the relayed command is credited to.
package filters

import (
	"context"
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"streakbot/internal/features/members"
)

// RelayFilter matches messages coming from the configured relay bot.
type RelayFilter struct {
	relayBotID    int64
	memberService *members.Service
}

// NewRelayFilter creates the filter. relayBotID 0 disables relaying.
func NewRelayFilter(relayBotID int64, memberService *members.Service) *RelayFilter {
	return &RelayFilter{relayBotID: relayBotID, memberService: memberService}
}

// IsRelay reports whether the message comes from the relay bot.
func (f *RelayFilter) IsRelay(message *tgbotapi.Message) bool {
	return f.relayBotID != 0 && message.From != nil && message.From.ID == f.relayBotID
}

// TargetUser extracts the first mentioned user from a relayed message.
// text_mention entities carry the user directly; plain @mentions are
// resolved through the member registry. No mention means the relayed
// command cannot be credited and is dropped.
func (f *RelayFilter) TargetUser(ctx context.Context, message *tgbotapi.Message) (int64, bool) {
	for _, entity := range message.Entities {
		switch entity.Type {
		case "text_mention":
			if entity.User != nil {
				return entity.User.ID, true
			}
		case "mention":
			username := strings.TrimPrefix(entityText(message.Text, entity), "@")
			if username == "" {
				continue
			}
			m, err := f.memberService.GetByUsername(ctx, username)
			if err != nil {
				log.WithField("username", username).WithError(err).Debug("relay mention not resolvable")
				continue
			}
			return m.UserID, true
		}
	}
	return 0, false
}

// entityText cuts the entity out of the message text. Telegram entity
// offsets count UTF-16 code units, not bytes and not runes.
func entityText(text string, entity tgbotapi.MessageEntity) string {
	encoded := utf16.Encode([]rune(text))
	if entity.Offset < 0 || entity.Offset+entity.Length > len(encoded) {
		return ""
	}
	return string(utf16.Decode(encoded[entity.Offset : entity.Offset+entity.Length]))
}
