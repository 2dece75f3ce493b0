// Package broadcast — handlers.go handles the admin-facing commands
// !setup and !testpost.
package broadcast

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"streakbot/internal/common"
)

// Handler handles broadcast configuration commands.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler creates a broadcast command handler.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleSetup handles "!setup <@tag>", run inside the chat that should
// receive the daily posts. The current chat becomes the destination.
func (h *Handler) HandleSetup(ctx context.Context, chatID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ No ping tag mentioned. Usage: !setup @yourtag")
		return
	}

	if err := h.service.Setup(ctx, chatID, args[0]); err != nil {
		if errors.Is(err, common.ErrMalformedMention) {
			h.sendMessage(chatID, "❌ That doesn't look like a mention. Usage: !setup @yourtag")
			return
		}
		log.WithError(err).Error("setup failed")
		h.sendMessage(chatID, "❌ Storage is unavailable right now, please try again in a minute.")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf(
		"✅ Setup complete. Daily posts will go to this chat and ping %s.", h.lastTag(ctx),
	))
}

// HandleTestPost handles "!testpost" — fires the daily post once, now.
// Unlike the scheduler, a missing config is reported to the admin.
func (h *Handler) HandleTestPost(ctx context.Context, chatID int64) {
	if err := h.service.SendTestPost(ctx); err != nil {
		if errors.Is(err, common.ErrConfigMissing) {
			h.sendMessage(chatID, "❌ No server config set. Run !setup in the destination chat first.")
			return
		}
		log.WithError(err).Error("test post failed")
		h.sendMessage(chatID, "❌ Could not send the test post, please try again in a minute.")
	}
}

// lastTag re-reads the stored tag for the confirmation message.
func (h *Handler) lastTag(ctx context.Context) string {
	cfg, err := h.service.store.Get(ctx)
	if err != nil {
		return "the configured tag"
	}
	return cfg.PingTag
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("failed to send message")
	}
}
