// Package admin — handlers.go handles the /login command. The bot only
// routes it here for private chats; a password never belongs in the
// group.
package admin

import (
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"streakbot/internal/common"
)

// Handler handles admin authentication commands.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler creates an admin command handler.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleLogin handles "/login <password>" in a DM.
func (h *Handler) HandleLogin(chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "Usage: /login <password>")
		return
	}

	err := h.service.Login(userID, strings.Join(args, " "))
	switch {
	case err == nil:
		h.sendMessage(chatID, "✅ Logged in. Admin commands are available for 24 hours.")
	case errors.Is(err, common.ErrTooManyAttempts):
		h.sendMessage(chatID, "❌ Too many attempts. Wait an hour and try again.")
	case errors.Is(err, common.ErrWrongPassword):
		h.sendMessage(chatID, "❌ Wrong password.")
	default:
		h.sendMessage(chatID, "❌ Password login is not enabled on this bot.")
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("failed to send message")
	}
}
