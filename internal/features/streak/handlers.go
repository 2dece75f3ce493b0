// Package streak — handlers.go turns command invocations into chat
// replies. All store errors are caught here; the user sees either a
// result, a warning, or a retry hint.
package streak

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"streakbot/internal/common"
	"streakbot/internal/config"
	"streakbot/internal/features/members"
)

// Handler handles streak commands.
type Handler struct {
	service       *Service
	memberService *members.Service
	bot           *tgbotapi.BotAPI
	cfg           *config.Config
}

// NewHandler creates a streak command handler.
func NewHandler(service *Service, memberService *members.Service, bot *tgbotapi.BotAPI, cfg *config.Config) *Handler {
	return &Handler{service: service, memberService: memberService, bot: bot, cfg: cfg}
}

// HandleCheckIn handles the !streakon command.
//
// Accepted reply:
//
//	✅ Streak updated! Current streak: 5 days 💪
//	🏅 Rank: E-Rank
//	🟩🟩🟩🟩🟩⬛⬛ (oldest day first)
func (h *Handler) HandleCheckIn(ctx context.Context, chatID int64, userID string) {
	rec, err := h.service.CheckIn(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyCheckedIn):
			h.sendMessage(chatID, "⚠️ You've already checked in today. Try again tomorrow!")
		case errors.Is(err, common.ErrWindowNotOpen):
			h.sendMessage(chatID, fmt.Sprintf(
				"⏳ The check-in window opens at %02d:00. Time left: %s",
				h.cfg.CheckinHour, common.FormatCountdown(h.service.Countdown()),
			))
		default:
			log.WithError(err).Error("check-in failed")
			h.sendMessage(chatID, "❌ Storage is unavailable right now, please try again in a minute.")
		}
		return
	}

	history := h.service.Engine().RenderHistory(rec.LastUpdated, rec)
	h.sendMessage(chatID, fmt.Sprintf(
		"✅ Streak updated! Current streak: %s 💪\n🏅 Rank: %s\n%s",
		common.FormatStreak(rec.Streak), Classify(rec.Streak), history,
	))
}

// HandleReset handles the !streakbroken command. Always succeeds.
func (h *Handler) HandleReset(ctx context.Context, chatID int64, userID string) {
	if _, err := h.service.Reset(ctx, userID); err != nil {
		log.WithError(err).Error("reset failed")
		h.sendMessage(chatID, "❌ Storage is unavailable right now, please try again in a minute.")
		return
	}
	h.sendMessage(chatID, "❌ Your streak has been reset to 0. Let's restart 🔁")
}

// HandleNightfall handles the !nightfall command — acknowledges without
// touching the streak.
func (h *Handler) HandleNightfall(ctx context.Context, chatID int64, userID string) {
	streak, err := h.service.GetStreak(ctx, userID)
	if err != nil {
		log.WithError(err).Error("streak lookup failed")
		h.sendMessage(chatID, "❌ Storage is unavailable right now, please try again in a minute.")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf(
		"🌙 It is fine, don't feel guilty. It is a natural process. No loss.\n🔥 Your streak remains: %s",
		common.FormatStreak(streak),
	))
}

// HandleLeaderboard handles the !leaderboard command: top 10 by streak
// descending, names resolved through the member registry with an
// id-label fallback.
func (h *Handler) HandleLeaderboard(ctx context.Context, chatID int64) {
	records, err := h.service.Leaderboard(ctx)
	if err != nil {
		log.WithError(err).Error("leaderboard failed")
		h.sendMessage(chatID, "❌ Storage is unavailable right now, please try again in a minute.")
		return
	}
	if len(records) == 0 {
		h.sendMessage(chatID, "No data found in leaderboard.")
		return
	}

	text := "🏆 Check-in Leaderboard 🏆\n\n"
	for i, rec := range records {
		name := h.memberService.DisplayName(ctx, rec.UserID)
		text += fmt.Sprintf("#%d — %s — %s (%s)\n",
			i+1, name, common.FormatStreak(rec.Streak), Classify(rec.Streak))
	}
	h.sendMessage(chatID, text)
}

// HandleCountdown handles the !countdown command.
func (h *Handler) HandleCountdown(ctx context.Context, chatID int64) {
	h.sendMessage(chatID, fmt.Sprintf(
		"⏰ Next check-in window in %s",
		common.FormatCountdown(h.service.Countdown()),
	))
}

// HandleRank handles the !rank command — current streak, title and
// the 7-day history strip.
func (h *Handler) HandleRank(ctx context.Context, chatID int64, userID string) {
	streak, err := h.service.GetStreak(ctx, userID)
	if err != nil {
		log.WithError(err).Error("streak lookup failed")
		h.sendMessage(chatID, "❌ Storage is unavailable right now, please try again in a minute.")
		return
	}
	history, err := h.service.History(ctx, userID)
	if err != nil {
		log.WithError(err).Error("history render failed")
		h.sendMessage(chatID, "❌ Storage is unavailable right now, please try again in a minute.")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf(
		"🏅 Rank: %s (streak %s)\n%s",
		Classify(streak), common.FormatStreak(streak), history,
	))
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("failed to send message")
	}
}
