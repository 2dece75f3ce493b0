// Package bot runs the Telegram update loop and routes commands to the
// feature handlers. It knows nothing about streak semantics — it hands
// a user id and "now" to the services and sends back whatever they say.
package bot

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"streakbot/internal/bot/filters"
	"streakbot/internal/bot/middleware"
	"streakbot/internal/config"
	"streakbot/internal/features/admin"
	"streakbot/internal/features/broadcast"
	"streakbot/internal/features/members"
	"streakbot/internal/features/streak"
)

// Bot ties the update loop to the feature handlers.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	rateLimiter *middleware.RateLimiter
	relayFilter *filters.RelayFilter

	memberService *members.Service
	adminService  *admin.Service

	streakHandler    *streak.Handler
	broadcastHandler *broadcast.Handler
	adminHandler     *admin.Handler

	parser *CommandParser

	// caps the number of updates processed in parallel
	inflight chan struct{}
}

// New creates the bot with all its dependencies.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	memberService *members.Service,
	adminService *admin.Service,
	streakHandler *streak.Handler,
	broadcastHandler *broadcast.Handler,
	adminHandler *admin.Handler,
	relayFilter *filters.RelayFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:              api,
		cfg:              cfg,
		rateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		relayFilter:      relayFilter,
		memberService:    memberService,
		adminService:     adminService,
		streakHandler:    streakHandler,
		broadcastHandler: broadcastHandler,
		adminHandler:     adminHandler,
		parser:           NewCommandParser(),
		inflight:         make(chan struct{}, maxInFlight),
	}
}

// Start runs the long-polling loop until the context is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Bot is running and waiting for messages...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Bot stopping (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Updates channel closed, bot stopped")
				return
			}

			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate processes a single Telegram update.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	if update.Message == nil || update.Message.Text == "" {
		return
	}
	message := update.Message
	if message.From == nil || message.Chat == nil {
		return
	}

	middleware.LogMessage(message)

	// Relayed traffic is trusted and credited to the mentioned user,
	// so it bypasses rate limiting and member registration.
	if b.relayFilter.IsRelay(message) {
		b.handleRelay(ctx, message)
		return
	}

	if message.From.IsBot {
		return
	}

	userID := message.From.ID
	chatID := message.Chat.ID

	if !b.rateLimiter.Allow(userID) {
		log.WithField("user_id", userID).Debug("rate limited")
		return
	}

	// Keep the registry fresh; the leaderboard needs the names. Errors
	// must not block command handling.
	if err := b.memberService.EnsureMember(ctx, userID,
		message.From.UserName, message.From.FirstName, message.From.LastName,
	); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("EnsureMember failed")
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}

	b.routeCommand(ctx, chatID, userID, message.Chat.IsPrivate(), cmd, args)
}

// routeCommand dispatches a parsed command to its handler.
func (b *Bot) routeCommand(ctx context.Context, chatID, userID int64, isPrivate bool, cmd string, args []string) {
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	userKey := strconv.FormatInt(userID, 10)

	switch cmd {
	case "start", "help":
		b.sendMessage(chatID,
			"Commands: !streakon (check in), !streakbroken (reset), !nightfall, "+
				"!leaderboard, !countdown, !rank. Admins: !setup @tag, !testpost, /login (DM).")

	case "streakon":
		b.streakHandler.HandleCheckIn(ctx, chatID, userKey)

	case "streakbroken", "justdone":
		b.streakHandler.HandleReset(ctx, chatID, userKey)

	case "nightfall":
		b.streakHandler.HandleNightfall(ctx, chatID, userKey)

	case "leaderboard":
		b.streakHandler.HandleLeaderboard(ctx, chatID)

	case "countdown":
		b.streakHandler.HandleCountdown(ctx, chatID)

	case "rank":
		b.streakHandler.HandleRank(ctx, chatID, userKey)

	case "login":
		// password commands are DM-only
		if isPrivate {
			b.adminHandler.HandleLogin(chatID, userID, args)
		}

	case "setup":
		if !b.adminService.IsAuthorized(userID) {
			b.sendMessage(chatID, "❌ Administrator rights required.")
			return
		}
		b.broadcastHandler.HandleSetup(ctx, chatID, args)

	case "testpost":
		if !b.adminService.IsAuthorized(userID) {
			b.sendMessage(chatID, "❌ Administrator rights required.")
			return
		}
		b.broadcastHandler.HandleTestPost(ctx, chatID)
	}
}

// handleRelay processes a message from the relay bot: scan the content
// for a known command and credit it to the first mentioned user.
func (b *Bot) handleRelay(ctx context.Context, message *tgbotapi.Message) {
	cmd, ok := b.parser.ScanForCommand(message.Text)
	if !ok {
		return
	}

	target, ok := b.relayFilter.TargetUser(ctx, message)
	if !ok {
		log.WithField("cmd", cmd).Debug("relayed command without a creditable mention, dropped")
		return
	}

	chatID := message.Chat.ID
	userKey := strconv.FormatInt(target, 10)

	switch cmd {
	case "streakon":
		b.streakHandler.HandleCheckIn(ctx, chatID, userKey)
	case "streakbroken", "justdone":
		b.streakHandler.HandleReset(ctx, chatID, userKey)
	case "nightfall":
		b.streakHandler.HandleNightfall(ctx, chatID, userKey)
	case "leaderboard":
		b.streakHandler.HandleLeaderboard(ctx, chatID)
	}
}

// sendMessage is the send utility for the bot's own replies.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("failed to send message")
	}
}
