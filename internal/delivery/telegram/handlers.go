package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NasaVasa/pricebot/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handlers struct {
	userUC    *usecase.UserUsecase
	alertUC   *usecase.AlertUsecase
	quoteUC   *usecase.QuoteUsecase
	watchlist *usecase.WatchlistCache
	logger    *zap.Logger
	now       func() time.Time
}

func NewHandlers(userUC *usecase.UserUsecase, alertUC *usecase.AlertUsecase, quoteUC *usecase.QuoteUsecase, watchlist *usecase.WatchlistCache, logger *zap.Logger) *Handlers {
	return &Handlers{userUC: userUC, alertUC: alertUC, quoteUC: quoteUC, watchlist: watchlist, logger: logger, now: time.Now}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api Sender, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.From == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, api, update)
		return
	}
}

func (h *Handlers) handleCommand(ctx context.Context, api Sender, update tgbotapi.Update) {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	username := update.Message.From.UserName

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.Int64("telegram_user_id", userID),
		zap.String("username", username),
		zap.String("command", command),
		zap.String("args", args),
	)

	switch command {
	case "start":
		_, err := h.userUC.StartOrGetUser(ctx, userID, username)
		if err != nil {
			h.logger.Warn("start command failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(api, chatID, "Failed to register. Please try again.")
			return
		}
		h.logger.Info("start command complete", zap.Int64("telegram_user_id", userID))
		h.reply(api, chatID, "Welcome to Pricebot.\n\n"+HelpText)
	case "help":
		h.reply(api, chatID, HelpText)
	case "alert":
		symbol, condition, target, err := ParseAlertArgs(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /alert <SYMBOL> <above|below|crosses_above|crosses_below> <target>")
			return
		}
		alert, err := h.alertUC.AddAlert(ctx, userID, symbol, condition, target)
		if err != nil {
			h.logger.Warn("alert create failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.logger.Info("alert created", zap.Int64("telegram_user_id", userID), zap.Uint("alert_id", alert.ID), zap.String("symbol", alert.Symbol))
		h.reply(api, chatID, fmt.Sprintf("Alert created: #%d %s %s %s", alert.ID, alert.Symbol, alert.Condition, alert.TargetValue.String()))
	case "alerts":
		alerts, err := h.alertUC.ListAlerts(ctx, userID)
		if err != nil {
			h.logger.Warn("alerts list failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		if len(alerts) == 0 {
			h.reply(api, chatID, "No alerts yet. Use /alert to create one.")
			return
		}
		h.reply(api, chatID, formatAlertList(alerts))
	case "enable", "disable", "delalert", "delete":
		h.handleAlertChange(ctx, api, chatID, userID, command, args)
	case "price":
		symbol, err := ParseSymbol(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /price <SYMBOL>")
			return
		}
		quote, err := h.quoteUC.GetQuote(ctx, symbol)
		if err != nil {
			h.logger.Warn("price lookup failed", zap.Int64("telegram_user_id", userID), zap.String("symbol", symbol), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.replyMarkdown(api, chatID, formatQuote(quote))
	case "watch":
		symbol, label, err := ParseWatchArgs(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /watch <SYMBOL> [label]")
			return
		}
		item, err := h.watchlist.Add(ctx, userID, symbol, label)
		if err != nil {
			h.logger.Warn("watch failed", zap.Int64("telegram_user_id", userID), zap.String("symbol", symbol), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.logger.Info("watch complete", zap.Int64("telegram_user_id", userID), zap.String("symbol", item.Symbol))
		h.reply(api, chatID, fmt.Sprintf("%s %s added to your watchlist.", item.MarketType.Icon(), item.Symbol))
	case "unwatch":
		symbol, err := ParseSymbol(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /unwatch <SYMBOL>")
			return
		}
		removed, err := h.watchlist.Remove(ctx, userID, symbol)
		if err != nil {
			h.logger.Warn("unwatch failed", zap.Int64("telegram_user_id", userID), zap.String("symbol", symbol), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		if !removed {
			h.reply(api, chatID, "That symbol is not in your watchlist.")
			return
		}
		h.reply(api, chatID, "Removed from your watchlist.")
	case "watchlist":
		items, err := h.watchlist.Get(ctx, userID, true)
		if err != nil {
			h.logger.Warn("watchlist failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.replyMarkdown(api, chatID, formatWatchlist(items, h.now()))
	case "watchalert":
		symbol, above, below, err := ParseWatchAlertArgs(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /watchalert <SYMBOL> <above|-> <below|->")
			return
		}
		if err := h.watchlist.SetAlert(ctx, userID, symbol, above, below); err != nil {
			h.logger.Warn("watchalert failed", zap.Int64("telegram_user_id", userID), zap.String("symbol", symbol), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, "Watchlist thresholds updated.")
	default:
		h.logger.Warn("unknown command", zap.Int64("telegram_user_id", userID), zap.String("command", command))
		h.reply(api, chatID, "Unknown command.\n\n"+HelpText)
	}
}

func (h *Handlers) handleAlertChange(ctx context.Context, api Sender, chatID, userID int64, command, args string) {
	alertID, err := ParseAlertID(args)
	if err != nil {
		h.reply(api, chatID, fmt.Sprintf("Usage: /%s <alert_id>", command))
		return
	}

	var verb string
	switch command {
	case "enable":
		verb = "enabled"
		err = h.alertUC.EnableAlert(ctx, userID, alertID)
	case "disable":
		verb = "disabled"
		err = h.alertUC.DisableAlert(ctx, userID, alertID)
	default:
		verb = "deleted"
		err = h.alertUC.DeleteAlert(ctx, userID, alertID)
	}
	if err != nil {
		h.logger.Warn(command+" failed", zap.Int64("telegram_user_id", userID), zap.Uint("alert_id", alertID), zap.Error(err))
		h.reply(api, chatID, h.errorMessage(err))
		return
	}
	h.logger.Info(command+" complete", zap.Int64("telegram_user_id", userID), zap.Uint("alert_id", alertID))
	h.reply(api, chatID, fmt.Sprintf("Alert #%d %s.", alertID, verb))
}

func (h *Handlers) errorMessage(err error) string {
	var capacity *usecase.CapacityError
	switch {
	case errors.As(err, &capacity):
		return fmt.Sprintf("Your watchlist is full (%d/%d). Remove a symbol with /unwatch first.", capacity.Count, capacity.Limit)
	case errors.Is(err, usecase.ErrUserNotRegistered):
		return "Please /start to register first."
	case errors.Is(err, usecase.ErrInvalidSymbol):
		return "Invalid symbol. Use a ticker like BTC, AAPL or EURUSD."
	case errors.Is(err, usecase.ErrInvalidCondition):
		return "Invalid condition. Use above, below, crosses_above or crosses_below."
	case errors.Is(err, usecase.ErrInvalidTarget):
		return "Invalid target. Use a positive number like 65000 or 1.085."
	case errors.Is(err, usecase.ErrAlertNotFound):
		return "Alert not found."
	case errors.Is(err, usecase.ErrQuoteUnavailable):
		return "Price unavailable right now. Check the symbol or try again later."
	case errors.Is(err, usecase.ErrNotInWatchlist):
		return "That symbol is not in your watchlist. Add it with /watch first."
	}

	h.logger.Warn("unhandled error", zap.Error(err))
	return "Something went wrong. Please try again."
}

func (h *Handlers) reply(api Sender, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}

func (h *Handlers) replyMarkdown(api Sender, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}
