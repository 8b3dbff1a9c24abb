package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramNotifier posts booking lifecycle events to an operations chat.
type TelegramNotifier struct {
	sender domain.TelegramSender
	chatID int64
	logger zerolog.Logger
}

// NewTelegramBot connects to the Bot API with a bounded HTTP timeout.
func NewTelegramBot(cfg config.TelegramConfig) (*tgbotapi.BotAPI, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	bot.Debug = cfg.Debug
	return bot, nil
}

func NewTelegramNotifier(sender domain.TelegramSender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	n := &TelegramNotifier{sender: sender, chatID: chatID, logger: zerolog.Nop()}
	if logger != nil {
		n.logger = logger.With().Str("component", "telegram").Logger()
	}
	return n
}

// Attach subscribes the notifier to booking events.
func (n *TelegramNotifier) Attach(bus events.Subscriber) {
	for _, eventType := range []string{events.EventBookingCreated, events.EventBookingApproved, events.EventBookingRejected} {
		bus.Subscribe(eventType, n.Handle)
	}
}

// Handle formats the event and sends it to the chat.
func (n *TelegramNotifier) Handle(event *events.Event) error {
	var p events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.Type, err)
	}

	msg := tgbotapi.NewMessage(n.chatID, formatBooking(event.Type, p))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	n.logger.Debug().Str("event_type", event.Type).Int64("booking_id", p.BookingID).Msg("booking notification sent")
	return nil
}

func formatBooking(eventType string, p events.BookingEventPayload) string {
	var title string
	switch eventType {
	case events.EventBookingCreated:
		title = "New booking"
	case events.EventBookingApproved:
		title = "Booking approved"
	case events.EventBookingRejected:
		title = "Booking rejected"
	default:
		title = "Booking updated"
	}

	item := p.ItemName
	if item == "" {
		item = fmt.Sprintf("item #%d", p.ItemID)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b> #%d\n", title, p.BookingID)
	fmt.Fprintf(&sb, "Item: %s\n", tgbotapi.EscapeText(tgbotapi.ModeHTML, item))
	fmt.Fprintf(&sb, "Booker: #%d, owner: #%d\n", p.BookerID, p.OwnerID)
	fmt.Fprintf(&sb, "%s - %s\n", p.Start.UTC().Format("2006-01-02 15:04"), p.End.UTC().Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "Status: %s", p.Status)
	return sb.String()
}
