// Package presenter implements the single-message menu UX: at any time
// a chat has one live menu message that gets edited or replaced, plus
// ancillary messages (photos, map pins) that are swept away when the
// user returns to the menu.
package presenter

import (
	"context"
	"strconv"
	"time"

	"github.com/wasupalonely/appointments-chatbot/bot/session"
	"github.com/wasupalonely/appointments-chatbot/core/logger"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Transport is the subset of tele.Bot the presenter needs.
type Transport interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

// Presenter replaces, edits, and sweeps bot messages per chat.
type Presenter struct {
	tr       Transport
	sessions *session.Manager
}

func New(tr Transport, sessions *session.Manager) *Presenter {
	return &Presenter{tr: tr, sessions: sessions}
}

// Sessions exposes the underlying session manager.
func (p *Presenter) Sessions() *session.Manager {
	return p.sessions
}

func ref(chatID int64, messageID int) tele.Editable {
	return &tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
}

func sendArgs(markup *tele.ReplyMarkup) []interface{} {
	if markup != nil {
		return []interface{}{markup}
	}
	return nil
}

// Render shows text as the chat's menu message. Coming from a callback
// it edits the tapped message in place; otherwise it deletes the
// previous menu message and sends a fresh one. Delete failures are
// swallowed: the message may already be gone.
func (p *Presenter) Render(ctx context.Context, c tele.Context, chatID int64, text string, markup *tele.ReplyMarkup) error {
	var cbMsg *tele.Message
	if c != nil {
		if cb := c.Callback(); cb != nil {
			cbMsg = cb.Message
		}
	}

	last := p.sessions.Last(chatID)
	if last != 0 && (cbMsg == nil || cbMsg.ID != last) {
		if err := p.tr.Delete(ref(chatID, last)); err != nil {
			logger.Debug(ctx, "tg", "present.delete_previous",
				slog.Int("message_id", last),
				slog.String("err", err.Error()),
			)
		}
	}

	if cbMsg != nil {
		edited, err := p.tr.Edit(cbMsg, text, sendArgs(markup)...)
		if err == nil {
			p.sessions.SetLast(chatID, edited.ID)
			return nil
		}
		logger.Warn(ctx, "tg", "present.edit_failed",
			slog.Int("message_id", cbMsg.ID),
			slog.String("err", err.Error()),
		)
		// The tapped message could not be edited, drop it and fall
		// through to a fresh send.
		if delErr := p.tr.Delete(cbMsg); delErr != nil {
			logger.Debug(ctx, "tg", "present.delete_stale",
				slog.Int("message_id", cbMsg.ID),
				slog.String("err", delErr.Error()),
			)
		}
	}

	msg, err := p.tr.Send(chat(chatID), text, sendArgs(markup)...)
	if err != nil {
		logger.Error(ctx, "tg", "present.send_failed",
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
		// Last resort: retry with the same text and keyboard so the
		// user keeps their navigation buttons.
		msg, err = p.tr.Send(chat(chatID), text, sendArgs(markup)...)
		if err != nil {
			return err
		}
	}
	p.sessions.SetLast(chatID, msg.ID)
	return nil
}

// Push sends a new menu message without touching the previous one.
// Used when the old message should stay visible, e.g. a thank-you note
// followed by the menu.
func (p *Presenter) Push(ctx context.Context, chatID int64, text string, markup *tele.ReplyMarkup) error {
	msg, err := p.tr.Send(chat(chatID), text, sendArgs(markup)...)
	if err != nil {
		logger.Error(ctx, "tg", "present.push_failed",
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
		return err
	}
	p.sessions.SetLast(chatID, msg.ID)
	return nil
}

// SendTracked sends an ancillary payload (photo, location, caption) and
// records it for later sweeping. Send failures are logged, not fatal.
func (p *Presenter) SendTracked(ctx context.Context, chatID int64, what interface{}, opts ...interface{}) *tele.Message {
	msg, err := p.tr.Send(chat(chatID), what, opts...)
	if err != nil {
		logger.Warn(ctx, "tg", "present.tracked_failed",
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
		return nil
	}
	p.sessions.Track(chatID, msg.ID)
	return msg
}

// Notify sends an untracked one-off message, e.g. an unknown-command notice.
func (p *Presenter) Notify(ctx context.Context, chatID int64, text string) error {
	_, err := p.tr.Send(chat(chatID), text)
	if err != nil {
		logger.Warn(ctx, "tg", "present.notify_failed",
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
	}
	return err
}

// FlushAncillary deletes every tracked ancillary message for the chat.
// The list is cleared even when individual deletes fail.
func (p *Presenter) FlushAncillary(ctx context.Context, chatID int64) {
	ids := p.sessions.DrainAncillary(chatID)
	for _, id := range ids {
		if err := p.tr.Delete(ref(chatID, id)); err != nil {
			logger.Debug(ctx, "tg", "present.flush",
				slog.Int("message_id", id),
				slog.String("err", err.Error()),
			)
		}
	}
	if len(ids) > 0 {
		logger.Debug(ctx, "tg", "present.flush",
			slog.Int64("chat_id", chatID),
			slog.Int("count", len(ids)),
		)
	}
}

// RunSweeper periodically clears leftover ancillary messages in every
// chat. It blocks until ctx is done.
func (p *Presenter) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, chatID := range p.sessions.Chats() {
				p.FlushAncillary(ctx, chatID)
			}
		}
	}
}

type chat int64

func (c chat) Recipient() string {
	return strconv.FormatInt(int64(c), 10)
}
