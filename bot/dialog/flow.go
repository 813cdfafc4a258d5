// Package dialog implements the conversation engine: a fixed dialog
// graph over the clinic's menu tree, with durable checkpoints so a
// returning user can pick up where they left off.
package dialog

import (
	"context"

	"github.com/wasupalonely/appointments-chatbot/bot/photos"
	"github.com/wasupalonely/appointments-chatbot/bot/presenter"
	"github.com/wasupalonely/appointments-chatbot/bot/storage"
	"github.com/wasupalonely/appointments-chatbot/bot/texts"
	"github.com/wasupalonely/appointments-chatbot/core/logger"
	tghelpers "github.com/wasupalonely/appointments-chatbot/core/telegram/helpers"
	"github.com/wasupalonely/appointments-chatbot/core/telegram/keyboard"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Flow wires the conversation engine to its collaborators.
type Flow struct {
	store   storage.Store
	pres    *presenter.Presenter
	gallery *photos.Gallery
	states  *Tracker
}

func NewFlow(store storage.Store, pres *presenter.Presenter, gallery *photos.Gallery) *Flow {
	return &Flow{
		store:   store,
		pres:    pres,
		gallery: gallery,
		states:  NewTracker(),
	}
}

// States exposes the in-memory tracker, used by the text router.
func (f *Flow) States() *Tracker {
	return f.states
}

// InProgress implements the router.Dialog interface.
func (f *Flow) InProgress(userID int64) bool {
	return f.states.InProgress(userID)
}

func ids(c tele.Context) (userID, chatID int64) {
	if s := c.Sender(); s != nil {
		userID = s.ID
	}
	if ch := c.Chat(); ch != nil {
		chatID = ch.ID
	}
	return userID, chatID
}

func (f *Flow) profile(ctx context.Context, userID int64) storage.Profile {
	p, err := f.store.Profile(ctx, userID)
	if err != nil {
		logger.Dialog.Warn("profile load failed",
			slog.String("event", "dialog.profile"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return storage.Profile{ID: userID}
	}
	return p
}

func (f *Flow) patchProfile(ctx context.Context, userID int64, patch storage.ProfilePatch) storage.Profile {
	p, err := f.store.UpdateProfile(ctx, userID, patch)
	if err != nil {
		logger.Dialog.Warn("profile update failed",
			slog.String("event", "dialog.profile"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return storage.Profile{ID: userID}
	}
	return p
}

func (f *Flow) checkpoint(ctx context.Context, userID int64, state State, token string) {
	err := f.store.SaveCheckpoint(ctx, userID, storage.Checkpoint{
		State:   string(state),
		Context: token,
	})
	if err != nil {
		logger.Dialog.Warn("checkpoint save failed",
			slog.String("event", "dialog.checkpoint"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
}

func mainMenuMarkup(lang string) *tele.ReplyMarkup {
	labels := texts.Options("menu_options", lang)
	btns := make([]keyboard.InlineBtn, 0, len(Categories))
	for i, cat := range Categories {
		label := cat.ID
		if i < len(labels) {
			label = labels[i]
		}
		btns = append(btns, keyboard.InlineBtn{Text: label, Unique: cbMenu, Data: cat.ID})
	}
	return keyboard.InlineButtonsNPerRow(btns, 2)
}

func backMarkup(lang string) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: texts.Text("back", lang), Unique: cbBack},
	})
}

func languageMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Español 🇪🇸", Unique: cbLang, Data: texts.LangES},
		{Text: "English 🇬🇧", Unique: cbLang, Data: texts.LangEN},
	})
}

func submenuMarkup(cat Category, lang string) *tele.ReplyMarkup {
	labels := cat.LeafLabels(lang)
	rows := make([][]keyboard.InlineBtn, 0, len(cat.Leaves)+1)
	for i, leaf := range cat.Leaves {
		label := leaf.ID
		if i < len(labels) {
			label = labels[i]
		}
		rows = append(rows, []keyboard.InlineBtn{{Text: label, Unique: cat.Unique, Data: leaf.ID}})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: texts.Text("back", lang), Unique: cbBack}})
	return keyboard.InlineButtonsRows(rows...)
}

func feedbackMarkup() *tele.ReplyMarkup {
	stars := []keyboard.InlineBtn{
		{Text: "⭐", Unique: cbFeedback, Data: "1"},
		{Text: "⭐⭐", Unique: cbFeedback, Data: "2"},
		{Text: "⭐⭐⭐", Unique: cbFeedback, Data: "3"},
		{Text: "⭐⭐⭐⭐", Unique: cbFeedback, Data: "4"},
		{Text: "⭐⭐⭐⭐⭐", Unique: cbFeedback, Data: "5"},
	}
	return keyboard.InlineButtonsRows(stars)
}

// showMainMenu sweeps ancillary messages and re-renders the main menu.
func (f *Flow) showMainMenu(ctx context.Context, c tele.Context, chatID int64, p storage.Profile) error {
	f.pres.FlushAncillary(ctx, chatID)
	f.states.Set(p.ID, StateMainMenu)
	return f.pres.Render(ctx, c, chatID,
		texts.Text("what_else", p.Lang(), p.Name),
		mainMenuMarkup(p.Lang()))
}

// Start begins or restarts the conversation. Returning users with a
// stored language jump straight to the main menu; a live checkpoint
// additionally offers to resume where they left off.
func (f *Flow) Start(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)

	if p.Language != "" {
		// Touch activity.
		p = f.patchProfile(ctx, userID, storage.ProfilePatch{})
		f.states.Set(userID, StateMainMenu)

		if err := f.pres.Render(ctx, c, chatID,
			texts.Text("welcome_back", p.Lang(), p.Name),
			mainMenuMarkup(p.Lang())); err != nil {
			return err
		}

		cp, ok, err := f.store.Checkpoint(ctx, userID)
		if err != nil {
			logger.Dialog.Warn("checkpoint load failed",
				slog.String("event", "dialog.checkpoint"),
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
		if ok && cp.Context != "" {
			return f.pres.Render(ctx, c, chatID,
				texts.Text("session_resumed", p.Lang(), p.Name, tokenLabel(cp.Context, p.Lang())),
				keyboard.InlineButtonsRows([]keyboard.InlineBtn{
					{Text: texts.Text("resume_yes", p.Lang()), Unique: cbResume, Data: "yes"},
					{Text: texts.Text("resume_no", p.Lang()), Unique: cbResume, Data: "no"},
				}))
		}
		return nil
	}

	f.states.Set(userID, StateAwaitingName)
	return f.pres.Render(ctx, c, chatID,
		texts.Text("welcome", texts.LangES),
		keyboard.RemoveKeyboard())
}

// HandleText consumes free text while a dialog is active. Outside the
// name-capture state free text only earns an unknown-input notice.
func (f *Flow) HandleText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)

	switch f.states.State(userID) {
	case StateAwaitingName:
		name := c.Text()
		f.patchProfile(ctx, userID, storage.ProfilePatch{Name: &name})
		f.states.Set(userID, StateAwaitingLanguage)
		return f.pres.Render(ctx, c, chatID,
			texts.Text("language_selection", texts.LangES),
			languageMarkup())
	default:
		p := f.profile(ctx, userID)
		return f.pres.Notify(ctx, chatID,
			texts.Text("unknown_command", p.Lang(), p.Name))
	}
}

// handleCategory opens the submenu for a category. Both the main-menu
// selection path and the resume path call it directly.
func (f *Flow) handleCategory(ctx context.Context, c tele.Context, chatID int64, p storage.Profile, cat Category) error {
	f.checkpoint(ctx, p.ID, StateSubmenu, cat.ID)
	f.states.Set(p.ID, StateSubmenu)
	return f.pres.Render(ctx, c, chatID,
		texts.Text(cat.PromptKey, p.Lang(), p.Name),
		submenuMarkup(cat, p.Lang()))
}
