package dialog

import (
	"fmt"

	"github.com/wasupalonely/appointments-chatbot/bot/storage"
	"github.com/wasupalonely/appointments-chatbot/bot/texts"
	"github.com/wasupalonely/appointments-chatbot/core/logger"
	"github.com/wasupalonely/appointments-chatbot/core/telegram/callbacks"
	tghelpers "github.com/wasupalonely/appointments-chatbot/core/telegram/helpers"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Language stores the user's language choice and enters the main menu.
func (f *Flow) Language(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)

	lang := texts.Norm(callbacks.CallbackPayload(c))
	p := f.patchProfile(ctx, userID, storage.ProfilePatch{Language: &lang})
	f.states.Set(userID, StateMainMenu)

	return f.pres.Render(ctx, c, chatID,
		texts.Text("menu_greeting", p.Lang(), p.Name),
		mainMenuMarkup(p.Lang()))
}

// Menu handles a main-menu category selection.
func (f *Flow) Menu(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)

	cat, ok := CategoryByID(callbacks.CallbackPayload(c))
	if !ok {
		f.states.Set(userID, StateMainMenu)
		return f.pres.Render(ctx, c, chatID,
			texts.Text("choose_menu_option", p.Lang(), p.Name),
			mainMenuMarkup(p.Lang()))
	}
	return f.handleCategory(ctx, c, chatID, p, cat)
}

// Resume answers the "continue where you left off?" prompt.
func (f *Flow) Resume(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)

	if callbacks.CallbackPayload(c) == "yes" {
		cp, ok, err := f.store.Checkpoint(ctx, userID)
		if err != nil {
			logger.Dialog.Warn("checkpoint load failed",
				slog.String("event", "dialog.checkpoint"),
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
		if ok {
			token := cp.Context
			if cat, found := CategoryByID(token); found {
				return f.handleCategory(ctx, c, chatID, p, cat)
			}
			if cat, _, found := LeafByID(token); found {
				return f.handleCategory(ctx, c, chatID, p, cat)
			}
		}
	}
	return f.showMainMenu(ctx, c, chatID, p)
}

// SubmenuLeaf renders the informational answer for a hours, contact,
// or services leaf and stays in the submenu.
func (f *Flow) SubmenuLeaf(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)

	_, leaf, ok := LeafByID(callbacks.CallbackPayload(c))
	if !ok || leaf.AnswerKey == "" {
		f.states.Set(userID, StateSubmenu)
		return f.pres.Render(ctx, c, chatID,
			texts.Text("choose_menu_option", p.Lang(), p.Name),
			backMarkup(p.Lang()))
	}

	f.checkpoint(ctx, userID, StateSubmenu, leaf.ID)
	f.states.Set(userID, StateSubmenu)
	return f.pres.Render(ctx, c, chatID,
		texts.Text(leaf.AnswerKey, p.Lang(), p.Name),
		backMarkup(p.Lang()))
}

// Location renders a site's address and drops a tracked map pin next
// to it. The pin cannot replace the text message, so it rides along as
// an ancillary message until the next menu sweep.
func (f *Flow) Location(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)

	_, leaf, ok := LeafByID(callbacks.CallbackPayload(c))
	if !ok || leaf.Site == "" {
		return f.showMainMenu(ctx, c, chatID, p)
	}

	f.checkpoint(ctx, userID, StateSubmenu, leaf.ID)
	f.states.Set(userID, StateSubmenu)

	if err := f.pres.Render(ctx, c, chatID,
		texts.Text(leaf.AnswerKey, p.Lang()),
		backMarkup(p.Lang())); err != nil {
		return err
	}

	if loc, found := texts.Locations[leaf.Site]; found {
		f.pres.SendTracked(ctx, chatID, &tele.Location{
			Lat: float32(loc.Lat),
			Lng: float32(loc.Lng),
		})
	}
	return nil
}

// Photos sends the gallery for a site as tracked messages, or a "no
// photos" notice when the directory is empty.
func (f *Flow) Photos(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)

	_, leaf, ok := LeafByID(callbacks.CallbackPayload(c))
	if !ok || leaf.Site == "" {
		return f.showMainMenu(ctx, c, chatID, p)
	}

	f.checkpoint(ctx, userID, StateSubmenu, leaf.ID)
	f.states.Set(userID, StateSubmenu)

	siteLabel := tokenLabel(leaf.ID, p.Lang())
	if err := f.pres.Render(ctx, c, chatID,
		fmt.Sprintf("%s\n%s",
			texts.Text("see_photos", p.Lang(), p.Name),
			texts.Text("photos_of", p.Lang(), siteLabel)),
		backMarkup(p.Lang())); err != nil {
		return err
	}

	files := f.gallery.List(leaf.Site)
	if len(files) == 0 {
		f.pres.SendTracked(ctx, chatID, texts.Text("no_photos", p.Lang(), siteLabel))
		return nil
	}
	for _, path := range files {
		f.pres.SendTracked(ctx, chatID, &tele.Photo{File: tele.FromDisk(path)})
	}
	return nil
}

// Back flushes ancillary messages and returns to the main menu.
func (f *Flow) Back(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)
	return f.showMainMenu(ctx, c, chatID, p)
}

// FeedbackRate stores a 1-5 star rating, thanks the user, and returns
// to the main menu. The thank-you stays visible above the fresh menu.
func (f *Flow) FeedbackRate(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)

	rating, err := callbacks.PayloadInt(c)
	if err != nil || rating < 1 || rating > 5 {
		p := f.profile(ctx, userID)
		return f.showMainMenu(ctx, c, chatID, p)
	}

	p := f.patchProfile(ctx, userID, storage.ProfilePatch{Feedback: &rating})
	f.states.Set(userID, StateMainMenu)

	if err := f.pres.Render(ctx, c, chatID,
		texts.Text("thanks_feedback", p.Lang(), p.Name), nil); err != nil {
		return err
	}
	return f.pres.Push(ctx, chatID,
		texts.Text("what_else", p.Lang(), p.Name),
		mainMenuMarkup(p.Lang()))
}
