package dialog

import (
	"fmt"

	"github.com/wasupalonely/appointments-chatbot/bot/texts"
	tghelpers "github.com/wasupalonely/appointments-chatbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Help shows the command overview with a way back to the menu.
func (f *Flow) Help(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)
	return f.pres.Render(ctx, c, chatID,
		texts.Text("help_text", p.Lang()),
		backMarkup(p.Lang()))
}

// Info shows the clinic blurb.
func (f *Flow) Info(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)
	return f.pres.Render(ctx, c, chatID,
		texts.Text("info_text", p.Lang()),
		backMarkup(p.Lang()))
}

// MenuCmd jumps to the main menu; users without a finished onboarding
// are sent through Start instead.
func (f *Flow) MenuCmd(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)
	if p.Language == "" {
		return f.Start(c)
	}
	f.states.Set(userID, StateMainMenu)
	return f.pres.Render(ctx, c, chatID,
		texts.Text("what_else", p.Lang(), p.Name),
		mainMenuMarkup(p.Lang()))
}

// Contact renders phone and email in one message.
func (f *Flow) Contact(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)
	body := fmt.Sprintf("%s\n%s",
		texts.Text("phone", p.Lang(), p.Name),
		texts.Text("email", p.Lang(), p.Name))
	return f.pres.Render(ctx, c, chatID, body, backMarkup(p.Lang()))
}

// LanguageCmd re-opens the language picker at any point.
func (f *Flow) LanguageCmd(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	f.states.Set(userID, StateAwaitingLanguage)
	return f.pres.Render(ctx, c, chatID,
		texts.Text("language_selection", texts.LangES),
		languageMarkup())
}

// FeedbackCmd asks for a star rating. The prompt is pushed as a new
// message so the current menu stays in the transcript.
func (f *Flow) FeedbackCmd(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)
	f.states.Set(userID, StateFeedback)
	return f.pres.Push(ctx, chatID,
		texts.Text("feedback", p.Lang(), p.Name),
		feedbackMarkup())
}

// UnknownCallback recovers from taps on stale keyboards, e.g. a menu
// left over from before a restart, by re-rendering the main menu.
func (f *Flow) UnknownCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)
	return f.showMainMenu(ctx, c, chatID, p)
}

// UnknownText answers unrecognized input without disturbing the menu.
func (f *Flow) UnknownText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, chatID := ids(c)
	p := f.profile(ctx, userID)
	return f.pres.Notify(ctx, chatID,
		texts.Text("unknown_command", p.Lang(), p.Name))
}
