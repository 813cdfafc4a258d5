package dialog

import (
	"fmt"

	"github.com/wasupalonely/appointments-chatbot/bot/texts"
	"github.com/wasupalonely/appointments-chatbot/core/logger"
	tghelpers "github.com/wasupalonely/appointments-chatbot/core/telegram/helpers"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Guard is the transition boundary: any error or panic inside a
// handler is logged, the user gets a localized notice, and the dialog
// is forced back to the main menu. The process never crashes and a
// user is never left stranded mid-graph.
func (f *Flow) Guard(name string, fn tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return fn(c)
		}()
		if err == nil {
			return nil
		}

		ctx := tghelpers.BuildContext(c)
		userID, chatID := ids(c)
		logger.Dialog.Error("transition failed",
			slog.String("event", "dialog.guard"),
			slog.String("handler", name),
			slog.Int64("user_id", userID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)

		p := f.profile(ctx, userID)
		_ = f.pres.Notify(ctx, chatID, texts.Text("error_message", p.Lang()))
		f.states.Set(userID, StateMainMenu)
		_ = f.pres.Push(ctx, chatID,
			texts.Text("what_else", p.Lang(), p.Name),
			mainMenuMarkup(p.Lang()))
		return nil
	}
}
