package dialog

import (
	tg "github.com/wasupalonely/appointments-chatbot/core/telegram"
	"github.com/wasupalonely/appointments-chatbot/core/telegram/commands"
)

// Wire registers every dialog entry point on the registry. All
// handlers pass through the transition guard.
func (f *Flow) Wire(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     f.Guard("start", f.Start),
		Description: "Iniciar o reiniciar el bot",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     f.Guard("help", f.Help),
		Description: "Mostrar la ayuda",
	})
	reg.RegisterCommand("/menu", commands.Command{
		Handler:     f.Guard("menu", f.MenuCmd),
		Description: "Ir al menú principal",
	})
	reg.RegisterCommand("/info", commands.Command{
		Handler:     f.Guard("info", f.Info),
		Description: "Información de la clínica",
	})
	reg.RegisterCommand("/contacto", commands.Command{
		Handler:     f.Guard("contact", f.Contact),
		Description: "Información de contacto directo",
		Aliases:     []string{"contact"},
	})
	reg.RegisterCommand("/idioma", commands.Command{
		Handler:     f.Guard("language", f.LanguageCmd),
		Description: "Cambiar el idioma",
		Aliases:     []string{"language"},
	})
	reg.RegisterCommand("/feedback", commands.Command{
		Handler:     f.Guard("feedback", f.FeedbackCmd),
		Description: "Calificar su experiencia",
	})

	_ = reg.RegisterCallback(cbLang, f.Guard("language_select", f.Language))
	_ = reg.RegisterCallback(cbMenu, f.Guard("menu_select", f.Menu))
	_ = reg.RegisterCallback(cbResume, f.Guard("resume", f.Resume))
	_ = reg.RegisterCallback(cbSubmenu, f.Guard("submenu_leaf", f.SubmenuLeaf))
	_ = reg.RegisterCallback(cbLocation, f.Guard("location", f.Location))
	_ = reg.RegisterCallback(cbPhotos, f.Guard("photos", f.Photos))
	_ = reg.RegisterCallback(cbBack, f.Guard("back", f.Back))
	_ = reg.RegisterCallback(cbFeedback, f.Guard("feedback_rate", f.FeedbackRate))

	reg.SetTextFallback(f.Guard("unknown_text", f.UnknownText))
	reg.SetCallbackNotFound(f.Guard("unknown_callback", f.UnknownCallback))
}
