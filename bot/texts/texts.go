// Package texts holds the bilingual message catalog for the clinic bot.
package texts

import "fmt"

// LangES and LangEN are the supported interface languages.
// Any other code falls back to Spanish.
const (
	LangES = "es"
	LangEN = "en"
)

var catalog = map[string]map[string]string{
	LangES: {
		"welcome":              "¡Hola! Podría ingresar su nombre, por favor:",
		"welcome_back":         "¡Bienvenido de nuevo, %s! ¿En qué podemos ayudarle hoy?",
		"language_selection":   "Por favor, seleccione su idioma preferido:",
		"menu_greeting":        "¡Hola %s! Soy su asistente informativo. Espero serle de ayuda. Por favor, elija una opción:",
		"select_option":        "%s, por favor seleccione una opción:",
		"back":                 "Volver al menú principal",
		"help_text":            "Este bot le ayuda a obtener información sobre nuestra clínica. Utilice los botones para navegar, o puede usar estos comandos:\n/start - Iniciar o reiniciar el bot\n/help - Mostrar esta ayuda\n/menu - Ir al menú principal\n/contacto - Información de contacto directo\n/idioma - Cambiar el idioma",
		"info_text":            "Somos una clínica comprometida con su salud y bienestar. Ofrecemos servicios médicos de alta calidad con profesionales altamente calificados.",
		"unknown_command":      "%s, lo siento, no entiendo ese comando. Utilice /help para ver los comandos disponibles.",
		"select_hours":         "%s, seleccione una opción relacionada con horarios:",
		"select_contact":       "%s, seleccione una opción relacionada con contacto:",
		"select_services":      "%s, seleccione una opción relacionada con servicios:",
		"select_location":      "%s, seleccione una opción relacionada con ubicación:",
		"select_photos":        "%s, ¿de qué sede desea ver las fotos?",
		"opening_hours":        "%s, nuestro horario de atención es de lunes a viernes de 8:00 AM a 6:00 PM.",
		"appointment_hours":    "%s, las citas están disponibles de lunes a viernes de 9:00 AM a 5:00 PM.",
		"phone":                "%s, puede contactarnos al número 123-456-7890.",
		"email":                "%s, nuestro correo electrónico es info@clinica.com.",
		"general_consultation": "%s, ofrecemos consultas generales de lunes a viernes. ¡Agenda su cita!",
		"specialties":          "%s, contamos con especialidades en Cardiología, Dermatología y Pediatría.",
		"address":              "%s, nuestra sede principal se encuentra ubicada en: Calle 9 #15-25, Neiva, Huila. Y nuestra segunda sede se encuentra en: Cl. 9 #15-25, Neiva, Huila.",
		"address_main":         "Sede Principal:\nCalle 9 #15-25, Neiva, Huila.",
		"address_secondary":    "Sede Secundaria:\nCl. 9 #15-25, Neiva, Huila.",
		"how_to_get":           "%s, para llegar a nuestra clínica, puede dirigirse a la Universidad Surcolombiana en Neiva, Huila. Aquí está la ubicación exacta:",
		"see_photos":           "%s, aquí puede ver fotos de nuestras instalaciones:",
		"photos_of":            "Fotos de la %s:",
		"no_photos":            "No se encontraron fotos para la %s.",
		"what_else":            "%s, ¿en qué más puedo ayudarle? Por favor, elija una opción:",
		"choose_menu_option":   "%s, por favor, seleccione una opción del menú.",
		"session_resumed":      "%s, hemos recuperado su sesión anterior. Estaba consultando sobre %s. ¿Desea continuar?",
		"resume_yes":           "Sí, continuar",
		"resume_no":            "No, ir al menú",
		"feedback":             "%s, ¿cómo calificaría su experiencia con nuestro bot?",
		"thanks_feedback":      "%s, gracias por su feedback. Lo tendremos en cuenta para mejorar nuestro servicio.",
		"error_message":        "Ha ocurrido un error. Vamos a reiniciar la conversación para asegurar un funcionamiento correcto.",
	},
	LangEN: {
		"welcome":              "Hello! Could you please enter your name:",
		"welcome_back":         "Welcome back, %s! How can we help you today?",
		"language_selection":   "Please select your preferred language:",
		"menu_greeting":        "Hello %s! I am your information assistant. I hope to be of help. Please choose an option:",
		"select_option":        "%s, please select an option:",
		"back":                 "Back to main menu",
		"help_text":            "This bot helps you get information about our clinic. Use the buttons to navigate, or you can use these commands:\n/start - Start or restart the bot\n/help - Show this help\n/menu - Go to the main menu\n/contact - Direct contact information\n/language - Change language",
		"info_text":            "We are a clinic committed to your health and wellbeing. We offer high-quality medical services with highly qualified professionals.",
		"unknown_command":      "%s, I'm sorry, I don't understand that command. Use /help to see available commands.",
		"select_hours":         "%s, select an option related to hours:",
		"select_contact":       "%s, select an option related to contact:",
		"select_services":      "%s, select an option related to services:",
		"select_location":      "%s, select an option related to location:",
		"select_photos":        "%s, which office photos would you like to see?",
		"opening_hours":        "%s, our opening hours are Monday to Friday from 8:00 AM to 6:00 PM.",
		"appointment_hours":    "%s, appointments are available Monday to Friday from 9:00 AM to 5:00 PM.",
		"phone":                "%s, you can contact us at 123-456-7890.",
		"email":                "%s, our email is info@clinic.com.",
		"general_consultation": "%s, we offer general consultations Monday to Friday. Schedule your appointment!",
		"specialties":          "%s, we have specialties in Cardiology, Dermatology, and Pediatrics.",
		"address":              "%s, we are located at Specialized Clinic, Calle 9 #15-25, Neiva, Huila.",
		"address_main":         "Main Office:\nCalle 9 #15-25, Neiva, Huila.",
		"address_secondary":    "Secondary Office:\nCl. 9 #15-25, Neiva, Huila.",
		"how_to_get":           "%s, to reach our clinic, you can head to Universidad Surcolombiana in Neiva, Huila. Here is the exact location:",
		"see_photos":           "%s, here you can see photos of our facilities:",
		"photos_of":            "Photos of the %s:",
		"no_photos":            "No photos were found for the %s.",
		"what_else":            "%s, what else can I help you with? Please choose an option:",
		"choose_menu_option":   "%s, please select an option from the menu.",
		"session_resumed":      "%s, we have recovered your previous session. You were inquiring about %s. Would you like to continue?",
		"resume_yes":           "Yes, continue",
		"resume_no":            "No, go to menu",
		"feedback":             "%s, how would you rate your experience with our bot?",
		"thanks_feedback":      "%s, thank you for your feedback. We will take it into account to improve our service.",
		"error_message":        "An error has occurred. We will restart the conversation to ensure proper functioning.",
	},
}

var options = map[string]map[string][]string{
	LangES: {
		"menu_options": {"Horarios", "Contacto", "Servicios", "Ubicación", "Ver fotos"},
		"hours":        {"Horario de atención", "Horario de citas"},
		"contact":      {"Teléfono", "Correo electrónico"},
		"services":     {"Consulta general", "Especialidades"},
		"location":     {"Sede Principal", "Sede Secundaria"},
	},
	LangEN: {
		"menu_options": {"Hours", "Contact", "Services", "Location", "See Photos"},
		"hours":        {"Opening hours", "Appointment hours"},
		"contact":      {"Phone", "Email"},
		"services":     {"General consultation", "Specialties"},
		"location":     {"Main Office", "Secondary Office"},
	},
}

// Coordinates of the two clinic sites, sent as live map pins.
type Location struct {
	Lat float64
	Lng float64
}

var Locations = map[string]Location{
	"main_office":      {Lat: 2.9371, Lng: -75.2958},
	"secondary_office": {Lat: 2.9428, Lng: -75.2981},
}

// Norm returns a supported language code, falling back to Spanish.
func Norm(lang string) string {
	if _, ok := catalog[lang]; ok {
		return lang
	}
	return LangES
}

// Text returns the localized text for key, formatting args into any
// placeholders. Unknown keys fall back to Spanish, then to the key itself.
func Text(key, lang string, args ...any) string {
	lang = Norm(lang)
	tpl, ok := catalog[lang][key]
	if !ok {
		tpl, ok = catalog[LangES][key]
		if !ok {
			return key
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(tpl, args...)
	}
	return tpl
}

// Options returns the localized option labels for a list key, such as
// menu_options or a submenu group. Unknown keys yield nil.
func Options(key, lang string) []string {
	lang = Norm(lang)
	if opts, ok := options[lang][key]; ok {
		return opts
	}
	return options[LangES][key]
}
