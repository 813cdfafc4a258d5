package dialog

import "github.com/wasupalonely/appointments-chatbot/bot/texts"

// Callback uniques. Buttons carry a stable code plus a payload so
// routing never depends on localized label text.
const (
	cbLang     = "lang"
	cbMenu     = "menu"
	cbSubmenu  = "sub"
	cbLocation = "loc"
	cbPhotos   = "photos"
	cbResume   = "resume"
	cbBack     = "back"
	cbFeedback = "fb"
)

// Site identifiers for locations and photo galleries.
const (
	SiteMain      = "main_office"
	SiteSecondary = "secondary_office"
)

// Leaf is a terminal menu option: tapping it renders an informational
// answer instead of another submenu.
type Leaf struct {
	ID        string
	AnswerKey string
	Site      string // set for location and photo leaves
}

// Category is a main-menu entry and the submenu it opens.
type Category struct {
	ID         string
	PromptKey  string // text shown above the submenu
	OptionsKey string // label list for the submenu buttons
	Unique     string // callback unique its submenu buttons carry
	Leaves     []Leaf
}

// Categories in main-menu display order; the index matches the
// menu_options label list in every language.
var Categories = []Category{
	{
		ID:         "hours",
		PromptKey:  "select_hours",
		OptionsKey: "hours",
		Unique:     cbSubmenu,
		Leaves: []Leaf{
			{ID: "hours_opening", AnswerKey: "opening_hours"},
			{ID: "hours_appointments", AnswerKey: "appointment_hours"},
		},
	},
	{
		ID:         "contact",
		PromptKey:  "select_contact",
		OptionsKey: "contact",
		Unique:     cbSubmenu,
		Leaves: []Leaf{
			{ID: "contact_phone", AnswerKey: "phone"},
			{ID: "contact_email", AnswerKey: "email"},
		},
	},
	{
		ID:         "services",
		PromptKey:  "select_services",
		OptionsKey: "services",
		Unique:     cbSubmenu,
		Leaves: []Leaf{
			{ID: "services_general", AnswerKey: "general_consultation"},
			{ID: "services_specialties", AnswerKey: "specialties"},
		},
	},
	{
		ID:         "location",
		PromptKey:  "select_location",
		OptionsKey: "location",
		Unique:     cbLocation,
		Leaves: []Leaf{
			{ID: "location_main", AnswerKey: "address_main", Site: SiteMain},
			{ID: "location_secondary", AnswerKey: "address_secondary", Site: SiteSecondary},
		},
	},
	{
		ID:         "photos",
		PromptKey:  "select_photos",
		OptionsKey: "location",
		Unique:     cbPhotos,
		Leaves: []Leaf{
			{ID: "photos_main", Site: SiteMain},
			{ID: "photos_secondary", Site: SiteSecondary},
		},
	},
}

// CategoryByID resolves a category identifier, e.g. from a callback
// payload or a checkpoint context token.
func CategoryByID(id string) (Category, bool) {
	for _, cat := range Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// LeafByID resolves a submenu leaf identifier to its category and leaf.
func LeafByID(id string) (Category, Leaf, bool) {
	for _, cat := range Categories {
		for _, leaf := range cat.Leaves {
			if leaf.ID == id {
				return cat, leaf, true
			}
		}
	}
	return Category{}, Leaf{}, false
}

// Label returns the category's localized main-menu label.
func (c Category) Label(lang string) string {
	labels := texts.Options("menu_options", lang)
	for i, cat := range Categories {
		if cat.ID == c.ID && i < len(labels) {
			return labels[i]
		}
	}
	return c.ID
}

// LeafLabels returns the localized labels for the category's submenu
// buttons, index-aligned with Leaves.
func (c Category) LeafLabels(lang string) []string {
	return texts.Options(c.OptionsKey, lang)
}

// tokenLabel renders a checkpoint context token for display in the
// resume prompt. Tokens are stable ids; users see localized labels.
func tokenLabel(token, lang string) string {
	if cat, ok := CategoryByID(token); ok {
		return cat.Label(lang)
	}
	if cat, leaf, ok := LeafByID(token); ok {
		labels := cat.LeafLabels(lang)
		for i, l := range cat.Leaves {
			if l.ID == leaf.ID && i < len(labels) {
				return labels[i]
			}
		}
	}
	return token
}
