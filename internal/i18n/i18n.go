// Package i18n holds the user-visible notices of the API in German and English.
package i18n

import (
	"golang.org/x/text/language"
)

// Key identifies a notice.
type Key string

const (
	NameRequired       Key = "name_required"
	CheckedIn          Key = "checked_in"
	CheckedOut         Key = "checked_out"
	AlreadyCheckedOut  Key = "already_checked_out"
	VisitorNotFound    Key = "visitor_not_found"
	SlideNotFound      Key = "slide_not_found"
	SlideSaved         Key = "slide_saved"
	SlideDeleted       Key = "slide_deleted"
	OrderChanged       Key = "order_changed"
	LayoutSaved        Key = "layout_saved"
	SettingsSaved      Key = "settings_saved"
	InvalidInput       Key = "invalid_input"
	InvalidCredentials Key = "invalid_credentials"
	InvalidToken       Key = "invalid_token"
	LoadFailed         Key = "load_failed"
	SaveFailed         Key = "save_failed"
	UploadUnavailable  Key = "upload_unavailable"
	UploadFailed       Key = "upload_failed"
	UploadTooLarge     Key = "upload_too_large"
	LoggedOut          Key = "logged_out"
	RateLimited        Key = "rate_limited"

	// host notifications, formatted with the visitor name
	VisitorArrived Key = "visitor_arrived"
	VisitorLeft    Key = "visitor_left"
	VisitorAutoOut Key = "visitor_auto_out"
)

var supported = []language.Tag{language.German, language.English}

var matcher = language.NewMatcher(supported)

var catalog = map[language.Tag]map[Key]string{
	language.German: {
		NameRequired:       "Bitte geben Sie Ihren Namen ein",
		CheckedIn:          "Erfolgreich angemeldet!",
		CheckedOut:         "Erfolgreich abgemeldet!",
		AlreadyCheckedOut:  "Besucher ist bereits abgemeldet",
		VisitorNotFound:    "Besucher nicht gefunden",
		SlideNotFound:      "Slide nicht gefunden",
		SlideSaved:         "Slide erfolgreich gespeichert",
		SlideDeleted:       "Slide erfolgreich gelöscht",
		OrderChanged:       "Reihenfolge geändert",
		LayoutSaved:        "Layout erfolgreich gespeichert",
		SettingsSaved:      "Einstellungen erfolgreich gespeichert",
		InvalidInput:       "Ungültige Eingabe",
		InvalidCredentials: "E-Mail oder Passwort ist falsch",
		InvalidToken:       "Sitzung abgelaufen, bitte erneut anmelden",
		LoadFailed:         "Fehler beim Laden der Daten",
		SaveFailed:         "Fehler beim Speichern",
		UploadUnavailable:  "Bild-Upload ist nicht konfiguriert",
		UploadFailed:       "Fehler beim Hochladen des Bildes",
		UploadTooLarge:     "Datei ist zu groß",
		LoggedOut:          "Erfolgreich abgemeldet",
		RateLimited:        "Zu viele Anfragen, bitte kurz warten",
		VisitorArrived:     "Ihr Besuch %s ist am Empfang eingetroffen",
		VisitorLeft:        "Ihr Besuch %s hat sich abgemeldet",
		VisitorAutoOut:     "Ihr Besuch %s wurde automatisch abgemeldet",
	},
	language.English: {
		NameRequired:       "Please enter your name",
		CheckedIn:          "Checked in successfully!",
		CheckedOut:         "Checked out successfully!",
		AlreadyCheckedOut:  "Visitor is already checked out",
		VisitorNotFound:    "Visitor not found",
		SlideNotFound:      "Slide not found",
		SlideSaved:         "Slide saved",
		SlideDeleted:       "Slide deleted",
		OrderChanged:       "Order changed",
		LayoutSaved:        "Layout saved",
		SettingsSaved:      "Settings saved",
		InvalidInput:       "Invalid input",
		InvalidCredentials: "Wrong email or password",
		InvalidToken:       "Session expired, please sign in again",
		LoadFailed:         "Failed to load data",
		SaveFailed:         "Failed to save",
		UploadUnavailable:  "Image upload is not configured",
		UploadFailed:       "Image upload failed",
		UploadTooLarge:     "File is too large",
		LoggedOut:          "Signed out",
		RateLimited:        "Too many requests, please wait a moment",
		VisitorArrived:     "Your visitor %s has arrived at reception",
		VisitorLeft:        "Your visitor %s has checked out",
		VisitorAutoOut:     "Your visitor %s was checked out automatically",
	},
}

// Negotiate picks the notice language from an Accept-Language header.
// fallback (a settings language such as "de") wins when the header is empty or matches nothing.
func Negotiate(acceptLanguage, fallback string) language.Tag {
	def := language.German
	if tag, err := language.Parse(fallback); err == nil {
		if _, idx, conf := matcher.Match(tag); conf != language.No {
			def = supported[idx]
		}
	}
	if acceptLanguage == "" {
		return def
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return def
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return def
	}
	return supported[idx]
}

// Message returns the notice for key in tag, falling back to German and then to the key itself.
func Message(tag language.Tag, key Key) string {
	if msgs, ok := catalog[tag]; ok {
		if m, ok := msgs[key]; ok {
			return m
		}
	}
	if m, ok := catalog[language.German][key]; ok {
		return m
	}
	return string(key)
}
