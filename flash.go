package main

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"quotedesk/constants"
)

// Flash is a one-shot notice that survives a redirect
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

func setFlash(w http.ResponseWriter, category, message string) {
	raw, err := json.Marshal([]Flash{{Category: category, Message: message}})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     constants.FLASH_COOKIE_NAME,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns pending notices and clears them
func popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	cookie, err := r.Cookie(constants.FLASH_COOKIE_NAME)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     constants.FLASH_COOKIE_NAME,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, category, message string) {
	setFlash(w, category, message)
	http.Redirect(w, r, target, http.StatusFound)
}
