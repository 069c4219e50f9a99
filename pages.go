package main

import (
	"log"
	"net/http"
)

func Home(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, http.StatusOK, "index", nil)
}

func Success(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, http.StatusOK, "success", nil)
}

func SiteMap(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, http.StatusOK, "sitemap", nil)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	if err := pingDatabase(r.Context(), db); err != nil {
		log.Printf("[DB] Health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
