package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"quotedesk/constants"
)

type updateView struct {
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// addUpdate posts an announcement stamped with the current server time
func addUpdate(ctx context.Context, author *User, form UpdateForm) (*Update, error) {
	if !author.IsAdmin() {
		return nil, newAppError(KindUnauthorized, "Only the admin can post updates")
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}

	update := &Update{
		Content:   form.Content,
		Timestamp: time.Now().Format(constants.UPDATE_TIMESTAMP_LAYOUT),
	}
	if err := db.WithContext(ctx).Create(update).Error; err != nil {
		return nil, internalError("failed to save update", err)
	}
	listCache.Invalidate(constants.UPDATES_CACHE_KEY)

	log.Printf("[UPDATE] Update %d posted", update.ID)
	return update, nil
}

// listUpdates returns every update, newest first
func listUpdates(ctx context.Context) ([]updateView, error) {
	return cachedList(listCache, constants.UPDATES_CACHE_KEY, func() ([]updateView, error) {
		var updates []Update
		if err := db.WithContext(ctx).Order("timestamp DESC, id DESC").Find(&updates).Error; err != nil {
			return nil, internalError("failed to list updates", err)
		}

		views := make([]updateView, len(updates))
		for i, u := range updates {
			views[i] = updateView{Content: u.Content, Timestamp: u.Timestamp}
		}
		return views, nil
	})
}

func GetUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := listUpdates(r.Context())
	if err != nil {
		log.Printf("[UPDATE] Listing failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error fetching updates"})
		return
	}
	writeJSON(w, http.StatusOK, updates)
}

// AddUpdate answers with a success or error field rather than a status code
func AddUpdate(w http.ResponseWriter, r *http.Request) {
	if _, err := addUpdate(r.Context(), currentUser(r), parseUpdateForm(r)); err != nil {
		if IsKind(err, KindInternal) {
			log.Printf("[UPDATE] Add failed: %v", err)
		}
		writeJSON(w, http.StatusOK, map[string]string{"error": "Failed to add update"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"success": "Update added successfully"})
}
