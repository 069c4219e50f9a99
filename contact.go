package main

import (
	"context"
	"log"
	"net/http"
)

// addContactMessage stores a message from the public contact form
func addContactMessage(ctx context.Context, form ContactForm) (*ContactMessage, error) {
	if form.Name == "" || form.Email == "" || form.Message == "" {
		return nil, validationError("All fields are required!")
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}

	msg := &ContactMessage{Name: form.Name, Email: form.Email, Message: form.Message}
	if err := db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, internalError("failed to save contact message", err)
	}

	log.Printf("[CONTACT] Message %d received from %s", msg.ID, msg.Email)
	RecordContactMessage()
	return msg, nil
}

// listContactMessages returns every contact message, newest first
func listContactMessages(ctx context.Context) ([]ContactMessage, error) {
	messages := []ContactMessage{}
	if err := db.WithContext(ctx).Order("timestamp DESC, id DESC").Find(&messages).Error; err != nil {
		return nil, internalError("failed to list contact messages", err)
	}
	return messages, nil
}

func ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if _, err := addContactMessage(r.Context(), parseContactForm(r)); err != nil {
		if IsKind(err, KindInternal) {
			log.Printf("[CONTACT] Submit failed: %v", err)
		}
		redirectWithFlash(w, r, "/", "danger", userMessage(err))
		return
	}
	redirectWithFlash(w, r, "/success", "success", "Message received successfully!")
}

func AdminMessages(w http.ResponseWriter, r *http.Request) {
	if !currentUser(r).IsAdmin() {
		redirectWithFlash(w, r, "/", "danger", "Unauthorized access")
		return
	}

	messages, err := listContactMessages(r.Context())
	if err != nil {
		log.Printf("[CONTACT] Listing failed: %v", err)
		http.Error(w, "Error fetching messages", http.StatusInternalServerError)
		return
	}
	renderTemplate(w, r, http.StatusOK, "admin_messages", messages)
}
