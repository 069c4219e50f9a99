package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"quotedesk/constants"
)

const maxReviewBodyBytes = 64 << 10

type reviewView struct {
	Username string `json:"username"`
	Content  string `json:"content"`
}

func addReview(ctx context.Context, input ReviewInput) (*Review, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Content = strings.TrimSpace(input.Content)
	if err := validateForm(input); err != nil {
		return nil, err
	}

	review := &Review{Username: input.Username, Content: input.Content}
	if err := db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, internalError("failed to save review", err)
	}
	listCache.Invalidate(constants.REVIEWS_CACHE_KEY)

	RecordReview()
	return review, nil
}

// listReviews returns every review, newest first
func listReviews(ctx context.Context) ([]reviewView, error) {
	return cachedList(listCache, constants.REVIEWS_CACHE_KEY, func() ([]reviewView, error) {
		var reviews []Review
		if err := db.WithContext(ctx).Order("timestamp DESC, id DESC").Find(&reviews).Error; err != nil {
			return nil, internalError("failed to list reviews", err)
		}

		views := make([]reviewView, len(reviews))
		for i, rv := range reviews {
			views[i] = reviewView{Username: rv.Username, Content: rv.Content}
		}
		return views, nil
	})
}

// AddReview never fails with a status code; the outcome is the success flag.
func AddReview(w http.ResponseWriter, r *http.Request) {
	var input ReviewInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReviewBodyBytes)).Decode(&input); err != nil {
		writeJSON(w, http.StatusOK, map[string]bool{"success": false})
		return
	}

	if _, err := addReview(r.Context(), input); err != nil {
		if IsKind(err, KindInternal) {
			log.Printf("[REVIEW] Add failed: %v", err)
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func GetReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := listReviews(r.Context())
	if err != nil {
		log.Printf("[REVIEW] Listing failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error fetching reviews"})
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
