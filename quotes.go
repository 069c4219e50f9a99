package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"quotedesk/constants"
)

var errQuoteIDsExhausted = errors.New("no free quote id after retries")

// nextQuoteID draws a candidate id; tests swap it for a fixed sequence
var nextQuoteID = func() int {
	return constants.MIN_QUOTE_ID + rand.Intn(constants.MAX_QUOTE_ID-constants.MIN_QUOTE_ID+1)
}

func quoteExists(ctx context.Context, id int) bool {
	var count int64
	if err := db.WithContext(ctx).Model(&QuoteRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// createQuoteRequest stores a new request owned by the caller. The primary key
// rejects a colliding draw and the draw is retried a bounded number of times.
func createQuoteRequest(ctx context.Context, owner *User, form QuoteRequestForm) (*QuoteRequest, error) {
	if owner.IsAdmin() {
		return nil, newAppError(KindUnauthorized, "Admins cannot submit quote requests")
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < constants.MAX_QUOTE_ID_ATTEMPTS; attempt++ {
		quote := &QuoteRequest{
			ID:           nextQuoteID(),
			UserID:       owner.ID,
			BusinessType: form.BusinessType,
			Requirements: form.Requirements,
			ContactInfo:  form.ContactInfo,
			Status:       constants.STATUS_PENDING,
		}

		err := db.WithContext(ctx).Create(quote).Error
		if err == nil {
			log.Printf("[QUOTE] Request %d submitted by %s", quote.ID, owner.ID)
			RecordQuoteRequest()
			return quote, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) || quoteExists(ctx, quote.ID) {
			log.Printf("[QUOTE] Id %d already taken, drawing again", quote.ID)
			continue
		}
		return nil, internalError("failed to save quote request", err)
	}

	return nil, internalError("failed to allocate quote id", errQuoteIDsExhausted)
}

// respondToQuote applies an admin response. Any listed status may follow any
// other.
func respondToQuote(ctx context.Context, resp QuoteResponse) (*QuoteRequest, error) {
	var quote QuoteRequest
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&quote, resp.QuoteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newAppError(KindNotFound, "Quote not found")
			}
			return internalError("failed to load quote", err)
		}

		quote.Status = resp.Status
		quote.QuotePrice = resp.QuotePrice
		quote.StatusHistory = append(quote.StatusHistory, StatusChange{
			Status:     resp.Status,
			QuotePrice: resp.QuotePrice,
			At:         time.Now().UTC(),
		})

		if err := tx.Save(&quote).Error; err != nil {
			return internalError("failed to save quote response", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[QUOTE] Request %d set to %q", quote.ID, quote.Status)
	RecordQuoteResponse(quote.Status)
	return &quote, nil
}

// listQuotes returns what the viewer may see: every request for the admin
// (optionally narrowed to one id), otherwise only the viewer's own.
func listQuotes(ctx context.Context, viewer *User, search string) ([]QuoteRequest, error) {
	query := db.WithContext(ctx).Order("created_at DESC, id DESC")

	if viewer.IsAdmin() {
		if search = strings.TrimSpace(search); search != "" {
			id, err := strconv.Atoi(search)
			if err != nil {
				return []QuoteRequest{}, nil
			}
			query = query.Where("id = ?", id)
		}
	} else {
		query = query.Where("user_id = ?", viewer.ID)
	}

	quotes := []QuoteRequest{}
	if err := query.Find(&quotes).Error; err != nil {
		return nil, internalError("failed to list quotes", err)
	}
	return quotes, nil
}

func getQuote(ctx context.Context, id int) (*QuoteRequest, error) {
	var quote QuoteRequest
	if err := db.WithContext(ctx).First(&quote, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newAppError(KindNotFound, "Quote not found")
		}
		return nil, internalError("failed to load quote", err)
	}
	return &quote, nil
}
