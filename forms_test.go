package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotedesk/constants"
)

func assertValidation(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation), "expected validation error, got %v", err)
	assert.Equal(t, message, userMessage(err))
}

func TestValidateRegisterForm(t *testing.T) {
	valid := RegisterForm{Username: "alice", Email: "alice@example.com", Password: "secret1"}
	assert.NoError(t, validateForm(valid))

	tests := []struct {
		name    string
		mutate  func(f *RegisterForm)
		message string
	}{
		{"EmptyUsername", func(f *RegisterForm) { f.Username = "" }, "Username is required"},
		{"ShortUsername", func(f *RegisterForm) { f.Username = "abc" }, "Username must be at least 4 characters"},
		{"LongUsername", func(f *RegisterForm) { f.Username = "abcdefghijklmnopqrstuvwxyz" }, "Username must be at most 25 characters"},
		{"BadEmail", func(f *RegisterForm) { f.Email = "not-an-email" }, "Email must be a valid email address"},
		{"ShortPassword", func(f *RegisterForm) { f.Password = "12345" }, "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)
			assertValidation(t, validateForm(form), tt.message)
		})
	}
}

func TestValidateQuoteRequestForm(t *testing.T) {
	assert.NoError(t, validateForm(QuoteRequestForm{BusinessType: "Bakery", Requirements: "Bread", ContactInfo: "555"}))
	assertValidation(t, validateForm(QuoteRequestForm{Requirements: "Bread", ContactInfo: "555"}), "Business type is required")
	assertValidation(t, validateForm(QuoteRequestForm{BusinessType: "Bakery", Requirements: "Bread"}), "Contact info is required")
}

func TestQuoteResponseFormResolve(t *testing.T) {
	t.Run("WithPrice", func(t *testing.T) {
		resp, err := QuoteResponseForm{QuoteID: "123456", Status: constants.STATUS_APPROVED, QuotePrice: "99.5"}.Resolve()
		require.NoError(t, err)
		assert.Equal(t, 123456, resp.QuoteID)
		assert.Equal(t, constants.STATUS_APPROVED, resp.Status)
		require.NotNil(t, resp.QuotePrice)
		assert.Equal(t, 99.5, *resp.QuotePrice)
	})

	t.Run("WithoutPrice", func(t *testing.T) {
		resp, err := QuoteResponseForm{QuoteID: "123456", Status: constants.STATUS_DENIED}.Resolve()
		require.NoError(t, err)
		assert.Nil(t, resp.QuotePrice)
	})

	t.Run("EveryListedStatusIsAccepted", func(t *testing.T) {
		for _, status := range constants.QUOTE_RESPONSE_STATUSES {
			_, err := QuoteResponseForm{QuoteID: "1", Status: status}.Resolve()
			assert.NoError(t, err, status)
		}
	})

	tests := []struct {
		name    string
		form    QuoteResponseForm
		message string
	}{
		{"MissingID", QuoteResponseForm{Status: constants.STATUS_APPROVED}, "Quote ID is required"},
		{"MissingStatus", QuoteResponseForm{QuoteID: "1"}, "Status is required"},
		{"UnknownStatus", QuoteResponseForm{QuoteID: "1", Status: "Lost"}, "Status is not a valid choice"},
		{"PendingIsNotAResponse", QuoteResponseForm{QuoteID: "1", Status: constants.STATUS_PENDING}, "Status is not a valid choice"},
		{"NonNumericPrice", QuoteResponseForm{QuoteID: "1", Status: constants.STATUS_APPROVED, QuotePrice: "cheap"}, "Quote price must be a number"},
		{"NaNPrice", QuoteResponseForm{QuoteID: "1", Status: constants.STATUS_APPROVED, QuotePrice: "NaN"}, "Quote price must be a number"},
		{"NegativePrice", QuoteResponseForm{QuoteID: "1", Status: constants.STATUS_APPROVED, QuotePrice: "-5"}, "Quote price must not be negative"},
		{"NonNumericID", QuoteResponseForm{QuoteID: "abc", Status: constants.STATUS_APPROVED}, "Invalid Quote ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.Resolve()
			assertValidation(t, err, tt.message)
		})
	}
}

func TestValidateContactAndReview(t *testing.T) {
	assert.NoError(t, validateForm(ContactForm{Name: "Ann", Email: "ann@example.com", Message: "hi"}))
	assertValidation(t, validateForm(ContactForm{Name: "Ann", Email: "ann", Message: "hi"}), "Email must be a valid email address")
	assertValidation(t, validateForm(ReviewInput{Username: "bob"}), "Content is required")
}
