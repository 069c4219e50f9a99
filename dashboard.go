package main

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quotedesk/constants"
)

type dashboardData struct {
	Quotes      []QuoteRequest
	IsAdmin     bool
	Statuses    []string
	SearchQuery string
	Request     QuoteRequestForm
}

func renderDashboard(w http.ResponseWriter, r *http.Request, form QuoteRequestForm, extra ...Flash) {
	user := currentUser(r)
	search := r.URL.Query().Get("search_query")

	quotes, err := listQuotes(r.Context(), user, search)
	if err != nil {
		log.Printf("[QUOTE] Dashboard listing failed for %s: %v", user.ID, err)
		http.Error(w, "Error fetching quotes", http.StatusInternalServerError)
		return
	}

	renderTemplate(w, r, http.StatusOK, "dashboard", dashboardData{
		Quotes:      quotes,
		IsAdmin:     user.IsAdmin(),
		Statuses:    constants.QUOTE_RESPONSE_STATUSES,
		SearchQuery: search,
		Request:     form,
	}, extra...)
}

func Dashboard(w http.ResponseWriter, r *http.Request) {
	renderDashboard(w, r, QuoteRequestForm{})
}

// DashboardSubmit handles the three dashboard forms. Customers can only submit
// quote requests; the admin answers requests or posts updates.
func DashboardSubmit(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	if !user.IsAdmin() {
		if hasQuoteRequestFields(r) {
			submitQuoteRequest(w, r, user)
			return
		}
		// admin-only forms posted by a customer are ignored
		renderDashboard(w, r, QuoteRequestForm{})
		return
	}

	switch {
	case r.PostFormValue("quote_id") != "" || r.PostFormValue("status") != "":
		submitQuoteResponse(w, r)
	case r.PostFormValue("update_content") != "":
		submitDashboardUpdate(w, r)
	default:
		renderDashboard(w, r, QuoteRequestForm{})
	}
}

func hasQuoteRequestFields(r *http.Request) bool {
	for _, field := range []string{"business_type", "requirements", "contact_info"} {
		if r.PostFormValue(field) != "" {
			return true
		}
	}
	return false
}

func submitQuoteRequest(w http.ResponseWriter, r *http.Request, user *User) {
	form := parseQuoteRequestForm(r)

	if _, err := createQuoteRequest(r.Context(), user, form); err != nil {
		if IsKind(err, KindValidation) {
			renderDashboard(w, r, form, Flash{Category: "danger", Message: userMessage(err)})
			return
		}
		log.Printf("[QUOTE] Submit failed for %s: %v", user.ID, err)
		redirectWithFlash(w, r, "/dashboard", "danger", userMessage(err))
		return
	}

	redirectWithFlash(w, r, "/dashboard", "success", "Quote request submitted successfully")
}

func submitQuoteResponse(w http.ResponseWriter, r *http.Request) {
	resp, err := parseQuoteResponseForm(r).Resolve()
	if err != nil {
		redirectWithFlash(w, r, "/dashboard", "danger", userMessage(err))
		return
	}

	if _, err := respondToQuote(r.Context(), resp); err != nil {
		if IsKind(err, KindInternal) {
			log.Printf("[QUOTE] Response to %d failed: %v", resp.QuoteID, err)
		}
		redirectWithFlash(w, r, "/dashboard", "danger", userMessage(err))
		return
	}

	redirectWithFlash(w, r, "/dashboard", "success", "Quote response submitted successfully")
}

func submitDashboardUpdate(w http.ResponseWriter, r *http.Request) {
	if _, err := addUpdate(r.Context(), currentUser(r), parseUpdateForm(r)); err != nil {
		log.Printf("[UPDATE] Dashboard update failed: %v", err)
		redirectWithFlash(w, r, "/dashboard", "danger", userMessage(err))
		return
	}
	redirectWithFlash(w, r, "/dashboard", "success", "Update added successfully")
}

type quoteDetailsResponse struct {
	ID           int      `json:"id"`
	BusinessType string   `json:"business_type"`
	Requirements string   `json:"requirements"`
	ContactInfo  string   `json:"contact_info"`
	Status       string   `json:"status"`
	QuotePrice   *float64 `json:"quote_price"`
}

// QuoteDetails handles GET /quote_details/{quoteID} for the admin
func QuoteDetails(w http.ResponseWriter, r *http.Request) {
	if !currentUser(r).IsAdmin() {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Unauthorized"})
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "quoteID"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Quote not found"})
		return
	}

	quote, err := getQuote(r.Context(), id)
	if err != nil {
		if IsKind(err, KindNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Quote not found"})
			return
		}
		log.Printf("[QUOTE] Details for %d failed: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error fetching quote"})
		return
	}

	writeJSON(w, http.StatusOK, quoteDetailsResponse{
		ID:           quote.ID,
		BusinessType: quote.BusinessType,
		Requirements: quote.Requirements,
		ContactInfo:  quote.ContactInfo,
		Status:       quote.Status,
		QuotePrice:   quote.QuotePrice,
	})
}
