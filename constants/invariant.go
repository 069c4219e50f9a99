package constants

const (
	MIN_QUOTE_ID          = 100000
	MAX_QUOTE_ID          = 999999
	MAX_QUOTE_ID_ATTEMPTS = 20

	UPDATE_TIMESTAMP_LAYOUT = "2006-01-02 15:04:05"

	SESSION_COOKIE_NAME = "quotedesk_session"
	FLASH_COOKIE_NAME   = "quotedesk_flash"

	REVIEWS_CACHE_KEY = "reviews"
	UPDATES_CACHE_KEY = "updates"
)

// Quote statuses. New requests start as STATUS_PENDING; the admin response
// form accepts any of QUOTE_RESPONSE_STATUSES.
const (
	STATUS_PENDING                   = "Pending"
	STATUS_PENDING_APPROVAL          = "Pending Approval"
	STATUS_APPROVED                  = "Approved"
	STATUS_DENIED                    = "Denied"
	STATUS_IN_PROGRESS               = "In Progress"
	STATUS_VIEW_UPDATES              = "View Updates"
	STATUS_COMPLETE_AWAITING_PAYMENT = "Complete Awaiting Payment"
	STATUS_COMPLETE                  = "Complete"
)

var QUOTE_RESPONSE_STATUSES = []string{
	STATUS_PENDING_APPROVAL,
	STATUS_APPROVED,
	STATUS_DENIED,
	STATUS_IN_PROGRESS,
	STATUS_VIEW_UPDATES,
	STATUS_COMPLETE_AWAITING_PAYMENT,
	STATUS_COMPLETE,
}
