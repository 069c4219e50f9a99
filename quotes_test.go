package main

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotedesk/constants"
)

func createTestCustomer(t *testing.T) *User {
	t.Helper()
	name := uniqueUsername()
	user, err := registerUser(context.Background(), RegisterForm{
		Username: name,
		Email:    name + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return user
}

// withQuoteIDs makes nextQuoteID return ids in order, repeating the last one
func withQuoteIDs(t *testing.T, ids ...int) {
	t.Helper()
	original := nextQuoteID
	i := 0
	nextQuoteID = func() int {
		id := ids[min(i, len(ids)-1)]
		i++
		return id
	}
	t.Cleanup(func() { nextQuoteID = original })
}

func sampleQuoteForm() QuoteRequestForm {
	return QuoteRequestForm{BusinessType: "Garage", Requirements: "Booking system", ContactInfo: "555-0199"}
}

func TestCreateQuoteRequestRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	owner := createTestCustomer(t)

	const taken, free = 424242, 424243
	require.NoError(t, db.Delete(&QuoteRequest{}, []int{taken, free}).Error)

	withQuoteIDs(t, taken)
	first, err := createQuoteRequest(ctx, owner, sampleQuoteForm())
	require.NoError(t, err)
	assert.Equal(t, taken, first.ID)

	withQuoteIDs(t, taken, taken, free)
	second, err := createQuoteRequest(ctx, owner, sampleQuoteForm())
	require.NoError(t, err)
	assert.Equal(t, free, second.ID)

	// the original row is untouched
	stored, err := getQuote(ctx, taken)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, stored.UserID)
}

func TestCreateQuoteRequestGivesUp(t *testing.T) {
	ctx := context.Background()
	owner := createTestCustomer(t)

	const taken = 434343
	require.NoError(t, db.Delete(&QuoteRequest{}, taken).Error)
	withQuoteIDs(t, taken)
	_, err := createQuoteRequest(ctx, owner, sampleQuoteForm())
	require.NoError(t, err)

	_, err = createQuoteRequest(ctx, owner, sampleQuoteForm())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInternal))
	assert.True(t, errors.Is(err, errQuoteIDsExhausted))
}

func TestCreateQuoteRequestRejectsAdmin(t *testing.T) {
	_, err := createQuoteRequest(context.Background(), &User{ID: testAdminUsername, Role: RoleAdmin}, sampleQuoteForm())
	assert.True(t, IsKind(err, KindUnauthorized))
}

func TestRandomQuoteIDsAreInRangeAndUnique(t *testing.T) {
	ctx := context.Background()
	owner := createTestCustomer(t)

	seen := map[int]bool{}
	for i := 0; i < 10; i++ {
		quote, err := createQuoteRequest(ctx, owner, sampleQuoteForm())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, quote.ID, constants.MIN_QUOTE_ID)
		assert.LessOrEqual(t, quote.ID, constants.MAX_QUOTE_ID)
		assert.False(t, seen[quote.ID])
		seen[quote.ID] = true
	}
}

func TestRespondToQuote(t *testing.T) {
	ctx := context.Background()
	owner := createTestCustomer(t)
	quote, err := createQuoteRequest(ctx, owner, sampleQuoteForm())
	require.NoError(t, err)

	price := 250.0
	updated, err := respondToQuote(ctx, QuoteResponse{QuoteID: quote.ID, Status: constants.STATUS_IN_PROGRESS, QuotePrice: &price})
	require.NoError(t, err)
	assert.Equal(t, constants.STATUS_IN_PROGRESS, updated.Status)
	require.NotNil(t, updated.QuotePrice)
	assert.Equal(t, 250.0, *updated.QuotePrice)

	// responding without a price clears it
	updated, err = respondToQuote(ctx, QuoteResponse{QuoteID: quote.ID, Status: constants.STATUS_DENIED})
	require.NoError(t, err)
	assert.Nil(t, updated.QuotePrice)

	stored, err := getQuote(ctx, quote.ID)
	require.NoError(t, err)
	require.Len(t, stored.StatusHistory, 2)
	assert.Equal(t, constants.STATUS_IN_PROGRESS, stored.StatusHistory[0].Status)
	assert.Equal(t, constants.STATUS_DENIED, stored.StatusHistory[1].Status)
	assert.Equal(t, owner.ID, stored.UserID)
	assert.Equal(t, "Garage", stored.BusinessType)
}

func TestRespondToMissingQuote(t *testing.T) {
	_, err := respondToQuote(context.Background(), QuoteResponse{QuoteID: 1, Status: constants.STATUS_APPROVED})
	assert.True(t, IsKind(err, KindNotFound))

	_, err = getQuote(context.Background(), 1)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestListQuotesVisibility(t *testing.T) {
	ctx := context.Background()
	alice := createTestCustomer(t)
	bob := createTestCustomer(t)

	aliceQuote, err := createQuoteRequest(ctx, alice, sampleQuoteForm())
	require.NoError(t, err)
	bobQuote, err := createQuoteRequest(ctx, bob, sampleQuoteForm())
	require.NoError(t, err)

	quotes, err := listQuotes(ctx, alice, "")
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, aliceQuote.ID, quotes[0].ID)

	admin := &User{ID: testAdminUsername, Role: RoleAdmin}
	all, err := listQuotes(ctx, admin, "")
	require.NoError(t, err)
	ids := make([]int, 0, len(all))
	for _, q := range all {
		ids = append(ids, q.ID)
	}
	assert.Contains(t, ids, aliceQuote.ID)
	assert.Contains(t, ids, bobQuote.ID)

	found, err := listQuotes(ctx, admin, " "+strconv.Itoa(bobQuote.ID)+" ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, bobQuote.ID, found[0].ID)

	none, err := listQuotes(ctx, admin, "garage")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestQuotesNewestFirst(t *testing.T) {
	ctx := context.Background()
	owner := createTestCustomer(t)

	var created []int
	for i := 0; i < 3; i++ {
		q, err := createQuoteRequest(ctx, owner, sampleQuoteForm())
		require.NoError(t, err)
		created = append(created, q.ID)
	}

	quotes, err := listQuotes(ctx, owner, "")
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	for i := 1; i < len(quotes); i++ {
		assert.False(t, quotes[i].CreatedAt.After(quotes[i-1].CreatedAt))
	}
}
