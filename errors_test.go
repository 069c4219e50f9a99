package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("saving: %w", internalError("failed to save review", cause))

	assert.True(t, IsKind(err, KindInternal))
	assert.False(t, IsKind(err, KindValidation))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Something went wrong, please try again", userMessage(err))

	notFound := newAppError(KindNotFound, "Quote not found")
	assert.Equal(t, "NotFound: Quote not found", notFound.Error())
	assert.Equal(t, "Quote not found", userMessage(notFound))

	assert.False(t, IsKind(cause, KindInternal))
	assert.Equal(t, "Something went wrong, please try again", userMessage(cause))
}
