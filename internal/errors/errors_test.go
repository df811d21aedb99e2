package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	cause := errors.New("status 404")
	err := Wrap(cause, CodeNotFound, MsgNotFound)

	assert.Equal(t, MsgNotFound+": status 404", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "sin causa", (&AppError{Message: "sin causa"}).Error())
	assert.Nil(t, Wrap(nil, CodeTimeout, MsgTimeout))
}

func TestClassificationHelpers(t *testing.T) {
	notFound := fmt.Errorf("get user: %w", Wrap(errors.New("x"), CodeNotFound, "missing"))
	conflict := &AppError{Code: CodeConflict, Message: "dup", Field: "email"}
	plain := errors.New("plain")

	appErr, ok := As(notFound)
	require.True(t, ok)
	assert.Equal(t, "missing", appErr.Message)
	_, ok = As(plain)
	assert.False(t, ok)

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsConflict(notFound))
	assert.True(t, IsConflict(conflict))
	assert.False(t, IsNotFound(nil))

	assert.Equal(t, CodeNotFound, CodeOf(notFound))
	assert.Empty(t, CodeOf(plain))
	assert.Equal(t, "email", FieldOf(conflict))
	assert.Empty(t, FieldOf(notFound))
}
