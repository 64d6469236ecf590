package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTaken = errors.New("already taken")

func TestFieldError(t *testing.T) {
	err := NewFieldError("name", errTaken)

	assert.Equal(t, "name: already taken", err.Error())
	assert.Equal(t, "already taken", err.Message())
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, errTaken)
}

func TestAsFieldError(t *testing.T) {
	wrapped := fmt.Errorf("create author: %w", NewFieldError("phone_number", errTaken))

	fe, ok := AsFieldError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "phone_number", fe.Field)

	_, ok = AsFieldError(errors.New("boom"))
	assert.False(t, ok)
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, OrderAsc, ParseSortOrder("asc"))
	assert.Equal(t, OrderDesc, ParseSortOrder("desc"))
	assert.Equal(t, OrderDesc, ParseSortOrder(""))
	assert.Equal(t, OrderDesc, ParseSortOrder("ASC; DROP TABLE"))
}
