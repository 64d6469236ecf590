package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopAlwaysMisses(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "author:1", map[string]string{"name": "x"}, time.Minute))

	var dest map[string]string
	found, err := c.Get(ctx, "author:1", &dest)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, dest)

	assert.NoError(t, c.Delete(ctx, "author:1"))
	assert.NoError(t, c.Ping(ctx))
}
