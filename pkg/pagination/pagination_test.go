package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 40, NormalizeLimit(40))
	assert.Equal(t, MaxLimit, NormalizeLimit(5000))

	assert.Equal(t, 41, Params{Limit: 40}.LimitWithBuffer())
	assert.Equal(t, DefaultLimit+1, Params{}.LimitWithBuffer())
}

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	id := uuid.New()

	out, err := ParseCursor(EncodeCursor(createdAt, id))
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, createdAt.Equal(out.CreatedAt))
	assert.Equal(t, id, out.ID)
}

func TestParseCursorEmpty(t *testing.T) {
	out, err := ParseCursor("  ")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestParseCursorMalformed(t *testing.T) {
	_, err := ParseCursor("not-base64!!")
	require.Error(t, err)
}
