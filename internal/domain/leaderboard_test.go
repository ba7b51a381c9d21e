package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeaderboardMode(t *testing.T) {
	assert.Equal(t, LeaderboardTop, ParseLeaderboardMode(""))
	assert.Equal(t, LeaderboardTop, ParseLeaderboardMode("top"))
	assert.Equal(t, LeaderboardBottom, ParseLeaderboardMode(" Bottom "))
	assert.Equal(t, LeaderboardTop, ParseLeaderboardMode("worst"))
}

func TestLeaderboardMode_Order(t *testing.T) {
	top := LeaderboardTop.Order()
	require.Len(t, top, 4)
	assert.Equal(t, OrderTerm{Key: KeyAvgRating, Desc: true}, top[0])
	assert.Equal(t, OrderTerm{Key: KeyCount, Desc: true}, top[1])
	assert.Equal(t, OrderTerm{Key: KeyYear, Desc: true}, top[2])
	assert.Equal(t, OrderTerm{Key: KeyID}, top[3])

	bottom := LeaderboardBottom.Order()
	assert.Equal(t, OrderTerm{Key: KeyAvgRating}, bottom[0])
	// Count still prefers more ratings in bottom mode.
	assert.Equal(t, OrderTerm{Key: KeyCount, Desc: true}, bottom[1])
}
