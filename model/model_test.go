package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKeyIsUnordered(t *testing.T) {
	assert.Equal(t, "3:9", PairKey(3, 9))
	assert.Equal(t, PairKey(3, 9), PairKey(9, 3))
	assert.NotEqual(t, PairKey(3, 9), PairKey(3, 10))
}

func TestFriendLinkPeerOf(t *testing.T) {
	link := &FriendLink{RequesterId: 1, RecipientId: 2, Status: LinkStatusPending}
	assert.Equal(t, int64(2), link.PeerOf(1))
	assert.Equal(t, int64(1), link.PeerOf(2))
	assert.Equal(t, int64(0), link.PeerOf(3))
	assert.False(t, link.IsAccepted())

	link.Status = LinkStatusAccepted
	assert.True(t, link.IsAccepted())
}
