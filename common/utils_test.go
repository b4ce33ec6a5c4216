package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, 3, Coalesce(0, 0, 3))
}

func TestOfferKeepsLatest(t *testing.T) {
	ch := make(chan int, 1)
	Offer(ch, 1)
	Offer(ch, 2)
	Offer(ch, 3)
	assert.Equal(t, 3, <-ch)
	assert.Empty(t, ch)
}
