package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		name              string
		page, limit       int
		wantPage, wantLim int
	}{
		{"zero values take defaults", 0, 0, 1, 20},
		{"negative values take defaults", -3, -5, 1, 20},
		{"valid values pass through", 2, 50, 2, 50},
		{"limit capped at 100", 1, 1000, 1, 100},
		{"limit of one allowed", 1, 1, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, limit := NormalizePage(tc.page, tc.limit)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantLim, limit)
		})
	}
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, pageOffset(1, 20))
	assert.Equal(t, 20, pageOffset(2, 20))
	assert.Equal(t, 90, pageOffset(10, 10))
}
