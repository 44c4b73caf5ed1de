package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s(v string) *string { return &v }

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		raw  *string
		want *float64
	}{
		{s("$19.99"), fptr(19.99)},
		{s(" 5 "), fptr(5)},
		{s("$ 1200.50"), fptr(1200.50)},
		{s("-3"), fptr(-3)},
		{s("abc"), nil},
		{s(""), nil},
		{s("$"), nil},
		{s("  $  "), nil},
		{s("12.3.4"), nil},
		{s("nan"), nil},
		{nil, nil},
	}

	for _, tt := range tests {
		got := CleanPrice(tt.raw)
		if tt.want == nil {
			assert.Nil(t, got, "CleanPrice(%v)", deref(tt.raw))
			continue
		}
		require.NotNil(t, got, "CleanPrice(%q)", *tt.raw)
		assert.InDelta(t, *tt.want, *got, 1e-9, "CleanPrice(%q)", *tt.raw)
	}
}

func TestCleanCategory(t *testing.T) {
	tests := []struct {
		raw  *string
		want *string
	}{
		{s("  electronics "), s("Electronics")},
		{s("HOME goods"), s("Home goods")},
		{s("tools"), s("Tools")},
		{s("éclairage"), s("Éclairage")},
		{s("   "), nil},
		{nil, nil},
	}

	for _, tt := range tests {
		got := CleanCategory(tt.raw)
		if tt.want == nil {
			assert.Nil(t, got)
			continue
		}
		require.NotNil(t, got)
		assert.Equal(t, *tt.want, *got)
	}
}

func TestCleanStock(t *testing.T) {
	tests := []struct {
		raw  *string
		want *int
	}{
		{s("Out of Stock"), iptr(0)},
		{s("  OUT OF STOCK  "), iptr(0)},
		{s("15"), iptr(15)},
		{s(" 7 "), iptr(7)},
		{s("many"), nil},
		{s("15.0"), nil},
		{s("-2"), nil},
		{s(""), nil},
		{nil, nil},
	}

	for _, tt := range tests {
		got := CleanStock(tt.raw)
		if tt.want == nil {
			assert.Nil(t, got, "CleanStock(%v)", deref(tt.raw))
			continue
		}
		require.NotNil(t, got, "CleanStock(%q)", *tt.raw)
		assert.Equal(t, *tt.want, *got)
	}
}

func TestCoerceNumber(t *testing.T) {
	got := CoerceNumber(s(" 12.5"))
	require.NotNil(t, got)
	assert.InDelta(t, 12.5, *got, 1e-9)

	assert.Nil(t, CoerceNumber(s("$12")), "no currency stripping")
	assert.Nil(t, CoerceNumber(s("ten")))
	assert.Nil(t, CoerceNumber(nil))
}

func TestCleanText(t *testing.T) {
	got := CleanText(s("  Widget  "))
	require.NotNil(t, got)
	assert.Equal(t, "Widget", *got)
	assert.Nil(t, CleanText(s(" \t ")))
	assert.Nil(t, CleanText(nil))
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func deref(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}
