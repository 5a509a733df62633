// internal/workers/reading/canonicalize-card/handler_test.go
package canonicalizecard

import (
	"strings"
	"testing"

	"moonlight-diary/internal/common/logger"
	"moonlight-diary/internal/models"

	"github.com/stretchr/testify/assert"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func TestHandler_Canonicalize(t *testing.T) {
	tests := []struct {
		input string
		want  models.CardID
	}{
		{"The_Fool", "the_fool"},
		{"the_fool", "the_fool"},
		{"fool", "the_fool"},
		{"THE FOOL", "the_fool"},
		{"  the   high  priestess ", "the_high_priestess"},
		{"High-Priestess", "the_high_priestess"},
		{"Wheel of Fortune", "the_wheel_of_fortune"},
		{"strength", "the_strength"},
		{"Judgment", "the_judgement"},
		{"ace of cups", "ace_of_cups"},
		{"Three_Of_Swords", "three_of_swords"},
		{"knight-of-pentacles", "knight_of_pentacles"},
		{"ｔｈｅ＿ｍｏｏｎ", "the_moon"},
		{"", "the_sun"},
		{"   ", "the_sun"},
		{"the_joker", "the_sun"},
		{"eleven_of_cups", "the_sun"},
		{"../../etc/passwd", "the_sun"},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Canonicalize(tt.input))
		})
	}
}

func TestHandler_Canonicalize_CatalogMembersAreFixedPoints(t *testing.T) {
	h := newTestHandler(t)
	for _, id := range models.Catalog() {
		out := h.Execute(&Input{CardName: string(id)})
		assert.Equal(t, id, out.CardID)
		assert.False(t, out.Substituted)
		assert.Equal(t, "/tarot/"+string(id)+".jpg", out.ImagePath)
	}
}

func TestHandler_Canonicalize_MajorsPrefixedOnce(t *testing.T) {
	h := newTestHandler(t)
	for _, bare := range models.MajorArcana {
		spaced := strings.ReplaceAll(bare, "_", " ")
		for _, in := range []string{bare, "the_" + bare, "The " + spaced, strings.ToUpper(spaced), "the_the_" + bare} {
			got := h.Canonicalize(in)
			assert.Equal(t, models.CardID("the_"+bare), got, in)
			assert.False(t, strings.HasPrefix(string(got), "the_the_"))
		}
	}
}

func TestHandler_Canonicalize_AlwaysInCatalogAndIdempotent(t *testing.T) {
	h := newTestHandler(t)
	inputs := []string{"", "x", "The_Fool", "태양", "the sun!", "Ten Of Wands", "queen of hearts", "the_", "the "}
	for _, in := range inputs {
		once := h.Canonicalize(in)
		assert.True(t, models.InCatalog(once), in)
		assert.Equal(t, once, h.Canonicalize(string(once)), in)
	}
}

func TestNewHandler_InvalidDefaultFallsBackToSun(t *testing.T) {
	cfg := &Config{DefaultCard: "nope"}
	h := NewHandler(cfg, logger.NewNoOpLogger())
	out := h.Execute(&Input{CardName: "??"})
	assert.Equal(t, models.DefaultCardID, out.CardID)
	assert.True(t, out.Substituted)
	assert.Equal(t, models.CardID("nope"), cfg.DefaultCard, "caller config must stay untouched")
}
