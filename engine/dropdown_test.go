package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchOptionExact(t *testing.T) {
	options := []string{"01 - CONCRETO", "02 - LADRILLO", "03 - ADOBE"}
	assert.Equal(t, 1, MatchOption("02 - Ladrillo", options, false))
	assert.Equal(t, 1, MatchOption("02 - LADRILLO", options, true))
}

func TestMatchOptionByBareCode(t *testing.T) {
	options := []string{"01 - CONCRETO", "02 - LADRILLO", "10 - MADERA"}
	assert.Equal(t, 0, MatchOption("1", options, false))
	assert.Equal(t, 0, MatchOption("01", options, false))
	assert.Equal(t, 2, MatchOption("10", options, false))
}

func TestMatchOptionSingleLetter(t *testing.T) {
	// "A" must hit the exact single-letter option, never substring-match
	// into "MALO" or "BUENA".
	options := []string{"MALO", "BUENA", "A"}
	assert.Equal(t, 2, MatchOption("A", options, false))

	noLetter := []string{"MALO", "BUENA"}
	assert.Equal(t, -1, MatchOption("A", noLetter, false))
}

func TestMatchOptionSubstring(t *testing.T) {
	options := []string{"ZONA URBANA CENTRO", "ZONA RURAL"}
	assert.Equal(t, 0, MatchOption("urbana", options, false))
	// Containment works both directions.
	assert.Equal(t, 1, MatchOption("la zona rural del municipio", options, false))
}

func TestMatchOptionPrefixFallback(t *testing.T) {
	options := []string{"RESIDENCIAL ESTRATO DOS", "COMERCIAL"}
	assert.Equal(t, 0, MatchOption("RESTAURADO", options, false))
}

func TestMatchOptionExactModeRejectsFuzzy(t *testing.T) {
	options := []string{"01 - CONCRETO"}
	assert.Equal(t, -1, MatchOption("CONCRE", options, true))
	assert.Equal(t, -1, MatchOption("1", options, true))
}

func TestMatchOptionEmptyTarget(t *testing.T) {
	assert.Equal(t, -1, MatchOption("", []string{"A", "B"}, false))
	assert.Equal(t, -1, MatchOption("   ", []string{"A", "B"}, false))
}

func TestMatchOptionAccentInsensitive(t *testing.T) {
	options := []string{"JOSÉ MARÍA"}
	assert.Equal(t, 0, MatchOption("jose maria", options, false))
}
