package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCaseAndAccents(t *testing.T) {
	assert.Equal(t, "MANZANA", Normalize("Manzana"))
	assert.Equal(t, "JOSE", Normalize("José"))
	assert.Equal(t, "JOSE", Normalize("  josé  "))
	assert.Equal(t, "ZONA URBANA", Normalize("Zona\t Urbana"))
	assert.Equal(t, Normalize("MANZANA"), Normalize("manzana"))
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))
}

func TestContainsNormalized(t *testing.T) {
	assert.True(t, ContainsNormalized("Número predial", "numero"))
	assert.True(t, ContainsNormalized("SECTOR", "Sector"))
	assert.False(t, ContainsNormalized("Sector", ""))
	assert.False(t, ContainsNormalized("Sector", "Manzana"))
}

func TestExtractCode(t *testing.T) {
	assert.Equal(t, "1", ExtractCode("01 - CONCRETO"))
	assert.Equal(t, "1", ExtractCode("1"))
	assert.Equal(t, "12", ExtractCode("012 - LADRILLO"))
	assert.Equal(t, "0", ExtractCode("00 - NINGUNO"))
	assert.Equal(t, "", ExtractCode("CONCRETO"))
	assert.Equal(t, "", ExtractCode("A - MALO"))
	assert.Equal(t, "", ExtractCode(""))
}
