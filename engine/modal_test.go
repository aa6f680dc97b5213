package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideSelection(t *testing.T) {
	one := DecideSelection(1)
	assert.True(t, one.AutoSelect)
	assert.Equal(t, 1, one.Count)

	many := DecideSelection(4)
	assert.False(t, many.AutoSelect)
	assert.Equal(t, 4, many.Count)

	none := DecideSelection(0)
	assert.False(t, none.AutoSelect)
	assert.Equal(t, 0, none.Count)

	indeterminate := DecideSelection(-1)
	assert.False(t, indeterminate.AutoSelect)
	assert.Equal(t, -1, indeterminate.Count)
}

func TestParseResultCount(t *testing.T) {
	assert.Equal(t, 3, ParseResultCount("Se encontraron 3 registros"))
	assert.Equal(t, 42, ParseResultCount("1 - 10 de 42"))
	assert.Equal(t, 0, ParseResultCount("0 registros"))
	assert.Equal(t, -1, ParseResultCount("Sin resultados"))
	assert.Equal(t, -1, ParseResultCount(""))
}
