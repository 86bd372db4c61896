package datasource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/somatic-filter/internal/table"
)

func TestReferenceDataError(t *testing.T) {
	err := &ReferenceDataError{Table: "exac", Key: "1:100:A>T", Lines: []int{2, 9}}
	assert.Equal(t, "exac reference: duplicate join key 1:100:A>T at lines 2, 9", err.Error())

	err = &ReferenceDataError{Table: "exac", Key: "1:100:A>T"}
	assert.Equal(t, "exac reference: duplicate join key 1:100:A>T", err.Error())
}

func TestParseOptionalCount(t *testing.T) {
	for _, v := range []string{"", ".", "NA", "nan", "NaN", " "} {
		n, err := ParseOptionalCount("exac", 1, "exac_ac", v)
		require.NoError(t, err, v)
		assert.Equal(t, 0, n)
	}

	n, err := ParseOptionalCount("exac", 1, "exac_ac", "17")
	require.NoError(t, err)
	assert.Equal(t, 17, n)

	_, err = ParseOptionalCount("exac", 3, "exac_ac", "x")
	var perr *table.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Line)
}
