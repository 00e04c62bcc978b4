package seeprom

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupSubstring(t *testing.T) {
	for _, c := range Chips {
		got, err := Lookup(c.Name)
		require.NoError(t, err, c.Name)
		assert.Equal(t, c, got)
	}

	got, err := Lookup("5040")
	require.NoError(t, err)
	assert.Equal(t, "25040", got.Name)
	assert.Equal(t, 512, got.Size)
	assert.EqualValues(t, 9, got.AddrBits)

	_, err = Lookup("nonexistent")
	assert.True(t, errors.Is(err, ErrUnknownChip))
}

func TestLookupTableOrderWins(t *testing.T) {
	// "AT25" matches both; the earlier entry is selected.
	tbl := Table{
		{Name: "AT25080", Size: 1024, AddrBits: 10},
		{Name: "AT25080B", Size: 2048, AddrBits: 16},
	}
	got, err := tbl.Lookup("AT25")
	require.NoError(t, err)
	assert.Equal(t, "AT25080", got.Name)

	got, err = tbl.Lookup("080B")
	require.NoError(t, err)
	assert.Equal(t, "AT25080B", got.Name)

	// Built-in table: "251" is contained in 25160 before 25128.
	got, err = Lookup("251")
	require.NoError(t, err)
	assert.Equal(t, "25160", got.Name)
}

func TestLookupStopsAtSentinel(t *testing.T) {
	tbl := Table{
		{Name: "25010", Size: 128, AddrBits: 8},
		{},
		{Name: "25020", Size: 256, AddrBits: 8},
	}
	_, err := tbl.Lookup("25020")
	assert.ErrorIs(t, err, ErrUnknownChip)
	assert.Equal(t, []string{"25010"}, tbl.Names())
}

func TestChipsValid(t *testing.T) {
	require.NoError(t, Chips.Validate())
	for _, c := range Chips {
		assert.Greater(t, c.Size, 0, c.Name)
		assert.Equal(t, Family25xx, c.Ops(), c.Name)
	}

	for _, bad := range []Table{
		{{Name: "x", Size: 64, AddrBits: 24}},
		{{Name: "", Size: 64, AddrBits: 8}},
		{{Name: "x", Size: -1, AddrBits: 8}},
		{{Name: "x", Size: 512, AddrBits: 8}},
		{{Name: "251024", Size: 131072, AddrBits: 16}},
	} {
		assert.Error(t, bad.Validate(), "%+v", bad[0])
	}
}

func TestList(t *testing.T) {
	var b bytes.Buffer
	List(&b)
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, len(Chips)+1)
	assert.Equal(t, "SPI EEPROM Support List:", lines[0])
	assert.Equal(t, "001. 25010", lines[1])
	assert.Equal(t, "010. 25512", lines[10])
}
