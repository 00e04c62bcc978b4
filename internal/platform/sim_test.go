package platform

import (
	"testing"

	"seeprom-go/config"
	"seeprom-go/drivers/seeprom"
	"seeprom-go/errcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustChip(t *testing.T, name string) seeprom.Chip {
	t.Helper()
	c, err := seeprom.Lookup(name)
	require.NoError(t, err)
	return c
}

func status(t *testing.T, s *Sim) byte {
	t.Helper()
	var r [1]byte
	s.Low()
	_, err := s.Transfer(0x05)
	require.NoError(t, err)
	require.NoError(t, s.Tx(nil, r[:]))
	s.High()
	return r[0]
}

func bracket(t *testing.T, s *Sim, w ...byte) {
	t.Helper()
	s.Low()
	require.NoError(t, s.Tx(w, nil))
	s.High()
}

func TestSimWriteNeedsLatch(t *testing.T) {
	s := NewSim(mustChip(t, "25320"))
	s.BusyPolls = 2

	bracket(t, s, 0x02, 0x00, 0x10, 0xAB)
	assert.Equal(t, byte(0xFF), s.Bytes()[0x10], "write without WREN must be ignored")

	bracket(t, s, 0x06)
	assert.Equal(t, byte(0x02), status(t, s))

	bracket(t, s, 0x02, 0x00, 0x10, 0xAB)
	assert.Equal(t, byte(0xAB), s.Bytes()[0x10])

	// Busy for two polls, latch consumed.
	assert.Equal(t, byte(0x01), status(t, s))
	assert.Equal(t, byte(0x01), status(t, s))
	assert.Equal(t, byte(0x00), status(t, s))
}

func TestSimNineBitAddressing(t *testing.T) {
	s := NewSim(mustChip(t, "25040"))
	s.BusyPolls = 0

	bracket(t, s, 0x06)
	bracket(t, s, 0x0A, 0x50, 0x77) // WRITE | A8, low byte 0x50
	assert.Equal(t, byte(0x77), s.Bytes()[0x150])
	assert.Equal(t, byte(0xFF), s.Bytes()[0x050])

	var r [1]byte
	s.Low()
	require.NoError(t, s.Tx([]byte{0x0B, 0x50}, nil))
	require.NoError(t, s.Tx(nil, r[:]))
	s.High()
	assert.Equal(t, byte(0x77), r[0])

	assert.Equal(t, 1, s.Frames(0x02))
	assert.Equal(t, 1, s.Frames(0x03))
}

func TestSimSequentialRead(t *testing.T) {
	s := NewSim(mustChip(t, "25010"))
	s.Load([]byte{1, 2, 3, 4})

	r := make([]byte, 3)
	s.Low()
	require.NoError(t, s.Tx([]byte{0x03, 0x01}, nil))
	require.NoError(t, s.Tx(nil, r))
	s.High()
	assert.Equal(t, []byte{2, 3, 4}, r)
}

func TestSimRequiresSelect(t *testing.T) {
	s := NewSim(mustChip(t, "25010"))
	assert.ErrorIs(t, s.Tx([]byte{0x05}, nil), ErrNotSelected)
	_, err := s.Transfer(0x05)
	assert.ErrorIs(t, err, ErrNotSelected)
}

func TestSimEventLog(t *testing.T) {
	s := NewSim(mustChip(t, "25010"))
	bracket(t, s, 0x06)
	ev := s.Events()
	require.Len(t, ev, 3)
	assert.Equal(t, EvSelect, ev[0].Kind)
	assert.Equal(t, Event{Kind: EvWrite, Data: []byte{0x06}}, ev[1])
	assert.Equal(t, "deselect", ev[2].Kind.String())

	s.ResetLog()
	assert.Empty(t, s.Events())
	assert.Zero(t, s.Frames(0x06))
}

func TestOpenSim(t *testing.T) {
	c := config.Default()
	c.Chip = "25160"
	b, err := Open(c)
	require.NoError(t, err)
	defer b.Close()
	require.NotNil(t, b.Sim)
	assert.Equal(t, 2048, b.Sim.Chip().Size)
	assert.Same(t, b.Sim, b.SPI)
}

func TestOpenSimUnknownChip(t *testing.T) {
	c := config.Default()
	c.Chip = "93c46"
	_, err := Open(c)
	assert.ErrorIs(t, err, seeprom.ErrUnknownChip)
}

func TestOpenForeignBackend(t *testing.T) {
	// The rp2 backend is never available on a host build.
	c := config.Default()
	c.Bus.Backend = config.BackendRP2
	_, err := Open(c)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Equal(t, errcode.Unsupported, errcode.Of(err))
}
