// Package seeprom drives 25xx-family SPI EEPROMs.
//
// The chips only offer single-byte random access. Range operations are built
// on a shadow image of the whole chip:
//
//	n, err := d.Init()          // resolve the configured part, returns its size
//	_, err = d.Read(buf, 0x10)  // reads the whole chip, copies the window out
//	_, err = d.Write(buf, 0x10) // read-modify-write of the whole chip
//	err = d.Erase(0, n)         // whole-chip erase skips the pre-read
//
// Every Write and Erase commits all Size bytes, one write cycle per byte.
// This is O(Size) bus transactions per call; target parts are at most 64 KiB.
//
// The driver is synchronous and holds no locks. Callers serialise access.
package seeprom

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"seeprom-go/x/timex"

	"tinygo.org/x/drivers"
)

// Errors returned by the driver.
var (
	ErrZeroLength  = errors.New("seeprom: zero length")
	ErrNotResolved = errors.New("seeprom: device not resolved")
	ErrUnknownChip = errors.New("seeprom: unknown chip")
	ErrOutOfRange  = errors.New("seeprom: out of range")
	ErrTimeout     = errors.New("seeprom: timeout")
)

// Progress reports the O(Size) phases of a call.
type Progress struct {
	Phase string // "read" or "commit"
	Done  int
	Total int
}

// Config controls the driver. Only Chip is required.
type Config struct {
	// Chip is matched by substring against Table.
	Chip string
	// Table defaults to Chips.
	Table Table
	// PollInterval is slept between status polls. Default 1µs.
	PollInterval time.Duration
	// ReadyTimeout bounds each write-enable and ready wait. Default 50 ms.
	ReadyTimeout time.Duration
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
	// Progress is called every ProgressStep bytes and at the end of a phase.
	Progress     func(Progress)
	ProgressStep int
}

// DefaultConfig returns the timing defaults for chip.
func DefaultConfig(chip string) Config {
	return Config{
		Chip:         chip,
		Table:        Chips,
		PollInterval: time.Microsecond,
		ReadyTimeout: 50 * time.Millisecond,
		ProgressStep: 256,
	}
}

// Device is one EEPROM behind a bus and chip-select line.
type Device struct {
	bus drivers.SPI
	cs  ChipSelect
	cfg Config
	log *slog.Logger

	chip Chip
	eng  *engine
}

// New creates a Device. It does not touch the bus; call Init.
func New(bus drivers.SPI, cs ChipSelect, cfg Config) *Device {
	def := DefaultConfig(cfg.Chip)
	if cfg.Table == nil {
		cfg.Table = def.Table
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = def.ReadyTimeout
	}
	if cfg.ProgressStep <= 0 {
		cfg.ProgressStep = def.ProgressStep
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Device{bus: bus, cs: cs, cfg: cfg, log: log}
}

// Init resolves the configured chip and returns its size in bytes.
// Resolution happens once; later calls return the same chip.
func (d *Device) Init() (int, error) {
	if d.eng != nil {
		return d.chip.Size, nil
	}
	chip, err := d.cfg.Table.Lookup(d.cfg.Chip)
	if err == nil {
		err = chip.validate()
	}
	if err != nil {
		d.log.Warn("spi eeprom not detected", "chip", d.cfg.Chip)
		return 0, fmt.Errorf("%w: %w", ErrNotResolved, err)
	}
	d.chip = chip
	d.eng = newEngine(d.bus, d.cs, chip, d.cfg)
	d.log.Info("spi eeprom chip", "chip", chip.Name, "size", chip.Size)
	return chip.Size, nil
}

// Chip returns the resolved chip; zero before Init.
func (d *Device) Chip() Chip { return d.chip }

// Size returns the resolved capacity; zero before Init.
func (d *Device) Size() int { return d.chip.Size }

// Read fills buf from offset from. The whole chip is read regardless of len(buf).
func (d *Device) Read(buf []byte, from int) (int, error) {
	if err := d.check(from, len(buf)); err != nil {
		return 0, err
	}
	sp := timex.Start()

	img := make([]byte, d.chip.Size)
	if err := d.load(img); err != nil {
		return 0, err
	}
	copy(buf, img[from:])

	d.log.Info("read", "bytes", len(buf), "chip", d.chip.Name, "addr", from, "elapsed", sp.End())
	return len(buf), nil
}

// Erase sets [offs, offs+n) to 0xFF and rewrites the whole chip.
func (d *Device) Erase(offs, n int) error {
	if err := d.check(offs, n); err != nil {
		return err
	}
	sp := timex.Start()

	img := blank(d.chip.Size)
	if !d.whole(offs, n) {
		if err := d.load(img); err != nil {
			return err
		}
		fill(img[offs:offs+n], 0xFF)
	}
	if err := d.commit(img); err != nil {
		return err
	}

	d.log.Info("erased", "bytes", n, "chip", d.chip.Name, "addr", offs, "elapsed", sp.End())
	return nil
}

// Write stores buf at offset to and rewrites the whole chip.
func (d *Device) Write(buf []byte, to int) (int, error) {
	if err := d.check(to, len(buf)); err != nil {
		return 0, err
	}
	sp := timex.Start()

	img := blank(d.chip.Size)
	if !d.whole(to, len(buf)) {
		if err := d.load(img); err != nil {
			return 0, err
		}
	}
	copy(img[to:], buf)
	if err := d.commit(img); err != nil {
		return 0, err
	}

	d.log.Info("wrote", "bytes", len(buf), "chip", d.chip.Name, "addr", to, "elapsed", sp.End())
	return len(buf), nil
}

// check runs before any bus activity.
func (d *Device) check(off, n int) error {
	if n == 0 {
		return ErrZeroLength
	}
	if d.eng == nil {
		return ErrNotResolved
	}
	if off < 0 || n < 0 || off > d.chip.Size || n > d.chip.Size-off {
		return fmt.Errorf("%w: offset %d length %d on %d bytes", ErrOutOfRange, off, n, d.chip.Size)
	}
	return nil
}

func (d *Device) whole(off, n int) bool { return off == 0 && n >= d.chip.Size }

// load reads the whole chip into img.
func (d *Device) load(img []byte) error {
	for i := range img {
		b, err := d.eng.readByte(uint16(i))
		if err != nil {
			return err
		}
		img[i] = b
		d.progress("read", i+1, len(img))
	}
	return nil
}

// commit writes every byte of img back.
func (d *Device) commit(img []byte) error {
	for i, b := range img {
		if err := d.eng.writeByte(uint16(i), b); err != nil {
			return err
		}
		d.progress("commit", i+1, len(img))
	}
	return nil
}

func (d *Device) progress(phase string, done, total int) {
	if d.cfg.Progress == nil {
		return
	}
	if done%d.cfg.ProgressStep == 0 || done == total {
		d.cfg.Progress(Progress{Phase: phase, Done: done, Total: total})
	}
}

func blank(n int) []byte {
	b := make([]byte, n)
	fill(b, 0xFF)
	return b
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
