package seeprom

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Family is the opcode set of a chip family.
type Family struct {
	WriteEnable byte
	ReadStatus  byte
	Read        byte
	Write       byte
}

// Family25xx covers the Microchip/Atmel/ST 25xx parts.
var Family25xx = Family{
	WriteEnable: 0x06,
	ReadStatus:  0x05,
	Read:        0x03,
	Write:       0x02,
}

// Chip describes one supported part.
type Chip struct {
	Name     string
	Size     int   // bytes
	AddrBits uint8 // 8, 9, 10 or 16
	Family   Family
}

// Ops returns the chip's opcode set, defaulting to Family25xx.
func (c Chip) Ops() Family {
	if c.Family == (Family{}) {
		return Family25xx
	}
	return c.Family
}

// Table is an ordered chip registry. An entry with Size == 0 terminates it.
type Table []Chip

// Chips is the built-in registry. Order matters: Lookup returns the first match.
var Chips = Table{
	{Name: "25010", Size: 128, AddrBits: 8},
	{Name: "25020", Size: 256, AddrBits: 8},
	{Name: "25040", Size: 512, AddrBits: 9},
	{Name: "25080", Size: 1024, AddrBits: 10},
	{Name: "25160", Size: 2048, AddrBits: 10},
	{Name: "25320", Size: 4096, AddrBits: 16},
	{Name: "25640", Size: 8192, AddrBits: 16},
	{Name: "25128", Size: 16384, AddrBits: 16},
	{Name: "25256", Size: 32768, AddrBits: 16},
	{Name: "25512", Size: 65536, AddrBits: 16},
}

// Lookup resolves name against the built-in registry.
func Lookup(name string) (Chip, error) { return Chips.Lookup(name) }

// Lookup returns the first chip whose name contains name.
// Matching is by substring, so "2504" selects "25040".
func (t Table) Lookup(name string) (Chip, error) {
	for _, c := range t {
		if c.Size == 0 {
			break
		}
		if strings.Contains(c.Name, name) {
			return c, nil
		}
	}
	return Chip{}, fmt.Errorf("%w: %q", ErrUnknownChip, name)
}

// Names lists the registry in table order.
func (t Table) Names() []string {
	out := make([]string, 0, len(t))
	for _, c := range t {
		if c.Size == 0 {
			break
		}
		out = append(out, c.Name)
	}
	return out
}

// Validate checks the registry invariants.
func (t Table) Validate() error {
	for i, c := range t {
		if c.Size == 0 {
			break
		}
		if err := c.validate(); err != nil {
			return fmt.Errorf("seeprom: chip %d: %w", i, err)
		}
	}
	return nil
}

// validate checks that every byte of c is addressable by its framing.
func (c Chip) validate() error {
	if c.Name == "" {
		return errors.New("unnamed chip")
	}
	if c.Size <= 0 {
		return fmt.Errorf("%s: no capacity", c.Name)
	}
	limit := 0
	switch c.AddrBits {
	case 8:
		limit = 1 << 8
	case 9:
		limit = 1 << 9
	case 10, 16:
		// Two address bytes.
		limit = 1 << 16
	default:
		return fmt.Errorf("%s: unsupported address width %d", c.Name, c.AddrBits)
	}
	if c.Size > limit {
		return fmt.Errorf("%s: %d bytes exceed %d-bit addressing", c.Name, c.Size, c.AddrBits)
	}
	return nil
}

// List writes the support list of the built-in registry.
func List(w io.Writer) { Chips.List(w) }

// List writes a numbered support list.
func (t Table) List(w io.Writer) {
	fmt.Fprintln(w, "SPI EEPROM Support List:")
	for i, name := range t.Names() {
		fmt.Fprintf(w, "%03d. %s\n", i+1, name)
	}
}
