// Package platform opens the SPI bus and chip-select line an EEPROM sits on.
//
// The simulated backend is available everywhere. Hardware backends are
// selected by build tags: periph.io spidev on Linux hosts, machine.SPI on RP2.
package platform

import (
	"fmt"

	"seeprom-go/config"
	"seeprom-go/drivers/seeprom"
	"seeprom-go/errcode"

	"tinygo.org/x/drivers"
)

var ErrUnsupported = fmt.Errorf("platform: %w backend", errcode.Unsupported)

// Backend is an opened bus. Close releases it.
type Backend struct {
	SPI drivers.SPI
	CS  seeprom.ChipSelect
	Sim *Sim // non-nil for the sim backend

	close func() error
}

func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open returns the backend named by c.Bus.Backend.
func Open(c config.Config) (*Backend, error) {
	if c.Bus.Backend == config.BackendSim {
		chip, err := seeprom.Lookup(c.Chip)
		if err != nil {
			return nil, err
		}
		s := NewSim(chip)
		return &Backend{SPI: s, CS: s, Sim: s}, nil
	}
	return openHardware(c.Bus)
}
