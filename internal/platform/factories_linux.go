//go:build linux && !(rp2040 || rp2350)

package platform

import (
	"fmt"
	"io"
	"os"

	"seeprom-go/config"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// openHardware opens a spidev port with the kernel CS disabled; the chip
// select is a plain GPIO so it can stay asserted across several transfers.
func openHardware(c config.Bus) (*Backend, error) {
	if c.Backend != config.BackendLinux {
		return nil, fmt.Errorf("%w: %q on linux", ErrUnsupported, c.Backend)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("platform: host init: %w", err)
	}
	port, err := spireg.Open(c.Port)
	if err != nil {
		return nil, fmt.Errorf("platform: open %q: %w", c.Port, err)
	}
	conn, err := port.Connect(physic.Frequency(c.Hz)*physic.Hertz, spi.Mode(c.Mode)|spi.NoCS, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("platform: connect %s: %w", port, err)
	}
	pin := gpioreg.ByName(c.CS)
	if pin == nil {
		port.Close()
		return nil, fmt.Errorf("platform: unknown cs pin %q", c.CS)
	}
	if err := pin.Out(gpio.High); err != nil {
		port.Close()
		return nil, fmt.Errorf("platform: cs %s: %w", pin, err)
	}
	return &Backend{
		SPI:   periphSPI{c: conn},
		CS:    periphCS{p: pin},
		close: port.Close,
	}, nil
}

// periphSPI adapts spi.Conn to the tinygo drivers.SPI shape.
type periphSPI struct{ c spi.Conn }

func (p periphSPI) Tx(w, r []byte) error {
	if r != nil && w == nil {
		w = make([]byte, len(r))
	}
	return p.c.Tx(w, r)
}

func (p periphSPI) Transfer(b byte) (byte, error) {
	var r [1]byte
	err := p.c.Tx([]byte{b}, r[:])
	return r[0], err
}

type periphCS struct{ p gpio.PinOut }

func (c periphCS) Low()  { _ = c.p.Out(gpio.Low) }
func (c periphCS) High() { _ = c.p.Out(gpio.High) }

// Console is where diagnostics are printed.
func Console() io.Writer { return os.Stdout }
