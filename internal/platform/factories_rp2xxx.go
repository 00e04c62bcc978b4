//go:build rp2040 || rp2350

package platform

import (
	"fmt"
	"io"
	"machine"
	"strconv"

	"seeprom-go/config"
	"seeprom-go/internal/platform/boards"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

func openHardware(c config.Bus) (*Backend, error) {
	if c.Backend != config.BackendRP2 {
		return nil, fmt.Errorf("%w: %q on rp2", ErrUnsupported, c.Backend)
	}
	pins, ok := boards.Selected.SPIPins(c.Port)
	if !ok {
		return nil, fmt.Errorf("%w: spi port %q", ErrUnsupported, c.Port)
	}
	hw := machine.SPI0
	if pins.ID == "spi1" {
		hw = machine.SPI1
	}
	cs := pins.CS
	if c.CS != "" {
		n, err := strconv.Atoi(c.CS)
		if err != nil || !boards.Selected.ValidGPIO(n) {
			return nil, fmt.Errorf("platform: invalid cs pin %q", c.CS)
		}
		cs = n
	}

	if err := hw.Configure(machine.SPIConfig{
		Frequency: c.Hz,
		Mode:      c.Mode,
		SCK:       machine.Pin(pins.SCK),
		SDO:       machine.Pin(pins.SDO),
		SDI:       machine.Pin(pins.SDI),
	}); err != nil {
		return nil, fmt.Errorf("platform: %s: %w", pins.ID, err)
	}
	pin := machine.Pin(cs)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.High()

	return &Backend{SPI: hw, CS: pin}, nil
}

var console io.Writer

// Console returns UART0, configured on first use.
func Console() io.Writer {
	if console == nil {
		b := boards.Selected
		// Defaults inside uartx apply to zero fields.
		_ = uartx.UART0.Configure(uartx.UARTConfig{
			BaudRate: 115200,
			TX:       machine.Pin(b.Defaults.UART0_TX),
			RX:       machine.Pin(b.Defaults.UART0_RX),
		})
		console = uartx.UART0
	}
	return console
}
