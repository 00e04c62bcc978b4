package boards

// Board describes what the PCB/SoC can do (controllers present, GPIO range).
// It must not include operating parameters (clock rates, chip models).
type Board struct {
	Name             string
	GPIOMin, GPIOMax int

	// Controllers present (identities only; e.g. "spi0", "spi1", "uart0").
	SPI  []string
	UART []string

	// Recommended default wiring. Plain GPIO numbers; mapping to
	// machine.Pin happens in the platform layer.
	Defaults struct {
		SPI0, SPI1         SPIPins
		UART0_TX, UART0_RX int
	}
}

// SPIPins is the wiring of one SPI controller plus its EEPROM chip select.
type SPIPins struct {
	ID                string
	SCK, SDO, SDI, CS int
}

// Selected is the board the firmware is built for.
var Selected = PicoDefault

// ValidGPIO reports whether n is a GPIO on this board.
func (b Board) ValidGPIO(n int) bool { return n >= b.GPIOMin && n <= b.GPIOMax }

// SPIPins returns the default wiring for a controller. "" means the first.
func (b Board) SPIPins(id string) (SPIPins, bool) {
	if id == "" && len(b.SPI) > 0 {
		id = b.SPI[0]
	}
	for _, p := range []SPIPins{b.Defaults.SPI0, b.Defaults.SPI1} {
		if p.ID != "" && p.ID == id {
			return p, true
		}
	}
	return SPIPins{}, false
}
