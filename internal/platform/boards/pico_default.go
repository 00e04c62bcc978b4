package boards

// PicoDefault is a Raspberry Pi Pico with the EEPROM on SPI0 (GP16-19).
var PicoDefault = func() Board {
	b := Board{
		Name:    "pico_default",
		GPIOMin: 0,
		GPIOMax: 28,
		SPI:     []string{"spi0", "spi1"},
		UART:    []string{"uart0", "uart1"},
	}
	b.Defaults.SPI0 = SPIPins{ID: "spi0", SCK: 18, SDO: 19, SDI: 16, CS: 17}
	b.Defaults.SPI1 = SPIPins{ID: "spi1", SCK: 10, SDO: 11, SDI: 12, CS: 13}
	b.Defaults.UART0_TX, b.Defaults.UART0_RX = 0, 1
	return b
}()
