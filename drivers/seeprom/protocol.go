package seeprom

import (
	"fmt"
	"time"

	"tinygo.org/x/drivers"
)

// Status register bits.
const (
	statusBusy = 0x01 // write in progress
	statusWEL  = 0x02 // write-enable latch

	// A8 of 9-bit parts travels in bit 3 of the opcode.
	opA8 = 0x08
)

// ChipSelect drives the active-low CS line. machine.Pin satisfies it.
type ChipSelect interface {
	Low()
	High()
}

// engine issues single-byte transactions for one resolved chip.
type engine struct {
	bus  drivers.SPI
	cs   ChipSelect
	chip Chip
	ops  Family

	interval time.Duration
	timeout  time.Duration

	// Fixed buffers to avoid per-byte allocations.
	cmd [4]byte
	r   [1]byte
}

func newEngine(bus drivers.SPI, cs ChipSelect, chip Chip, cfg Config) *engine {
	return &engine{
		bus:      bus,
		cs:       cs,
		chip:     chip,
		ops:      chip.Ops(),
		interval: cfg.PollInterval,
		timeout:  cfg.ReadyTimeout,
	}
}

// command sends a one-byte command in its own select bracket.
func (e *engine) command(op byte) error {
	e.cs.Low()
	_, err := e.bus.Transfer(op)
	e.cs.High()
	if err != nil {
		return fmt.Errorf("seeprom: command 0x%02x: %w", op, err)
	}
	return nil
}

func (e *engine) readStatus() (byte, error) {
	e.cs.Low()
	if _, err := e.bus.Transfer(e.ops.ReadStatus); err != nil {
		e.cs.High()
		return 0, fmt.Errorf("seeprom: read status: %w", err)
	}
	err := e.bus.Tx(nil, e.r[:])
	e.cs.High()
	if err != nil {
		return 0, fmt.Errorf("seeprom: read status: %w", err)
	}
	return e.r[0], nil
}

// waitReady polls the status register until the internal write cycle ends.
func (e *engine) waitReady() error {
	deadline := time.Now().Add(e.timeout)
	for {
		st, err := e.readStatus()
		if err != nil {
			return err
		}
		if st&statusBusy == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		time.Sleep(e.interval)
	}
}

// writeEnable arms the latch. The status must read back exactly 0x02;
// any other bit set (block protect, busy) keeps the loop polling.
func (e *engine) writeEnable() error {
	deadline := time.Now().Add(e.timeout)
	for {
		if err := e.command(e.ops.WriteEnable); err != nil {
			return err
		}
		time.Sleep(e.interval)

		st, err := e.readStatus()
		if err != nil {
			return err
		}
		if st == statusWEL {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		time.Sleep(e.interval)
	}
}

// frame fills e.cmd with opcode and address and returns the header length.
func (e *engine) frame(op byte, addr uint16) int {
	if e.chip.AddrBits == 9 && addr > 0xFF {
		op |= opA8
	}
	e.cmd[0] = op
	if e.chip.AddrBits < 10 {
		e.cmd[1] = byte(addr)
		return 2
	}
	e.cmd[1] = byte(addr >> 8)
	e.cmd[2] = byte(addr)
	return 3
}

func (e *engine) readByte(addr uint16) (byte, error) {
	n := e.frame(e.ops.Read, addr)

	e.cs.Low()
	if err := e.bus.Tx(e.cmd[:n], nil); err != nil {
		e.cs.High()
		return 0, fmt.Errorf("seeprom: read 0x%04x: %w", addr, err)
	}
	err := e.bus.Tx(nil, e.r[:])
	e.cs.High()
	if err != nil {
		return 0, fmt.Errorf("seeprom: read 0x%04x: %w", addr, err)
	}
	return e.r[0], nil
}

// writeByte programs one byte. The latch is consumed by every write cycle,
// so it is re-armed each time.
func (e *engine) writeByte(addr uint16, data byte) error {
	if err := e.writeEnable(); err != nil {
		return err
	}

	n := e.frame(e.ops.Write, addr)
	e.cmd[n] = data

	e.cs.Low()
	err := e.bus.Tx(e.cmd[:n+1], nil)
	e.cs.High()
	if err != nil {
		return fmt.Errorf("seeprom: write 0x%04x: %w", addr, err)
	}
	return e.waitReady()
}
