package platform

import (
	"errors"
	"sync"

	"seeprom-go/drivers/seeprom"
)

// EventKind classifies one bus call seen by Sim.
type EventKind uint8

const (
	EvSelect EventKind = iota
	EvDeselect
	EvWrite
	EvRead
)

func (k EventKind) String() string {
	switch k {
	case EvSelect:
		return "select"
	case EvDeselect:
		return "deselect"
	case EvWrite:
		return "write"
	case EvRead:
		return "read"
	default:
		return "unknown"
	}
}

// Event is one entry of the ordered bus log.
// Data holds the bytes sent (EvWrite) or returned (EvRead).
type Event struct {
	Kind EventKind
	Data []byte
}

var ErrNotSelected = errors.New("sim: transfer without chip select")

// Sim is an in-memory 25xx EEPROM. It implements drivers.SPI and
// seeprom.ChipSelect so a Device can run against it on the host.
//
// Status register: bit0 write-in-progress, bit1 write-enable latch.
// The latch is consumed by every write frame.
type Sim struct {
	mu   sync.Mutex
	chip seeprom.Chip
	ops  seeprom.Family
	mem  []byte

	// BusyPolls is the number of status reads reporting WIP after a write.
	BusyPolls int
	// StuckBusy keeps WIP set forever.
	StuckBusy bool
	// StatusExtra is ORed into every status read (block-protect bits etc).
	StatusExtra byte
	// FailTx, when set, is returned by every transfer.
	FailTx error

	selected bool
	frame    []byte
	served   int // data bytes already returned in this frame
	wel      bool
	busy     int

	events []Event
	frames map[byte]int
}

// NewSim returns a blank (all 0xFF) chip.
func NewSim(chip seeprom.Chip) *Sim {
	mem := make([]byte, chip.Size)
	for i := range mem {
		mem[i] = 0xFF
	}
	return &Sim{
		chip:      chip,
		ops:       chip.Ops(),
		mem:       mem,
		BusyPolls: 2,
		frames:    make(map[byte]int),
	}
}

func (s *Sim) Chip() seeprom.Chip { return s.chip }

// ---- seeprom.ChipSelect ----

func (s *Sim) Low() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = true
	s.frame = s.frame[:0]
	s.served = 0
	s.events = append(s.events, Event{Kind: EvSelect})
}

func (s *Sim) High() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.selected {
		return
	}
	s.finish()
	s.selected = false
	s.events = append(s.events, Event{Kind: EvDeselect})
}

// ---- drivers.SPI ----

func (s *Sim) Tx(w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailTx != nil {
		return s.FailTx
	}
	if !s.selected {
		return ErrNotSelected
	}
	if w != nil {
		s.frame = append(s.frame, w...)
		s.events = append(s.events, Event{Kind: EvWrite, Data: append([]byte(nil), w...)})
	}
	if r != nil {
		for i := range r {
			r[i] = s.out()
		}
		s.events = append(s.events, Event{Kind: EvRead, Data: append([]byte(nil), r...)})
	}
	return nil
}

// Transfer clocks one command byte; the chip drives nothing back yet.
func (s *Sim) Transfer(b byte) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailTx != nil {
		return 0, s.FailTx
	}
	if !s.selected {
		return 0, ErrNotSelected
	}
	s.frame = append(s.frame, b)
	s.events = append(s.events, Event{Kind: EvWrite, Data: []byte{b}})
	return 0xFF, nil
}

// ---- inspection ----

// Bytes returns a copy of the array.
func (s *Sim) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.mem...)
}

// Load copies p into the array from address 0.
func (s *Sim) Load(p []byte) {
	s.mu.Lock()
	copy(s.mem, p)
	s.mu.Unlock()
}

// Events returns the ordered bus log.
func (s *Sim) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// Frames counts completed select brackets by opcode, with the A8 bit of
// 9-bit parts folded away.
func (s *Sim) Frames(op byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames[op]
}

// ResetLog clears the event log and frame counters.
func (s *Sim) ResetLog() {
	s.mu.Lock()
	s.events = nil
	s.frames = make(map[byte]int)
	s.mu.Unlock()
}

// ---- internals (mu held) ----

func (s *Sim) base(op byte) byte {
	if s.chip.AddrBits == 9 {
		if b := op &^ 0x08; b == s.ops.Read || b == s.ops.Write {
			return b
		}
	}
	return op
}

func (s *Sim) hdrLen() int {
	if s.chip.AddrBits < 10 {
		return 2
	}
	return 3
}

func (s *Sim) addr() int {
	var a int
	if s.chip.AddrBits < 10 {
		a = int(s.frame[1])
		if s.chip.AddrBits == 9 && s.frame[0]&0x08 != 0 {
			a |= 0x100
		}
	} else {
		a = int(s.frame[1])<<8 | int(s.frame[2])
	}
	return a % len(s.mem)
}

func (s *Sim) status() byte {
	st := s.StatusExtra
	if s.wel {
		st |= 0x02
	}
	switch {
	case s.StuckBusy:
		st |= 0x01
	case s.busy > 0:
		st |= 0x01
		s.busy--
	}
	return st
}

func (s *Sim) idle() bool { return !s.StuckBusy && s.busy == 0 }

// out returns the next byte the chip drives on MISO.
func (s *Sim) out() byte {
	if len(s.frame) == 0 {
		return 0xFF
	}
	switch s.base(s.frame[0]) {
	case s.ops.ReadStatus:
		return s.status()
	case s.ops.Read:
		if len(s.frame) < s.hdrLen() {
			return 0xFF
		}
		b := s.mem[(s.addr()+s.served)%len(s.mem)]
		s.served++
		return b
	}
	return 0xFF
}

// finish applies a completed frame on chip-select release.
func (s *Sim) finish() {
	if len(s.frame) == 0 {
		return
	}
	op := s.base(s.frame[0])
	s.frames[op]++
	switch op {
	case s.ops.WriteEnable:
		if s.idle() {
			s.wel = true
		}
	case s.ops.Write:
		hdr := s.hdrLen()
		if len(s.frame) <= hdr || !s.wel || !s.idle() {
			return
		}
		a := s.addr()
		for i, b := range s.frame[hdr:] {
			s.mem[(a+i)%len(s.mem)] = b
		}
		s.wel = false
		s.busy = s.BusyPolls
	}
}
