package main

import (
	"fmt"
	"log/slog"
	"time"

	"seeprom-go/config"
	"seeprom-go/drivers/seeprom"
	"seeprom-go/errcode"
	"seeprom-go/internal/platform"
)

// Board wiring: AT25040 on spi0, CS on GP17.
const boardConfig = `{
	"chip": "25040",
	"bus": {"backend": "rp2", "port": "spi0", "cs": "17", "hz": 1000000, "mode": 0},
	"poll": {"interval_us": 1, "ready_timeout_ms": 50}
}`

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	out := platform.Console()
	fmt.Fprintln(out, "boot")

	if err := probe(); err != nil {
		fmt.Fprintf(out, "no persistent storage: %s: %v\n", errcode.Of(err), err)
	}

	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	for t := range tick.C {
		fmt.Fprintln(out, t.Format("15:04:05"), "Heartbeat")
	}
}

// probe resolves the on-board EEPROM and dumps its first line.
func probe() error {
	out := platform.Console()
	cfg, err := config.Decode(boardConfig)
	if err != nil {
		return err
	}
	b, err := platform.Open(cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	log := slog.New(slog.NewTextHandler(out, nil))
	seeprom.List(out)

	d := seeprom.New(b.SPI, b.CS, cfg.Driver(log))
	if _, err := d.Init(); err != nil {
		return err
	}
	head := make([]byte, 16)
	if _, err := d.Read(head, 0); err != nil {
		return err
	}
	fmt.Fprintf(out, "%04x: % x\n", 0, head)
	return nil
}
