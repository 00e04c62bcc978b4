// cmd/seeprom is a host programmer for 25xx SPI EEPROMs.
//
//	seeprom -list
//	seeprom -config board.yaml -r dump.bin
//	seeprom -backend linux -chip 25160 -w boot.bin -verify
//	seeprom -chip 25040 -e -a 0x100 -n 16
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"seeprom-go/config"
	"seeprom-go/drivers/seeprom"
	"seeprom-go/errcode"
	"seeprom-go/internal/platform"
)

var errVerify = errors.New("verify mismatch")

type options struct {
	config   string
	backend  string
	chip     string
	list     bool
	readTo   string
	writeFm  string
	erase    bool
	offset   string
	length   string
	verify   bool
	verbose  bool
	simImage string
}

func main() {
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if err := run(o, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "seeprom: %v (%s)\n", err, errcode.Of(err))
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("seeprom", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.config, "config", "", "YAML config file")
	fs.StringVar(&o.backend, "backend", "", "bus backend: linux, sim (overrides config)")
	fs.StringVar(&o.chip, "chip", "", "chip name or substring (overrides config)")
	fs.BoolVar(&o.list, "list", false, "list supported chips")
	fs.StringVar(&o.readTo, "r", "", "read chip contents to file")
	fs.StringVar(&o.writeFm, "w", "", "write chip contents from file")
	fs.BoolVar(&o.erase, "e", false, "erase")
	fs.StringVar(&o.offset, "a", "0", "start offset")
	fs.StringVar(&o.length, "n", "0", "length in bytes (0 = to end of chip)")
	fs.BoolVar(&o.verify, "verify", false, "read back and compare after write")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.StringVar(&o.simImage, "sim-image", "", "sim backend: raw image loaded before and saved after")
	err := fs.Parse(args)
	return o, err
}

func run(o options, stdout, stderr io.Writer) error {
	if o.list {
		seeprom.List(stdout)
		return nil
	}

	cfg := config.Default()
	if o.config != "" {
		c, err := config.Load(o.config)
		if err != nil {
			return errcode.Invalid("config", err)
		}
		cfg = c
	}
	if o.backend != "" {
		cfg.Bus.Backend = o.backend
	}
	if o.chip != "" {
		cfg.Chip = o.chip
	}
	if err := cfg.Validate(); err != nil {
		return errcode.Invalid("config", err)
	}
	off, err := parseInt(o.offset)
	if err != nil {
		return err
	}
	n, err := parseInt(o.length)
	if err != nil {
		return err
	}
	if off < 0 || n < 0 {
		return errcode.Invalid("flags", fmt.Errorf("negative offset %d or length %d", off, n))
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	b, err := platform.Open(cfg)
	if err != nil {
		return errcode.Wrap("open", err)
	}
	defer b.Close()

	if b.Sim != nil && o.simImage != "" {
		img, err := os.ReadFile(o.simImage)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		b.Sim.Load(img)
		defer func() {
			if err := os.WriteFile(o.simImage, b.Sim.Bytes(), 0o644); err != nil {
				log.Error("save sim image", "path", o.simImage, "err", err)
			}
		}()
	}

	dc := cfg.Driver(log)
	dc.Progress = func(p seeprom.Progress) {
		log.Debug("progress", "phase", p.Phase, "done", p.Done, "total", p.Total)
	}
	d := seeprom.New(b.SPI, b.CS, dc)
	size, err := d.Init()
	if err != nil {
		return errcode.Wrap("init", err)
	}

	if off >= size {
		return errcode.Invalid("flags", fmt.Errorf("offset 0x%x outside %d-byte chip", off, size))
	}
	if n == 0 {
		n = size - off
	}

	switch {
	case o.erase:
		return errcode.Wrap("erase", d.Erase(off, n))
	case o.writeFm != "":
		return write(d, o.writeFm, off, o.verify)
	case o.readTo != "":
		buf := make([]byte, n)
		if _, err := d.Read(buf, off); err != nil {
			return errcode.Wrap("read", err)
		}
		return os.WriteFile(o.readTo, buf, 0o644)
	}
	return nil
}

func write(d *seeprom.Device, path string, off int, check bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := d.Write(data, off); err != nil {
		return errcode.Wrap("write", err)
	}
	if !check {
		return nil
	}
	return verify(d, data, off)
}

// verify reads len(want) bytes at off and reports the first difference.
func verify(d *seeprom.Device, want []byte, off int) error {
	got := make([]byte, len(want))
	if _, err := d.Read(got, off); err != nil {
		return errcode.Wrap("verify", err)
	}
	if bytes.Equal(got, want) {
		return nil
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("%w at 0x%04x: wrote 0x%02x, read 0x%02x", errVerify, off+i, want[i], got[i])
		}
	}
	return nil
}

// parseInt accepts decimal, 0x hex and 0 octal.
func parseInt(s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, errcode.Invalid("flags", err)
	}
	return int(v), nil
}
