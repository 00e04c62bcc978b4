//go:build !linux && !rp2040 && !rp2350

package platform

import (
	"fmt"
	"io"
	"os"

	"seeprom-go/config"
)

// No hardware backend on this host; tests and tools use the sim.
func openHardware(c config.Bus) (*Backend, error) {
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, c.Backend)
}

func Console() io.Writer { return os.Stdout }
