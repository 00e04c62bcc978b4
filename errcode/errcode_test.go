package errcode

import (
	"errors"
	"fmt"
	"testing"

	"seeprom-go/drivers/seeprom"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":                  OK,
		"unsupported":         Unsupported,
		"invalid_params":      InvalidParams,
		"zero_length":         ZeroLength,
		"device_not_resolved": NotResolved,
		"out_of_range":        OutOfRange,
		"timeout":             Timeout,
		"error":               Error,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c)
		}
	}
}

func TestMapDriverErr(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{nil, OK},
		{seeprom.ErrZeroLength, ZeroLength},
		{fmt.Errorf("%w: %w", seeprom.ErrNotResolved, seeprom.ErrUnknownChip), NotResolved},
		{seeprom.ErrUnknownChip, NotResolved},
		{fmt.Errorf("%w: [0, 9) on 8 bytes", seeprom.ErrOutOfRange), OutOfRange},
		{seeprom.ErrTimeout, Timeout},
		{errors.New("spi: bus fault"), Error},
	}
	for _, tc := range cases {
		if got := MapDriverErr(tc.err); got != tc.want {
			t.Fatalf("MapDriverErr(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestOfPrefersExplicitCode(t *testing.T) {
	if got := Of(Unsupported); got != Unsupported {
		t.Fatalf("Of(code) = %q", got)
	}
	e := &E{C: InvalidParams, Op: "config", Err: seeprom.ErrTimeout}
	if got := Of(fmt.Errorf("load: %w", e)); got != InvalidParams {
		t.Fatalf("Of(wrapped E) = %q, want invalid_params", got)
	}
	if got := Of(seeprom.ErrTimeout); got != Timeout {
		t.Fatalf("Of(driver err) = %q, want timeout", got)
	}
}

func TestWrap(t *testing.T) {
	if Wrap("read", nil) != nil {
		t.Fatal("Wrap(nil) must be nil")
	}
	err := Wrap("erase", seeprom.ErrZeroLength)
	if !errors.Is(err, seeprom.ErrZeroLength) {
		t.Fatal("wrapped error lost its cause")
	}
	if Of(err) != ZeroLength {
		t.Fatalf("Of(Wrap) = %q", Of(err))
	}
	if err.Error() != "erase: zero_length: seeprom: zero length" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestInvalid(t *testing.T) {
	if Invalid("flags", nil) != nil {
		t.Fatal("Invalid(nil) must be nil")
	}
	cause := errors.New("bad offset")
	err := Invalid("flags", cause)
	if Of(err) != InvalidParams {
		t.Fatalf("Of(Invalid) = %q", Of(err))
	}
	if !errors.Is(err, cause) {
		t.Fatal("invalid error lost its cause")
	}
	if err.Error() != "flags: invalid_params: bad offset" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
