package boards

import "testing"

func TestPicoDefaultWiring(t *testing.T) {
	b := PicoDefault
	p, ok := b.SPIPins("")
	if !ok || p.ID != "spi0" || p.CS != 17 {
		t.Fatalf("default spi: %+v ok=%v", p, ok)
	}
	p, ok = b.SPIPins("spi1")
	if !ok || p.SCK != 10 || p.CS != 13 {
		t.Fatalf("spi1: %+v ok=%v", p, ok)
	}
	if _, ok := b.SPIPins("spi2"); ok {
		t.Fatal("spi2 must not exist")
	}
	for _, p := range []SPIPins{b.Defaults.SPI0, b.Defaults.SPI1} {
		for _, n := range []int{p.SCK, p.SDO, p.SDI, p.CS} {
			if !b.ValidGPIO(n) {
				t.Fatalf("%s pin %d outside GPIO range", p.ID, n)
			}
		}
	}
	if b.ValidGPIO(29) || b.ValidGPIO(-1) {
		t.Fatal("ValidGPIO accepts out-of-range pins")
	}
}
