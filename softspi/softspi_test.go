//go:build !tinygo

package softspi

import (
	"errors"
	"testing"

	samd21 "pincore-go/chip/samd21"
	"pincore-go/errcode"
)

const (
	sclkBit = 1 << 0
	mosiBit = 1 << 1
	misoBit = 1 << 2
)

func newBus(t *testing.T, mode uint8) *SPI {
	t.Helper()
	samd21.ResetPorts()
	s, err := New(Config{
		SCLK: samd21.GPIO('A', 0),
		MOSI: samd21.GPIO('A', 1),
		MISO: samd21.GPIO('A', 2),
		Mode: mode,
		Baud: 10_000_000, // fast enough that pacing is a no-op in tests
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewRejectsBadConfig(t *testing.T) {
	samd21.ResetPorts()
	if _, err := New(Config{Mode: 4}); !errors.Is(err, errcode.InvalidMode) {
		t.Fatalf("mode 4 err = %v", err)
	}
	if _, err := New(Config{MISO: 200}); !errors.Is(err, errcode.UnknownPin) {
		t.Fatalf("bad pin err = %v", err)
	}
}

func TestNewIdlesClockAtCPOL(t *testing.T) {
	for mode := uint8(0); mode <= 3; mode++ {
		newBus(t, mode)
		pg := samd21.Port(0)
		wantHigh := mode&0x2 != 0
		if gotHigh := pg.Out()&sclkBit != 0; gotHigh != wantHigh {
			t.Errorf("mode %d: clock idle high = %v, want %v", mode, gotHigh, wantHigh)
		}
		if pg.Dir()&(sclkBit|mosiBit) != sclkBit|mosiBit {
			t.Fatal("clock or data line not an output")
		}
		if pg.Dir()&misoBit != 0 {
			t.Fatal("MISO configured as output")
		}
	}
}

func TestTransferClocksSixteenEdges(t *testing.T) {
	s := newBus(t, 0)
	pg := samd21.Port(0)
	pg.ClearJournal()

	if _, err := s.Transfer(0xa5); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	edges := 0
	for _, w := range pg.Journal() {
		if w.Reg == "OUTTGL" && w.Operand == sclkBit {
			edges++
		}
	}
	if edges != 16 {
		t.Fatalf("clock edges = %d, want 16", edges)
	}
	if pg.Out()&sclkBit != 0 {
		t.Fatal("clock not back at idle after transfer")
	}
}

func TestTransferShiftsMSBFirst(t *testing.T) {
	s := newBus(t, 0)
	pg := samd21.Port(0)
	pg.ClearJournal()

	if _, err := s.Transfer(0x80); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	// The first data write must drive MOSI high, every later one low.
	var levels []bool
	for _, w := range pg.Journal() {
		if w.Operand != mosiBit {
			continue
		}
		switch w.Reg {
		case "OUTSET":
			levels = append(levels, true)
		case "OUTCLR":
			levels = append(levels, false)
		}
	}
	if len(levels) != 8 || !levels[0] {
		t.Fatalf("MOSI levels = %v", levels)
	}
	for _, lvl := range levels[1:] {
		if lvl {
			t.Fatalf("MOSI levels = %v, want high only on first bit", levels)
		}
	}
}

func TestTransferReadsDrivenMISO(t *testing.T) {
	for mode := uint8(0); mode <= 3; mode++ {
		s := newBus(t, mode)
		pg := samd21.Port(0)

		pg.Drive(misoBit, misoBit)
		got, err := s.Transfer(0x00)
		if err != nil || got != 0xff {
			t.Fatalf("mode %d: high MISO read %#x, err %v", mode, got, err)
		}

		pg.Drive(misoBit, 0)
		got, err = s.Transfer(0x00)
		if err != nil || got != 0x00 {
			t.Fatalf("mode %d: low MISO read %#x, err %v", mode, got, err)
		}
	}
}

// edgeSequence reduces a journal to the order of clock toggles (T) and MOSI
// data writes (W) so the tests can tell which edge each bit shifts on.
func edgeSequence(j []samd21.RegWrite) string {
	var seq []byte
	for _, w := range j {
		switch {
		case w.Reg == "OUTTGL" && w.Operand == sclkBit:
			seq = append(seq, 'T')
		case (w.Reg == "OUTSET" || w.Reg == "OUTCLR") && w.Operand == mosiBit:
			seq = append(seq, 'W')
		}
	}
	return string(seq)
}

func TestTransferPhasePerMode(t *testing.T) {
	cases := []struct {
		mode     uint8
		idleHigh bool
		perBit   string
	}{
		// CPHA clear: data written before the leading edge.
		{0, false, "WTT"},
		{2, true, "WTT"},
		// CPHA set: data shifts on the leading edge.
		{1, false, "TWT"},
		{3, true, "TWT"},
	}
	for _, c := range cases {
		s := newBus(t, c.mode)
		pg := samd21.Port(0)
		pg.ClearJournal()

		if _, err := s.Transfer(0xa5); err != nil {
			t.Fatalf("mode %d: transfer: %v", c.mode, err)
		}

		want := ""
		for i := 0; i < 8; i++ {
			want += c.perBit
		}
		if got := edgeSequence(pg.Journal()); got != want {
			t.Errorf("mode %d: write order = %s, want %s", c.mode, got, want)
		}
		if gotHigh := pg.Out()&sclkBit != 0; gotHigh != c.idleHigh {
			t.Errorf("mode %d: clock idle high after transfer = %v, want %v",
				c.mode, gotHigh, c.idleHigh)
		}
	}
}

func TestTransferModesAreDistinct(t *testing.T) {
	journals := make([]string, 4)
	for mode := uint8(0); mode <= 3; mode++ {
		s := newBus(t, mode)
		pg := samd21.Port(0)
		pg.ClearJournal()
		if _, err := s.Transfer(0xa5); err != nil {
			t.Fatalf("mode %d: transfer: %v", mode, err)
		}
		var log string
		for _, w := range pg.Journal() {
			log += w.Reg + ":" + string(rune('0'+w.Operand)) + " "
		}
		journals[mode] = log
	}
	if journals[0] == journals[1] {
		t.Error("mode 0 and mode 1 produced identical register traffic")
	}
	if journals[2] == journals[3] {
		t.Error("mode 2 and mode 3 produced identical register traffic")
	}
}

func TestTxUnevenLengths(t *testing.T) {
	s := newBus(t, 0)
	pg := samd21.Port(0)
	pg.Drive(misoBit, misoBit)

	r := make([]byte, 3)
	if err := s.Tx([]byte{0x01}, r); err != nil {
		t.Fatalf("Tx: %v", err)
	}
	for i, b := range r {
		if b != 0xff {
			t.Fatalf("r[%d] = %#x, want 0xff", i, b)
		}
	}

	pg.ClearJournal()
	if err := s.Tx([]byte{0x01, 0x02}, nil); err != nil {
		t.Fatalf("write-only Tx: %v", err)
	}
	edges := 0
	for _, w := range pg.Journal() {
		if w.Reg == "OUTTGL" && w.Operand == sclkBit {
			edges++
		}
	}
	if edges != 32 {
		t.Fatalf("write-only Tx clock edges = %d, want 32", edges)
	}
}
