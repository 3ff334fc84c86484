// Package softspi implements a bit-banged SPI master on top of the port
// group output and input handles. It satisfies the drivers.SPI interface so
// device code written against hardware SPI peripherals runs unchanged on
// three spare pins.
package softspi

import (
	"time"

	"tinygo.org/x/drivers"

	samd21 "pincore-go/chip/samd21"
	"pincore-go/errcode"
	"pincore-go/x/mathx"
)

// Config names the bus pins and transfer parameters.
type Config struct {
	SCLK samd21.Pin
	MOSI samd21.Pin
	MISO samd21.Pin
	Mode uint8  // 0..3, CPOL in bit 1 and CPHA in bit 0
	Baud uint32 // bit clock in Hz; 0 selects a conservative default
}

const defaultBaud = 100_000

// SPI is a software SPI master. Transfers shift MSB first. The bus is not
// safe for concurrent use; callers serialise access per chip select.
type SPI struct {
	sclk samd21.Output
	mosi samd21.Output
	miso samd21.Input
	mode uint8
	half time.Duration
}

var _ drivers.SPI = (*SPI)(nil)

// New configures the three pins and returns the bus. The clock line idles
// at CPOL, so modes 0 and 1 start low and modes 2 and 3 start high. MISO
// gets the internal pull so an undriven line reads a defined level instead
// of floating.
func New(cfg Config) (*SPI, error) {
	if cfg.Mode > 3 {
		return nil, errcode.InvalidMode
	}
	for _, p := range []samd21.Pin{cfg.SCLK, cfg.MOSI, cfg.MISO} {
		if uint32(p) >= samd21.NumPorts*samd21.PinsPerPort {
			return nil, errcode.UnknownPin
		}
	}
	baud := cfg.Baud
	if baud == 0 {
		baud = defaultBaud
	}
	half := mathx.Clamp(time.Second/time.Duration(baud)/2, 0, time.Millisecond)
	return &SPI{
		sclk: samd21.OutputSetup(cfg.SCLK, cfg.Mode&0x2 != 0),
		mosi: samd21.OutputSetup(cfg.MOSI, false),
		miso: samd21.InputSetup(cfg.MISO, 1),
		mode: cfg.Mode,
		half: half,
	}, nil
}

// Transfer clocks one byte out on MOSI and returns the byte sampled on MISO.
// The clock idles at CPOL, so the first toggle of each bit is the leading
// edge and the second returns the line to idle. With CPHA clear the data is
// set up before the leading edge and sampled on it; with CPHA set the data
// shifts on the leading edge and is sampled on the trailing one.
func (s *SPI) Transfer(b byte) (byte, error) {
	out := b
	var in byte
	for i := 0; i < 8; i++ {
		if s.mode&0x1 != 0 {
			s.sclk.Toggle()
			s.mosi.Write(out&0x80 != 0)
			out <<= 1
			s.pace()
			s.sclk.Toggle()
			in <<= 1
			if s.miso.Read() {
				in |= 1
			}
			s.pace()
		} else {
			s.mosi.Write(out&0x80 != 0)
			out <<= 1
			s.pace()
			s.sclk.Toggle()
			in <<= 1
			if s.miso.Read() {
				in |= 1
			}
			s.pace()
			s.sclk.Toggle()
		}
	}
	return in, nil
}

// Tx shifts w out while filling r. When the slices differ in length the bus
// keeps clocking for the longer one: surplus transmit bytes discard their
// reads, surplus receive bytes are clocked against zero.
func (s *SPI) Tx(w, r []byte) error {
	n := mathx.Max(len(w), len(r))
	for i := 0; i < n; i++ {
		var b byte
		if i < len(w) {
			b = w[i]
		}
		got, err := s.Transfer(b)
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = got
		}
	}
	return nil
}

func (s *SPI) pace() {
	if s.half > 0 {
		time.Sleep(s.half)
	}
}
