package hal

import (
	"errors"
	"testing"

	"pincore-go/errcode"
)

// loopSPI echoes each transmitted byte back, like MOSI strapped to MISO.
type loopSPI struct {
	sent []byte
}

func (l *loopSPI) Transfer(b byte) (byte, error) {
	l.sent = append(l.sent, b)
	return b, nil
}

func (l *loopSPI) Tx(w, r []byte) error {
	for i := 0; i < len(w) || i < len(r); i++ {
		var b byte
		if i < len(w) {
			b = w[i]
		}
		got, _ := l.Transfer(b)
		if i < len(r) {
			r[i] = got
		}
	}
	return nil
}

func TestStaticSPIBuses(t *testing.T) {
	buses := StaticSPIBuses{"soft0": &loopSPI{}}
	if _, ok := buses.ByID("soft0"); !ok {
		t.Fatal("known bus not found")
	}
	if _, ok := buses.ByID("soft1"); ok {
		t.Fatal("unknown bus found")
	}
}

func TestSPIBuilder(t *testing.T) {
	b, ok := LookupBuilder("spi_raw")
	if !ok {
		t.Fatal("spi_raw builder not registered")
	}
	buses := StaticSPIBuses{"soft0": &loopSPI{}}

	if _, err := b.Build(BuildInput{SPI: buses, DeviceID: "d", Params: map[string]any{}}); !errors.Is(err, errcode.InvalidParams) {
		t.Fatalf("missing bus err = %v", err)
	}
	if _, err := b.Build(BuildInput{SPI: buses, DeviceID: "d", Params: map[string]any{"bus": "nope"}}); !errors.Is(err, errcode.UnknownDevice) {
		t.Fatalf("unknown bus err = %v", err)
	}
	if _, err := b.Build(BuildInput{DeviceID: "d", Params: map[string]any{"bus": "soft0"}}); !errors.Is(err, errcode.Unsupported) {
		t.Fatalf("no factory err = %v", err)
	}

	ad, err := b.Build(BuildInput{SPI: buses, DeviceID: "d", Params: map[string]any{"bus": "soft0"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ad.Capabilities()[0].Kind != "spi" {
		t.Fatalf("capabilities = %+v", ad.Capabilities())
	}
}

func TestSPIAdaptorTransfer(t *testing.T) {
	bus := &loopSPI{}
	ad := &spiAdaptor{id: "d", busID: "soft0", bus: bus}

	res, err := ad.Control("spi", "transfer", map[string]any{"data": "a5ff00"})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if rx := res.(map[string]any)["rx"]; rx != "a5ff00" {
		t.Fatalf("rx = %v", rx)
	}

	res, err = ad.Control("spi", "send", map[string]any{"data": "0102"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if n := res.(map[string]any)["sent"]; n != 2 {
		t.Fatalf("sent = %v", n)
	}
	if len(bus.sent) != 5 {
		t.Fatalf("bus saw %d bytes, want 5", len(bus.sent))
	}

	if _, err := ad.Control("spi", "transfer", map[string]any{"data": "zz"}); !errors.Is(err, errcode.InvalidPayload) {
		t.Fatalf("bad hex err = %v", err)
	}
	if _, err := ad.Control("gpio", "transfer", nil); !errors.Is(err, errcode.Unsupported) {
		t.Fatalf("wrong kind err = %v", err)
	}
}
