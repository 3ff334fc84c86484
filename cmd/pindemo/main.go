//go:build !tinygo

// cmd/pindemo/main.go
//
// Host demo against the simulated port groups: configures a small device
// set, blinks the LED, pokes the button from "outside", runs a raw SPI
// transfer and dumps the register journal tail.
package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"pincore-go/bus"
	samd21 "pincore-go/chip/samd21"
	"pincore-go/services/hal"
	"pincore-go/softspi"
)

const replyTimeout = time.Second

var replySeq int

func call(b *bus.Bus, device string, req hal.ControlRequest) (hal.ControlReply, bool) {
	replySeq++
	rt := bus.Topic{"pindemo", "reply", strconv.Itoa(replySeq)}
	sub := b.Subscribe(rt)
	defer sub.Unsubscribe()

	b.Publish(&bus.Message{
		Topic:   bus.Topic{"hal", "device", device, "control"},
		Payload: req,
		ReplyTo: rt,
	})
	select {
	case m := <-sub.Channel():
		rep, ok := m.Payload.(hal.ControlReply)
		return rep, ok
	case <-time.After(replyTimeout):
		return hal.ControlReply{}, false
	}
}

func waitState(b *bus.Bus, level string) bool {
	sub := b.Subscribe(bus.Topic{"hal", "state"})
	defer sub.Unsubscribe()
	deadline := time.After(replyTimeout)
	for {
		select {
		case m := <-sub.Channel():
			if st, ok := m.Payload.(hal.State); ok && st.Level == level {
				return true
			}
		case <-deadline:
			return false
		}
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.New(32)

	spi, err := softspi.New(softspi.Config{
		SCLK: samd21.GPIO('A', 16),
		MOSI: samd21.GPIO('A', 17),
		MISO: samd21.GPIO('A', 18),
		Baud: 1_000_000,
	})
	if err != nil {
		fmt.Println("softspi:", err)
		return
	}
	buses := hal.StaticSPIBuses{"soft0": spi}

	go hal.Run(ctx, b, hal.NewSAMD21PinFactory(), buses)
	if !waitState(b, "idle") {
		fmt.Println("service did not come up")
		return
	}

	b.Publish(&bus.Message{
		Topic: bus.Topic{"config", "hal"},
		Payload: hal.Config{Devices: []hal.Device{
			{ID: "led0", Type: "led", Params: map[string]any{"pin": "PA27"}},
			{ID: "btn0", Type: "gpio_din", Params: map[string]any{"pin": "^PA15"}},
			{ID: "flash", Type: "spi_raw", Params: map[string]any{"bus": "soft0"}},
		}},
	})
	if !waitState(b, "ready") {
		fmt.Println("configuration did not settle")
		return
	}
	fmt.Println("configured: led0 btn0 flash")

	// Blink.
	for i := 0; i < 4; i++ {
		rep, _ := call(b, "led0", hal.ControlRequest{Method: "toggle"})
		fmt.Printf("led0 toggle -> %+v\n", rep.Result)
		time.Sleep(50 * time.Millisecond)
	}

	// Press the button from the outside world and read it back.
	samd21.Port(0).Drive(1<<15, 1<<15)
	rep, _ := call(b, "btn0", hal.ControlRequest{Method: "get"})
	fmt.Printf("btn0 pressed -> %+v\n", rep.Result)
	samd21.Port(0).Release(1 << 15)

	// Raw SPI transfer: a JEDEC id probe against nothing in particular.
	rep, _ = call(b, "flash", hal.ControlRequest{
		Kind:    "spi",
		Method:  "transfer",
		Payload: map[string]any{"data": "9f000000"},
	})
	fmt.Printf("flash transfer -> %+v\n", rep.Result)

	journal := samd21.Port(0).Journal()
	tail := journal
	if len(tail) > 12 {
		tail = tail[len(tail)-12:]
	}
	fmt.Printf("port A journal: %d writes, last %d:\n", len(journal), len(tail))
	for _, w := range tail {
		fmt.Printf("  %-7s %#010x irq=%d\n", w.Reg, w.Operand, w.IrqDepth)
	}
}
