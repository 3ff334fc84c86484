package hal

import (
	"context"
	"encoding/json"

	"pincore-go/bus"
	"pincore-go/errcode"
)

// ControlRequest is the payload of a device control message.
type ControlRequest struct {
	Kind    string `json:"kind"`
	Method  string `json:"method"`
	Payload any    `json:"payload,omitempty"`
}

// ControlReply answers a control request on its ReplyTo topic.
type ControlReply struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Result any    `json:"result,omitempty"`
}

// Run starts the service loop and blocks until ctx is cancelled.
// Configuration arrives on config/hal; control messages on
// hal/device/<id>/control; retained state and per-device info are published
// under hal/.
func Run(ctx context.Context, b *bus.Bus, pf PinFactory, spi SPIBusFactory) {
	s := &service{
		bus:     b,
		pins:    pf,
		spi:     spi,
		claims:  NewPinClaims(),
		devices: map[string]Adaptor{},
	}
	s.loop(ctx)
}

type service struct {
	bus     *bus.Bus
	pins    PinFactory
	spi     SPIBusFactory
	claims  *PinClaims
	devices map[string]Adaptor
}

func (s *service) loop(ctx context.Context) {
	cfgSub := s.bus.Subscribe(bus.Topic{"config", "hal"})
	ctrlSub := s.bus.Subscribe(bus.Topic{"hal", "device", "+", "control"})
	defer cfgSub.Unsubscribe()
	defer ctrlSub.Unsubscribe()

	s.publishState("idle", "awaiting_config")

	for {
		select {
		case <-ctx.Done():
			s.publishState("stopped", "context_cancelled")
			return
		case msg := <-cfgSub.Channel():
			s.applyConfig(msg)
		case msg := <-ctrlSub.Channel():
			s.handleControl(msg)
		}
	}
}

func (s *service) applyConfig(msg *bus.Message) {
	cfg, err := decodeConfig(msg.Payload)
	if err != nil {
		s.publishState("idle", string(errcode.InvalidPayload))
		return
	}

	// A new config replaces the previous device set wholesale.
	s.devices = map[string]Adaptor{}
	s.claims = NewPinClaims()

	ok := true
	for _, dev := range cfg.Devices {
		b, found := LookupBuilder(dev.Type)
		if !found {
			s.publishDeviceError(dev.ID, errcode.UnknownType)
			ok = false
			continue
		}
		ad, err := b.Build(BuildInput{
			Pins:     s.pins,
			SPI:      s.spi,
			Claims:   s.claims,
			DeviceID: dev.ID,
			Type:     dev.Type,
			Params:   dev.Params,
		})
		if err != nil {
			s.publishDeviceError(dev.ID, errcode.Of(err))
			ok = false
			continue
		}
		s.devices[dev.ID] = ad
		s.publishDeviceInfo(ad)
	}

	if ok {
		s.publishState("ready", "configured")
	} else {
		s.publishState("ready", "configured_with_errors")
	}
}

func (s *service) handleControl(msg *bus.Message) {
	if len(msg.Topic) != 4 {
		return
	}
	id := msg.Topic[2]

	req, err := decodeControl(msg.Payload)
	if err != nil {
		s.reply(msg, ControlReply{OK: false, Error: string(errcode.InvalidPayload)})
		return
	}
	ad, ok := s.devices[id]
	if !ok {
		s.reply(msg, ControlReply{OK: false, Error: string(errcode.UnknownDevice)})
		return
	}
	if req.Kind == "" {
		req.Kind = "gpio"
	}
	result, err := ad.Control(req.Kind, req.Method, req.Payload)
	if err != nil {
		s.reply(msg, ControlReply{OK: false, Error: string(errcode.Of(err))})
		return
	}
	s.reply(msg, ControlReply{OK: true, Result: result})
}

func (s *service) reply(msg *bus.Message, r ControlReply) {
	if msg.ReplyTo == nil {
		return
	}
	s.bus.Publish(&bus.Message{Topic: msg.ReplyTo, Payload: r})
}

func (s *service) publishState(level, status string) {
	s.bus.Publish(&bus.Message{
		Topic:    bus.Topic{"hal", "state"},
		Payload:  State{Level: level, Status: status},
		Retained: true,
	})
}

func (s *service) publishDeviceInfo(ad Adaptor) {
	s.bus.Publish(&bus.Message{
		Topic:    bus.Topic{"hal", "device", ad.ID(), "info"},
		Payload:  ad.Capabilities(),
		Retained: true,
	})
}

func (s *service) publishDeviceError(id string, code errcode.Code) {
	s.bus.Publish(&bus.Message{
		Topic:    bus.Topic{"hal", "device", id, "info"},
		Payload:  map[string]any{"error": string(code)},
		Retained: true,
	})
}

func decodeConfig(v any) (Config, error) {
	switch p := v.(type) {
	case Config:
		return p, nil
	case *Config:
		return *p, nil
	case []byte:
		var cfg Config
		if err := json.Unmarshal(p, &cfg); err != nil {
			return Config{}, errcode.InvalidPayload
		}
		return cfg, nil
	case map[string]any:
		// Config that went through a generic JSON decode.
		raw, err := json.Marshal(p)
		if err != nil {
			return Config{}, errcode.InvalidPayload
		}
		var cfg Config
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return Config{}, errcode.InvalidPayload
		}
		return cfg, nil
	default:
		return Config{}, errcode.InvalidPayload
	}
}

func decodeControl(v any) (ControlRequest, error) {
	switch p := v.(type) {
	case ControlRequest:
		return p, nil
	case *ControlRequest:
		return *p, nil
	case map[string]any:
		return ControlRequest{
			Kind:    asString(p["kind"]),
			Method:  asString(p["method"]),
			Payload: p["payload"],
		}, nil
	default:
		return ControlRequest{}, errcode.InvalidPayload
	}
}
