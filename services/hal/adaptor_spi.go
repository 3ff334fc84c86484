package hal

import (
	"encoding/hex"

	"tinygo.org/x/drivers"

	"pincore-go/errcode"
)

// StaticSPIBuses is the usual SPIBusFactory: a fixed table of buses wired
// once at startup.
type StaticSPIBuses map[string]drivers.SPI

func (m StaticSPIBuses) ByID(id string) (drivers.SPI, bool) {
	b, ok := m[id]
	return b, ok
}

func init() {
	RegisterBuilder("spi_raw", spiBuilder{})
}

// SPIParams is the config shape for raw SPI devices.
type SPIParams struct {
	Bus string `json:"bus"`
}

type spiBuilder struct{}

func (spiBuilder) Build(in BuildInput) (Adaptor, error) {
	p := decodeSPIParams(in.Params)
	if p.Bus == "" {
		return nil, errcode.InvalidParams
	}
	if in.SPI == nil {
		return nil, errcode.Unsupported
	}
	bus, ok := in.SPI.ByID(p.Bus)
	if !ok {
		return nil, errcode.UnknownDevice
	}
	return &spiAdaptor{id: in.DeviceID, busID: p.Bus, bus: bus}, nil
}

type spiAdaptor struct {
	id    string
	busID string
	bus   drivers.SPI
}

func (a *spiAdaptor) ID() string { return a.id }

func (a *spiAdaptor) Capabilities() []CapInfo {
	return []CapInfo{{Kind: "spi", Info: map[string]any{"bus": a.busID}}}
}

// Control performs raw transfers. "transfer" clocks the hex-encoded data
// out and returns the bytes read back; "send" discards them.
func (a *spiAdaptor) Control(kind, method string, payload any) (any, error) {
	if kind != "spi" {
		return nil, errcode.Unsupported
	}
	switch method {
	case "transfer":
		tx, err := decodeHexData(payload)
		if err != nil {
			return nil, err
		}
		rx := make([]byte, len(tx))
		if err := a.bus.Tx(tx, rx); err != nil {
			return nil, errcode.Error
		}
		return map[string]any{"rx": hex.EncodeToString(rx)}, nil
	case "send":
		tx, err := decodeHexData(payload)
		if err != nil {
			return nil, err
		}
		if err := a.bus.Tx(tx, nil); err != nil {
			return nil, errcode.Error
		}
		return map[string]any{"sent": len(tx)}, nil
	default:
		return nil, errcode.Unsupported
	}
}

func decodeHexData(payload any) ([]byte, error) {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, errcode.InvalidPayload
	}
	b, err := hex.DecodeString(asString(m["data"]))
	if err != nil {
		return nil, errcode.InvalidPayload
	}
	return b, nil
}

func decodeSPIParams(v any) SPIParams {
	switch p := v.(type) {
	case SPIParams:
		return p
	case *SPIParams:
		return *p
	case map[string]any:
		return SPIParams{Bus: asString(p["bus"])}
	default:
		return SPIParams{}
	}
}
