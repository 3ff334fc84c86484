package hal

import (
	"fmt"
	"sync"

	"pincore-go/errcode"
)

// BuildInput is passed to a device builder.
type BuildInput struct {
	Pins     PinFactory
	SPI      SPIBusFactory // nil when the platform has no shared buses
	Claims   *PinClaims
	DeviceID string
	Type     string
	Params   any
}

// Builder creates an adaptor from config and factories.
type Builder interface {
	Build(in BuildInput) (Adaptor, error)
}

var (
	regMu    sync.RWMutex
	builders = map[string]Builder{}
)

// RegisterBuilder installs a device builder for a config type. Duplicate
// registration is a programming error.
func RegisterBuilder(deviceType string, b Builder) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := builders[deviceType]; exists {
		panic(fmt.Sprintf("device builder already registered for type %q", deviceType))
	}
	builders[deviceType] = b
}

// LookupBuilder returns the builder for a config type.
func LookupBuilder(deviceType string) (Builder, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	b, ok := builders[deviceType]
	return b, ok
}

// PinClaims is a run-time pin-ownership registry. The hardware cannot stop
// two handles from driving the same bit, so the service checks uniqueness
// here before a device is built.
type PinClaims struct {
	mu    sync.Mutex
	owner map[int]string
}

func NewPinClaims() *PinClaims {
	return &PinClaims{owner: map[int]string{}}
}

// Claim records dev as the owner of pin. Claiming a pin that is already
// owned fails with errcode.PinInUse.
func (c *PinClaims) Claim(pin int, dev string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, taken := c.owner[pin]; taken {
		return errcode.PinInUse
	}
	c.owner[pin] = dev
	return nil
}

// Release frees a claimed pin.
func (c *PinClaims) Release(pin int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.owner, pin)
}

// Owner reports the device owning a pin.
func (c *PinClaims) Owner(pin int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dev, ok := c.owner[pin]
	return dev, ok
}
