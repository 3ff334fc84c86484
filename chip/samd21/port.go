// Package samd21 drives the SAMD21 PORT controller: pin multiplexing and
// plain digital I/O over the banked register groups.
//
// The register file has two backends selected by build tag. Target builds
// map PortGroup over the memory-mapped PORT groups; host builds back it
// with a simulated group that models the set/clear/toggle strobe semantics
// and keeps a write journal.
package samd21

const (
	// PinsPerPort is the width of one port group.
	PinsPerPort = 32
	// NumPorts is the number of port groups on this part.
	NumPorts = 2
)

// PINCFG register bits.
const (
	PinCfgPMuxEn uint8 = 1 << 0
	PinCfgInEn   uint8 = 1 << 1
	PinCfgPullEn uint8 = 1 << 2
)

// pmuxMerge returns the pin-pair multiplexer byte with the nibble belonging
// to the given pin replaced by fn. Even pins occupy the low nibble, odd pins
// the high nibble; the neighbouring pin's nibble is preserved.
func pmuxMerge(old uint8, bit uint32, fn uint8) uint8 {
	shift := uint(0)
	if bit&1 != 0 {
		shift = 4
	}
	return old&^(0xf<<shift) | (fn&0xf)<<shift
}

// pinCfg builds a PINCFG byte from the multiplex-enable and pull-enable
// requests.
func pinCfg(mux, pull bool) uint8 {
	var cfg uint8
	if mux {
		cfg |= PinCfgPMuxEn
	}
	if pull {
		cfg |= PinCfgPullEn
	}
	return cfg
}
