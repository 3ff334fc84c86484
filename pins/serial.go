package pins

import samd21 "pincore-go/chip/samd21"

// SetupSerial routes the console SERCOM0 pads: peripheral function 'C' on
// PA10 (TX) and PA11 (RX), no pulls. Call once during board bring-up,
// before the SERCOM itself is enabled.
func SetupSerial() {
	samd21.Peripheral('A', 10, 'C', false)
	samd21.Peripheral('A', 11, 'C', false)
}
