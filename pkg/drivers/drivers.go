// Package drivers defines the peripherals used by application tasks.
// Access from several tasks must be serialized by the caller, typically with
// a kernel.Semaphore used as a mutex.
package drivers

// Analog channels of the reference board.
const (
	ChannelTemperature uint8 = 8
	ChannelLuminosity  uint8 = 9
)

// PWM output channels of the reference board.
const (
	PWMTemperature uint8 = 1
	PWMLuminosity  uint8 = 2
)

// ADCMax is the largest value of a 12-bit conversion.
const ADCMax = 4095

// PWMPeriod is the number of duty steps of a PWM channel.
const PWMPeriod = 1000

// ADC is an analog to digital converter.
type ADC interface {
	// Read selects a channel and returns one conversion.
	Read(channel uint8) uint16
}

// PWM is a pulse width modulation timer.
type PWM interface {
	// Set sets the compare value of a channel, within [0, PWMPeriod).
	Set(channel uint8, duty uint16)
}
