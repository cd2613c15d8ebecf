package actuator

import (
	"github.com/robotalks/rtk.go/pkg/drivers"
)

// Sensor and board parameters.
const (
	// RailMillivolts is the ADC reference voltage.
	RailMillivolts = 3300.0
	// MillivoltsPerDegree is the output ratio of the temperature sensor.
	MillivoltsPerDegree = 22.0
	// ReferenceOhms is the fixed resistor of the LDR voltage divider.
	ReferenceOhms = 4656.0
)

// Millivolts converts a raw conversion to millivolts.
func Millivolts(raw uint16) float64 {
	return float64(raw) * (RailMillivolts / drivers.ADCMax)
}

// Temperature converts conversions to degrees Celsius, averaged.
func Temperature(samples []uint16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var mv float64
	for _, raw := range samples {
		mv += Millivolts(raw)
	}
	return mv / MillivoltsPerDegree / float64(len(samples))
}

// Lux converts one millivolt reading of the LDR divider to lux.
func Lux(mv float64) float64 {
	if mv <= 0 {
		return 0
	}
	ldr := (ReferenceOhms * (RailMillivolts - mv)) / mv
	if ldr < 1 {
		ldr = 1
	}
	return 500 / (ldr / 650)
}

// Luminosity converts conversions to lux, averaged.
func Luminosity(samples []uint16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var lux float64
	for _, raw := range samples {
		lux += Lux(Millivolts(raw))
	}
	return lux / float64(len(samples))
}

// TemperatureDuty maps 0..40 °C linearly onto the PWM period.
func TemperatureDuty(celsius float64) uint16 {
	duty := celsius / 40 * drivers.PWMPeriod
	switch {
	case duty <= 0:
		return 0
	case duty >= drivers.PWMPeriod-1:
		return drivers.PWMPeriod - 1
	}
	return uint16(duty)
}

// LuminosityDuty dims the output as light increases, with dead bands at
// both ends.
func LuminosityDuty(lux float64) uint16 {
	duty := (1 - lux/100) * drivers.PWMPeriod
	switch {
	case duty <= 100:
		return 0
	case duty >= 900:
		return drivers.PWMPeriod - 1
	}
	return uint16(duty)
}
