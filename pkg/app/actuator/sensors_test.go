package actuator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConversions(t *testing.T) {
	require.InDelta(t, 3300.0, Millivolts(4095), 1e-9)
	require.Zero(t, Millivolts(0))
	require.InDelta(t, 25.0, Temperature([]uint16{682, 683}), 0.05)
	require.Zero(t, Temperature(nil))

	require.InDelta(t, 500.0*650/ReferenceOhms, Lux(1650), 1e-9)
	require.Zero(t, Lux(0))
	require.InDelta(t, 500.0*650, Lux(RailMillivolts), 1e-9)
	require.InDelta(t, Lux(Millivolts(2048)), Luminosity([]uint16{2048, 2048}), 1e-9)
}

func TestDuty(t *testing.T) {
	testCases := []struct {
		name   string
		duty   func(float64) uint16
		in     float64
		expect uint16
	}{
		{"cold", TemperatureDuty, -5, 0},
		{"zero", TemperatureDuty, 0, 0},
		{"half", TemperatureDuty, 20, 500},
		{"hot", TemperatureDuty, 40, 999},
		{"very hot", TemperatureDuty, 80, 999},
		{"dark", LuminosityDuty, 0, 999},
		{"dim", LuminosityDuty, 9, 999},
		{"mid", LuminosityDuty, 50, 500},
		{"bright", LuminosityDuty, 90, 0},
		{"very bright", LuminosityDuty, 400, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.duty(tc.in))
		})
	}
}
