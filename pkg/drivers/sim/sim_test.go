package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rtk.go/pkg/drivers"
)

func TestADC(t *testing.T) {
	adc := NewADC(1).SetValue(3, 2000)
	require.Equal(t, uint16(2000), adc.Read(3))
	require.Zero(t, adc.Read(4))
	require.Equal(t, 1, adc.Reads(3))

	adc.Noise = 10
	for i := 0; i < 100; i++ {
		v := adc.Read(3)
		require.GreaterOrEqual(t, v, uint16(1990))
		require.LessOrEqual(t, v, uint16(2010))
	}
	adc.SetValue(5, drivers.ADCMax)
	for i := 0; i < 100; i++ {
		require.LessOrEqual(t, adc.Read(5), uint16(drivers.ADCMax))
	}
	adc.SetMillivolts(6, 3300)
	adc.Noise = 0
	require.Equal(t, uint16(drivers.ADCMax), adc.Read(6))
}

func TestPWM(t *testing.T) {
	pwm := NewPWM()
	var seen []uint16
	pwm.OnSet = func(channel uint8, duty uint16) {
		seen = append(seen, duty)
	}
	pwm.Set(1, 500)
	pwm.Set(1, 1200)
	require.Equal(t, uint16(999), pwm.Duty(1))
	require.Equal(t, 2, pwm.Updates(1))
	require.Zero(t, pwm.Duty(2))
	require.Equal(t, []uint16{500, 999}, seen)
}
