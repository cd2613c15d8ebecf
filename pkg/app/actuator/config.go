package actuator

import (
	"flag"
	"os"
	"strconv"

	"github.com/robotalks/rtk.go/pkg/drivers"
)

// Config defines the acquisition and actuation parameters.
type Config struct {
	// Samples is the number of conversions averaged per reading.
	Samples int
	// CaptureDelay is the number of ticks an acquisition task sleeps
	// between readings.
	CaptureDelay uint32

	TemperatureChannel uint8
	LuminosityChannel  uint8
	TemperaturePWM     uint8
	LuminosityPWM      uint8
}

var defaultConfig = Config{
	Samples:            1024,
	CaptureDelay:       5,
	TemperatureChannel: drivers.ChannelTemperature,
	LuminosityChannel:  drivers.ChannelLuminosity,
	TemperaturePWM:     drivers.PWMTemperature,
	LuminosityPWM:      drivers.PWMLuminosity,
}

func init() {
	if val := os.Getenv("RTK_ADC_SAMPLES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			defaultConfig.Samples = n
		}
	}
	if val := os.Getenv("RTK_CAPTURE_DELAY"); val != "" {
		if n, err := strconv.ParseUint(val, 10, 32); err == nil {
			defaultConfig.CaptureDelay = uint32(n)
		}
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.Samples, "adc-samples", defaultConfig.Samples, "ADC conversions averaged per reading.")
	flag.Func("capture-delay", "Ticks between readings.", func(s string) error {
		n, err := strconv.ParseUint(s, 10, 32)
		if err == nil {
			defaultConfig.CaptureDelay = uint32(n)
		}
		return err
	})
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}
