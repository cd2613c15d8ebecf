// Package env provides the device identity and the process wide telemetry
// settings shared by the binaries.
package env

import (
	"flag"
	"os"
	"sync"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/robotalks/rtk.go/pkg/telemetry"
)

// appID salts the machine id so the device id does not expose it.
const appID = "rtk.go"

// Config provides common options of a device.
type Config struct {
	// DeviceID names the device in telemetry topics, defaults to MachineID.
	DeviceID string
	// MQTTURL is the telemetry broker, e.g. mqtt://host:port/topic-prefix/.
	// Empty disables MQTT telemetry.
	MQTTURL string
	// WebsocketAddr serves status streams when not empty.
	WebsocketAddr string
	// RecordFile records status messages to a file when not empty.
	RecordFile string
	// Tick is the period of the kernel tick.
	Tick time.Duration
	// StatusInterval is the period of status messages.
	StatusInterval time.Duration
}

var defaultConfig = Config{
	Tick:           time.Millisecond,
	StatusInterval: time.Second,
}

func init() {
	if val := os.Getenv("RTK_DEVICE_ID"); val != "" {
		defaultConfig.DeviceID = val
	}
	if val := os.Getenv("RTK_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("RTK_WEBSOCKET_ADDR"); val != "" {
		defaultConfig.WebsocketAddr = val
	}
	if val, err := time.ParseDuration(os.Getenv("RTK_TICK")); err == nil && val > 0 {
		defaultConfig.Tick = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.DeviceID, "device-id", defaultConfig.DeviceID, "Device ID, defaults to machine ID.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL for telemetry.")
	flag.StringVar(&defaultConfig.WebsocketAddr, "websocket", defaultConfig.WebsocketAddr, "Address to serve websocket status streams.")
	flag.StringVar(&defaultConfig.RecordFile, "record", defaultConfig.RecordFile, "File to record status messages.")
	flag.DurationVar(&defaultConfig.Tick, "tick", defaultConfig.Tick, "Kernel tick period.")
	flag.DurationVar(&defaultConfig.StatusInterval, "status-interval", defaultConfig.StatusInterval, "Status message period.")
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

// Device gets DeviceID or falls back to MachineID.
func (c *Config) Device() string {
	if c.DeviceID != "" {
		return c.DeviceID
	}
	return MachineID()
}

// Meta describes this device.
func (c *Config) Meta() telemetry.Meta {
	return telemetry.Meta{
		Device:  c.Device(),
		BootID:  BootID(),
		Machine: MachineID(),
	}
}

// Source identifies this device in status messages.
func (c *Config) Source() telemetry.Source {
	return telemetry.Source{Device: c.Device(), BootID: BootID()}
}

var (
	machineIDOnce sync.Once
	machineID     string
	bootID        = uuid.New().String()
)

// MachineID retrieves the unique ID identifying the machine, hashed with
// the application id. It falls back to the hostname.
func MachineID() string {
	machineIDOnce.Do(func() {
		id, err := machineid.ProtectedID(appID)
		if err != nil {
			glog.Warningf("machine id unavailable: %v", err)
			if id, err = os.Hostname(); err != nil {
				id = "unknown"
			}
		}
		machineID = id
	})
	return machineID
}

// BootID identifies this process run.
func BootID() string {
	return bootID
}
