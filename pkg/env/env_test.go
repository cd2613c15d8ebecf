package env

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	require.NotEmpty(t, MachineID())
	require.Equal(t, MachineID(), MachineID())
	_, err := uuid.Parse(BootID())
	require.NoError(t, err)
	require.Equal(t, BootID(), BootID())
}

func TestConfig(t *testing.T) {
	conf := NewConfig()
	conf.DeviceID = "dev1"
	require.Equal(t, "dev1", conf.Device())
	meta := conf.Meta()
	require.Equal(t, "dev1", meta.Device)
	require.Equal(t, BootID(), meta.BootID)
	require.Equal(t, "dev1", conf.Source().Device)

	conf.DeviceID = ""
	require.Equal(t, MachineID(), conf.Device())
	require.NotSame(t, Default(), conf)
}
