package config

import (
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	var s Settings
	require.NoError(t, envconfig.Process("JASMIN_API", &s))

	assert.Equal(t, ":8000", s.ListenAddr)
	assert.Equal(t, "localhost", s.TelnetHost)
	assert.Equal(t, 8990, s.TelnetPort)
	assert.Equal(t, "jcliadmin", s.TelnetUsername)
	assert.Equal(t, "jclipwd", s.TelnetPassword)
	assert.Equal(t, 10*time.Second, s.TelnetTimeout)
	assert.Equal(t, "static", s.Discovery)
	assert.Empty(t, s.DockerPorts)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("JASMIN_API_TELNET_PW", "s3cret")
	t.Setenv("JASMIN_API_DOCKER_PORTS", "8990,8991")
	t.Setenv("JASMIN_API_DISCOVERY", "ports")
	t.Setenv("JASMIN_API_TELNET_TIMEOUT", "3s")

	var s Settings
	require.NoError(t, envconfig.Process("JASMIN_API", &s))
	assert.Equal(t, "s3cret", s.TelnetPassword)
	assert.Equal(t, []int{8990, 8991}, s.DockerPorts)
	assert.Equal(t, "ports", s.Discovery)
	assert.Equal(t, 3*time.Second, s.TelnetTimeout)
}
