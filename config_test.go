package serial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_Default(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB0")
	require.NoError(t, cfg.Validate())
	require.Equal(t, 9600, cfg.BaudRate)
	require.Equal(t, 1.0, cfg.Timeout)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		msg  string
	}{
		{"no device", Config{BaudRate: 9600}, "device is required"},
		{"zero baud", Config{Device: "/dev/ttyS0"}, "baud rate must be positive"},
		{"negative baud", Config{Device: "/dev/ttyS0", BaudRate: -1}, "baud rate must be positive"},
		{"negative timeout", Config{Device: "/dev/ttyS0", BaudRate: 9600, Timeout: -1}, "timeout"},
		{"nan timeout", Config{Device: "/dev/ttyS0", BaudRate: 9600, Timeout: math.NaN()}, "timeout"},
		{"inf timeout", Config{Device: "/dev/ttyS0", BaudRate: 9600, Timeout: math.Inf(1)}, "timeout"},
		{"unknown driver", Config{Device: "/dev/ttyS0", BaudRate: 9600, Driver: "nope"}, "unknown driver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestConfig_NewSession(t *testing.T) {
	cfg := Config{Device: "/dev/ttyFAKE0", BaudRate: 19200, Timeout: 0.25, Driver: "bugst"}
	d := &fakeDriver{port: newFakePort("")}

	s, err := cfg.NewSession(WithDriver(d))
	require.NoError(t, err)
	require.Equal(t, StateUnopened, s.State())
	require.Equal(t, 19200, s.BaudRate())

	require.NoError(t, s.Open())
	require.Equal(t, []string{"/dev/ttyFAKE0"}, d.acquired)
	require.Equal(t, 19200, d.port.baud)
	s.Close()

	_, err = Config{}.NewSession()
	require.Error(t, err)

	_, err = Config{Device: "/dev/ttyFAKE0", BaudRate: 9600, Driver: "nope"}.NewSession()
	require.ErrorContains(t, err, "unknown driver")
}

func TestDrivers(t *testing.T) {
	require.Contains(t, Drivers(), "bugst")

	d, err := LookupDriver("")
	require.NoError(t, err)
	require.NotNil(t, d)

	_, err = LookupDriver("nope")
	require.Error(t, err)

	require.Equal(t, d, New("/dev/ttyFAKE0", 9600, 1).driver)
}
