package serial

import (
	bugst "go.bug.st/serial"
)

// BugstDriver opens ports through go.bug.st/serial. The port is acquired at
// the library default of 9600 8N1 and reconfigured by SetBaudRate.
//
// go.bug.st/serial applies terminal settings inside Open, so a device that is
// not a tty (such as /dev/null) fails acquisition and surfaces as
// ErrDeviceUnavailable. TermiosDriver opens such a device and reports
// ErrConfigurationFailed instead.
type BugstDriver struct{}

// Acquire opens device at 9600 8N1.
func (BugstDriver) Acquire(device string) (Port, error) {
	p, err := bugst.Open(device, &bugst.Mode{BaudRate: 9600})
	if err != nil {
		return nil, err
	}
	return &bugstPort{Port: p}, nil
}

type bugstPort struct {
	bugst.Port
}

func (p *bugstPort) SetBaudRate(baud int) error {
	return p.SetMode(&bugst.Mode{BaudRate: baud})
}
