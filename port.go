package serial

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Port is an acquired device handle. It may not be configured yet: a Session
// calls SetBaudRate right after acquisition and releases the handle with Close
// if that fails.
type Port interface {
	io.ReadWriteCloser

	// SetBaudRate configures the line speed.
	SetBaudRate(baud int) error
}

// Driver acquires device handles by name.
type Driver interface {
	Acquire(device string) (Port, error)
}

// DriverFunc adapts a function to the Driver interface.
type DriverFunc func(device string) (Port, error)

// Acquire calls f(device).
func (f DriverFunc) Acquire(device string) (Port, error) {
	return f(device)
}

var (
	drivers           = map[string]Driver{"bugst": BugstDriver{}}
	defaultDriverName = "bugst"
)

// LookupDriver returns the driver registered under name. An empty name selects
// the platform default.
func LookupDriver(name string) (Driver, error) {
	if name == "" {
		name = defaultDriverName
	}
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("unknown driver %q", name)
	}
	return d, nil
}

func defaultDriver() Driver {
	d, ok := drivers[defaultDriverName]
	if !ok {
		panic("serial: default driver " + defaultDriverName + " is not registered")
	}
	return d
}

// Drivers returns the names of the registered drivers in sorted order.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// handle releases its Port at most once, whichever of Session.Close or the
// garbage-collection cleanup gets there first.
type handle struct {
	Port
	closeOnce sync.Once
	err       error
}

func (h *handle) Close() error {
	h.closeOnce.Do(func() {
		h.err = h.Port.Close()
	})
	return h.err
}
