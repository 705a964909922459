package models

import "fmt"

// Mode is one of the three operating personas of a restaurant assistant.
// Configuration and call analytics are partitioned per mode; anything
// outside the closed set is rejected at every boundary.
type Mode string

const (
	ModeCustomer   Mode = "customer"
	ModeOperations Mode = "operations"
	ModeSales      Mode = "sales"
)

var AllModes = []Mode{ModeCustomer, ModeOperations, ModeSales}

func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}

func (m Mode) Valid() bool {
	switch m {
	case ModeCustomer, ModeOperations, ModeSales:
		return true
	}
	return false
}

func (m Mode) String() string {
	return string(m)
}
