package otf

import (
	"errors"
	"testing"
)

func TestIsValidPortPattern(t *testing.T) {
	tests := []struct {
		port string
		want bool
	}{
		{"COM3", true},
		{"COM10", true},
		{"/dev/ttyUSB0", true},
		{"/dev/ttyS0", true},
		{"/dev/cu.usbserial", true},
		{"COM", false},
		{"mock", false},
		{"/tmp/not-a-port", false},
	}

	for _, tt := range tests {
		if got := isValidPortPattern(tt.port); got != tt.want {
			t.Errorf("isValidPortPattern(%q) = %v, want %v", tt.port, got, tt.want)
		}
	}
}

func TestIsPortAvailable(t *testing.T) {
	origList := getPortsList
	defer func() { getPortsList = origList }()
	getPortsList = func() ([]string, error) { return []string{"/dev/ttyUSB0", "/dev/ttyS0"}, nil }

	ok, err := isPortAvailable("/dev/ttyUSB0")
	if err != nil || !ok {
		t.Fatalf("expected /dev/ttyUSB0 available, got ok=%v err=%v", ok, err)
	}

	ok, err = isPortAvailable("/dev/ttyUSB1")
	if err != nil || ok {
		t.Fatalf("expected /dev/ttyUSB1 unavailable, got ok=%v err=%v", ok, err)
	}

	if _, err = isPortAvailable("/dev/tty/../../etc/passwd"); err == nil {
		t.Fatalf("expected error for path traversal in port name")
	}
}

func TestIsPortAvailableListFailure(t *testing.T) {
	origList := getPortsList
	defer func() { getPortsList = origList }()
	listErr := errors.New("enumeration failed")
	getPortsList = func() ([]string, error) { return nil, listErr }

	_, err := isPortAvailable("/dev/ttyUSB0")
	if !errors.Is(err, listErr) {
		t.Fatalf("expected enumeration error, got %v", err)
	}
}
