package otf

import (
	"fmt"
	"strings"
)

// isPortAvailable reports whether portName is one of the serial devices
// currently enumerated by the host. It rejects names that cannot be a
// serial device before touching the OS.
func isPortAvailable(portName string) (bool, error) {
	if strings.Contains(portName, "..") {
		return false, fmt.Errorf("otf: invalid port name %q", portName)
	}
	if !isValidPortPattern(portName) {
		return false, fmt.Errorf("otf: port name %q does not match a serial device pattern", portName)
	}

	ports, err := getPortsList()
	if err != nil {
		return false, err
	}
	for _, port := range ports {
		if port == portName {
			return true, nil
		}
	}
	return false, nil
}

func isValidPortPattern(portName string) bool {
	// Windows: COM1-COM999
	if strings.HasPrefix(portName, "COM") && len(portName) >= 4 && len(portName) <= 6 {
		return true
	}
	// Unix: /dev/tty*, macOS call-out devices: /dev/cu*
	return strings.HasPrefix(portName, "/dev/tty") || strings.HasPrefix(portName, "/dev/cu")
}
