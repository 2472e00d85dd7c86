package otf

import (
	"fmt"
	"math"
)

// Command prefixes understood by the filter. A command is the prefix
// letter, a zero-padded four digit payload and a comma. Replies echo the
// prefix, carry the previously programmed value (possibly empty) and are
// terminated by a single space.
const (
	cmdProbe    = 'V'
	cmdCoarse   = 'C'
	cmdStepUp   = 'I'
	cmdStepDown = 'D'
	cmdScanLow  = 'L'
	cmdScanHigh = 'H'
	cmdScanStay = 'T'
	cmdScanRun  = 'S'

	cmdTerminator   = ','
	replyTerminator = ' '
)

const (
	// MinWavelength and MaxWavelength bound the filter's tuning range in
	// integer nanometers.
	MinWavelength = 1510
	MaxWavelength = 1589

	// FineStep is the fine tuning granularity in nanometers.
	FineStep = 0.2
)

// formatCommand renders a command frame, e.g. formatCommand(cmdCoarse, 1550)
// yields "C1550,".
func formatCommand(prefix byte, value int) []byte {
	return []byte(fmt.Sprintf("%c%04d%c", prefix, value, cmdTerminator))
}

// probeCommand is the bare identification frame; it carries no payload.
func probeCommand() []byte {
	return []byte{cmdProbe, cmdTerminator}
}

// splitWavelength decomposes a target wavelength into the coarse integer
// nanometer value and the number of signed FineStep increments on top of it.
func splitWavelength(wl float64) (coarse, fine int) {
	coarse = int(math.Round(wl))
	fine = int(math.Round((wl - float64(coarse)) / FineStep))
	return coarse, fine
}

// parseReply checks a reply frame against the prefix of the command that
// produced it and returns the payload. The reader has already stripped
// the frame terminator.
func parseReply(prefix byte, frame string) (string, error) {
	if len(frame) == 0 || frame[0] != prefix {
		return "", fmt.Errorf("%w: %q (want prefix %c)", ErrBadReply, frame, prefix)
	}
	return frame[1:], nil
}
