package otf

import (
	"context"
	"fmt"
	"math"
)

// SetChannel tunes the filter to the requested wavelength in nanometers
// and returns the wavelength actually selected. The filter tunes in
// whole nanometers plus FineStep increments, so the result can differ
// from the request by up to half a step; a warning is logged when it
// does. Each call is an independent exchange, no state is carried
// between calls.
func (d *Device) SetChannel(ctx context.Context, wl float64) (float64, error) {
	coarse, fine := splitWavelength(wl)
	if coarse < MinWavelength || coarse > MaxWavelength {
		return 0, fmt.Errorf("%w: wavelength %.1f nm (supported %d-%d)",
			ErrOutOfRange, wl, MinWavelength, MaxWavelength)
	}
	// A negative remainder at the coarse floor would fine-step below the
	// tuning range (1509.9 rounds to 1510 minus one step); snap to the
	// floor instead.
	if coarse == MinWavelength && fine < 0 {
		fine = 0
	}

	actual := float64(coarse) + float64(fine)*FineStep
	if math.Abs(wl-actual) > 1e-6 {
		d.log.Warn().
			Float64("requested_nm", wl).
			Float64("selected_nm", actual).
			Msg("wavelength not on tuning grid, selecting nearest")
	}

	if _, err := d.exec(ctx, cmdCoarse, formatCommand(cmdCoarse, coarse)); err != nil {
		return 0, err
	}

	switch {
	case fine > 0:
		if _, err := d.exec(ctx, cmdStepUp, formatCommand(cmdStepUp, fine)); err != nil {
			return 0, err
		}
	case fine < 0:
		if _, err := d.exec(ctx, cmdStepDown, formatCommand(cmdStepDown, -fine)); err != nil {
			return 0, err
		}
	}

	d.log.Debug().Float64("wavelength_nm", actual).Msg("channel set")
	return actual, nil
}
