package otf

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ScanParams configures a sweep across the filter's tuning range.
type ScanParams struct {
	// StartNM and EndNM bound the sweep in integer nanometers.
	StartNM int `validate:"min=1510,max=1589"`
	EndNM   int `validate:"min=1510,max=1589"`

	// Stay is how long the filter dwells on each step. The device
	// accepts 0.1 s to 30 s in 0.1 s increments.
	Stay time.Duration

	// Span is the step width of the sweep, 1 to 30.
	Span int `validate:"min=1,max=30"`
}

// ScanWindow holds the sweep bounds that were programmed into the device
// before a Scan call replaced them.
type ScanWindow struct {
	StartNM int
	EndNM   int
	Stay    time.Duration
}

// Scan programs the sweep window and runs one sweep, invoking progress
// (if non-nil) with each wavelength the device reports while stepping.
// It blocks until the device signals the end of the sweep or ctx is
// done, and returns the window that was programmed before this call.
func (d *Device) Scan(ctx context.Context, params ScanParams, progress func(wavelengthNM int)) (ScanWindow, error) {
	var prev ScanWindow

	stayTenths := int(math.Round(params.Stay.Seconds() * 10))
	if err := validateScanParams(&params, stayTenths); err != nil {
		return prev, err
	}

	start, err := d.execInt(ctx, cmdScanLow, params.StartNM)
	if err != nil {
		return prev, err
	}
	end, err := d.execInt(ctx, cmdScanHigh, params.EndNM)
	if err != nil {
		return prev, err
	}
	stay, err := d.execInt(ctx, cmdScanStay, stayTenths)
	if err != nil {
		return prev, err
	}
	prev = ScanWindow{
		StartNM: start,
		EndNM:   end,
		Stay:    time.Duration(stay) * 100 * time.Millisecond,
	}

	if d.closed.Load() {
		return prev, ioErr("write", ErrClosed)
	}

	// The sweep itself is one long exchange: the start command followed
	// by a stream of progress frames until the terminator.
	d.exchangeMu.Lock()
	defer d.exchangeMu.Unlock()

	d.drainReplies()

	if err := d.writeAll(ctx, formatCommand(cmdScanRun, params.Span)); err != nil {
		d.metrics.CommandErrors.Inc()
		return prev, err
	}
	d.metrics.CommandsSent.Inc()

	d.log.Debug().
		Int("start_nm", params.StartNM).
		Int("end_nm", params.EndNM).
		Int("span", params.Span).
		Msg("sweep started")

	for {
		frame, err := d.readReply(ctx)
		if err != nil {
			d.metrics.CommandErrors.Inc()
			return prev, err
		}

		// The device ends the sweep with a frame beginning 'o'.
		if frame[0] == 'o' {
			break
		}

		payload, err := parseReply(cmdScanRun, frame)
		if err != nil {
			d.metrics.CommandErrors.Inc()
			return prev, ioErr("scan", err)
		}
		if payload == "" {
			continue
		}
		if wl, convErr := strconv.Atoi(payload); convErr == nil && progress != nil {
			progress(wl)
		}
	}

	d.metrics.LastExchange.Store(time.Now().UnixNano())
	d.log.Debug().Msg("sweep finished")
	return prev, nil
}

func validateScanParams(p *ScanParams, stayTenths int) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	if stayTenths < 1 || stayTenths > 300 {
		return fmt.Errorf("%w: stay %s (supported 0.1s-30s)", ErrOutOfRange, p.Stay)
	}
	if p.EndNM < p.StartNM {
		return fmt.Errorf("%w: scan window %d-%d nm", ErrOutOfRange, p.StartNM, p.EndNM)
	}
	return nil
}
