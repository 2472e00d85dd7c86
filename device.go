package otf

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	bugst "go.bug.st/serial"
	"go.uber.org/atomic"
)

const (
	// maxReplySize bounds a single reply frame; anything longer is line
	// noise or a wedged device and gets dropped.
	maxReplySize = 128

	// verifyTimeout bounds the identification probe issued by Open.
	verifyTimeout = 2 * time.Second
)

// Device is an open connection to the optical filter. It is not safe for
// concurrent use; a mutex serializes exchanges internally so interleaved
// callers fail cleanly instead of corrupting the wire, but the contract
// is a single caller issuing sequential commands.
type Device struct {
	port SerialPort
	cfg  Config
	log  zerolog.Logger

	// exchangeMu serializes command/reply exchanges.
	exchangeMu sync.Mutex

	replies chan string
	closeCh chan struct{}
	doneCh  chan struct{}

	closed  atomic.Bool
	metrics Metrics
}

// Option tweaks a Device at open time.
type Option func(*Device)

// WithLogger attaches a zerolog logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Device) { d.log = log }
}

// Open opens the serial link to the filter described by cfg. Unset
// config fields get the fixed filter defaults (9600 8N1, 100 ms read
// timeout, platform default port). Every failure path returns a
// *ConnectionError.
func Open(cfg Config, opts ...Option) (*Device, error) {
	cfg = cfg.withDefaults()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, connErr(cfg.PortName, err)
	}

	ok, err := isPortAvailable(cfg.PortName)
	if err != nil {
		return nil, connErr(cfg.PortName, err)
	}
	if !ok {
		return nil, connErr(cfg.PortName, ErrPortNotFound)
	}

	mode := &bugst.Mode{
		BaudRate: cfg.BaudRate.Int(),
		DataBits: cfg.DataBits,
		Parity:   cfg.Parity.Get(),
		StopBits: cfg.StopBits.Get(),
	}

	sp, err := openPort(cfg.PortName, mode)
	if err != nil {
		return nil, connErr(cfg.PortName, err)
	}

	if err := sp.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = sp.Close()
		return nil, connErr(cfg.PortName, err)
	}

	// Discard whatever is sitting in the UART from before we attached.
	_ = sp.ResetInputBuffer()
	_ = sp.ResetOutputBuffer()

	d := newDevice(sp, cfg, opts...)

	if cfg.Verify {
		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()
		version, err := d.Identify(ctx)
		if err != nil {
			_ = d.Close()
			return nil, connErr(cfg.PortName, err)
		}
		d.log.Debug().Str("version", version).Msg("filter identified")
	}

	d.log.Info().Str("port", cfg.PortName).Int("baud", cfg.BaudRate.Int()).Msg("filter connected")
	return d, nil
}

// newDevice wraps an existing SerialPort and starts the reply reader.
func newDevice(sp SerialPort, cfg Config, opts ...Option) *Device {
	d := &Device{
		port:    sp,
		cfg:     cfg,
		log:     zerolog.Nop(),
		replies: make(chan string, 8),
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}

	go d.readerLoop()

	return d
}

// Identify probes the filter with the version command and returns the
// reported version string. A tunable filter answers with "V2...".
func (d *Device) Identify(ctx context.Context) (string, error) {
	payload, err := d.exec(ctx, cmdProbe, probeCommand())
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(payload, "2") {
		return "", ioErr("identify", fmt.Errorf("%w: version %q", ErrBadReply, string(cmdProbe)+payload))
	}
	return string(cmdProbe) + payload, nil
}

// Close releases the serial port. It is safe to call multiple times.
func (d *Device) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(d.closeCh)

	// Closing the port first unblocks the reader's in-flight Read.
	err := d.port.Close()
	<-d.doneCh

	d.log.Info().Str("port", d.cfg.PortName).Msg("filter disconnected")
	return err
}

// exec performs one command/reply exchange. Pending replies are drained
// first so a stale frame from an earlier exchange cannot be matched to
// this command.
func (d *Device) exec(ctx context.Context, prefix byte, cmd []byte) (string, error) {
	if d.closed.Load() {
		return "", ioErr("write", ErrClosed)
	}

	d.exchangeMu.Lock()
	defer d.exchangeMu.Unlock()

	d.drainReplies()

	if err := d.writeAll(ctx, cmd); err != nil {
		d.metrics.CommandErrors.Inc()
		return "", err
	}
	d.metrics.CommandsSent.Inc()

	frame, err := d.readReply(ctx)
	if err != nil {
		d.metrics.CommandErrors.Inc()
		return "", err
	}

	payload, err := parseReply(prefix, frame)
	if err != nil {
		d.metrics.CommandErrors.Inc()
		return "", ioErr("reply", err)
	}

	d.metrics.LastExchange.Store(time.Now().UnixNano())
	return payload, nil
}

// execInt runs an exchange whose reply payload is the value previously
// programmed into the device, or empty on a fresh device.
func (d *Device) execInt(ctx context.Context, prefix byte, value int) (int, error) {
	payload, err := d.exec(ctx, prefix, formatCommand(prefix, value))
	if err != nil {
		return 0, err
	}
	if payload == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(payload)
	if err != nil {
		return 0, ioErr("reply", fmt.Errorf("%w: non-numeric payload %q", ErrBadReply, payload))
	}
	return n, nil
}

func (d *Device) drainReplies() {
	for {
		select {
		case _, ok := <-d.replies:
			if !ok {
				// Reader died on a port error; readReply will surface
				// ErrClosed to the caller.
				return
			}
		default:
			return
		}
	}
}

func (d *Device) writeAll(ctx context.Context, data []byte) error {
	written := 0
	for written < len(data) {
		select {
		case <-ctx.Done():
			return ioErr("write", ctx.Err())
		default:
		}

		n, err := d.port.Write(data[written:])
		if err != nil {
			return ioErr("write", err)
		}
		if n == 0 {
			return ioErr("write", fmt.Errorf("wrote 0 of %d bytes", len(data)-written))
		}
		written += n
	}

	d.metrics.BytesWritten.Add(int64(len(data)))
	return nil
}

func (d *Device) readReply(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ioErr("read", ctx.Err())
	case frame, ok := <-d.replies:
		if !ok {
			return "", ioErr("read", ErrClosed)
		}
		return frame, nil
	}
}

// readerLoop continuously reads from the serial port and emits complete
// space-terminated reply frames onto the replies channel.
func (d *Device) readerLoop() {
	defer close(d.doneCh)
	defer close(d.replies)

	buf := getReadBuf()
	defer putReadBuf(buf)

	var frame []byte

	for {
		select {
		case <-d.closeCh:
			return
		default:
		}

		n, err := d.port.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			// read timeout elapsed with nothing on the wire
			continue
		}
		d.metrics.BytesRead.Add(int64(n))

		chunk := buf[:n]
		for len(chunk) > 0 {
			idx := bytes.IndexByte(chunk, replyTerminator)
			if idx == -1 {
				frame = append(frame, chunk...)
				if len(frame) > maxReplySize {
					d.metrics.RepliesDropped.Inc()
					d.log.Warn().Int("len", len(frame)).Msg("dropping oversized reply frame")
					frame = frame[:0]
				}
				break
			}

			frame = append(frame, chunk[:idx]...)
			if len(frame) > 0 {
				select {
				case d.replies <- string(frame):
				case <-d.closeCh:
					return
				}
				frame = frame[:0]
			}

			chunk = chunk[idx+1:]
		}
	}
}
