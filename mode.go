package otf

import gobug "go.bug.st/serial"

// BaudRate is a serial line speed in bits per second.
type BaudRate int

func (b BaudRate) Int() int { return int(b) }

const (
	Baud1200   BaudRate = 1200
	Baud2400   BaudRate = 2400
	Baud4800   BaudRate = 4800
	Baud9600   BaudRate = 9600
	Baud19200  BaudRate = 19200
	Baud38400  BaudRate = 38400
	Baud57600  BaudRate = 57600
	Baud115200 BaudRate = 115200
)

type Parity gobug.Parity

func (pa Parity) Get() gobug.Parity { return gobug.Parity(pa) }

const (
	ParityNone = Parity(gobug.NoParity)
	ParityOdd  = Parity(gobug.OddParity)
	ParityEven = Parity(gobug.EvenParity)
)

type StopBits gobug.StopBits

func (sb StopBits) Get() gobug.StopBits { return gobug.StopBits(sb) }

const (
	StopBits1 = StopBits(gobug.OneStopBit)
	StopBits2 = StopBits(gobug.TwoStopBits)
)
