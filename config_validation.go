package otf

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validBaudRates = []BaudRate{
	Baud1200, Baud2400, Baud4800, Baud9600,
	Baud19200, Baud38400, Baud57600, Baud115200,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("baudrate", func(fl validator.FieldLevel) bool {
		rate := BaudRate(fl.Field().Int())
		for _, b := range validBaudRates {
			if rate == b {
				return true
			}
		}
		return false
	})
	return v
}

// ValidateConfig checks serial parameters before the port is touched.
func ValidateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("otf: invalid config: %w", err)
	}
	switch cfg.Parity {
	case ParityNone, ParityOdd, ParityEven:
	default:
		return fmt.Errorf("otf: invalid config: parity %d", cfg.Parity)
	}
	switch cfg.StopBits {
	case StopBits1, StopBits2:
	default:
		return fmt.Errorf("otf: invalid config: stop bits %d", cfg.StopBits)
	}
	return nil
}
