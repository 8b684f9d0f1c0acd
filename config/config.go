// Package config builds decoder construction options from defaults,
// environment variables, and (for the CLI) explicit flags, in that
// precedence order.
package config

import (
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"
)

// Config is the full set of construction-time options for a
// decoder.Decoder.
type Config struct {
	MaxErrors   uint32
	ValidateCRC bool
}

// Default returns the documented defaults: max_errors=3, validate_crc=true.
func Default() Config {
	return Config{
		MaxErrors:   DefaultMaxErrors,
		ValidateCRC: true,
	}
}

// FromEnv overlays EVENTSTREAM_MAX_ERRORS and EVENTSTREAM_VALIDATE_CRC
// on top of Default, ignoring unset or unparseable variables rather
// than failing — a malformed override falls back to the default value,
// it does not abort startup.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("EVENTSTREAM_MAX_ERRORS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.MaxErrors = uint32(n)
		}
	}
	if v := os.Getenv("EVENTSTREAM_VALIDATE_CRC"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ValidateCRC = b
		}
	}

	return cfg
}

// Validate aggregates every construction argument violation instead of
// stopping at the first one, so a caller sees the whole picture at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if c.MaxErrors == 0 {
		result = multierror.Append(result, errMaxErrorsZero)
	}

	return result.ErrorOrNil()
}

var errMaxErrorsZero = configError("max_errors must be at least 1")

type configError string

func (e configError) Error() string { return string(e) }
