package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks struct tags on the configuration and on the section of the
// selected backend.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(cfg); err != nil {
		return err
	}

	switch cfg.Backend {
	case BackendFlow:
		if err := validate.Struct(&cfg.Flow); err != nil {
			return fmt.Errorf("flow: %w", err)
		}
	case BackendDirectory:
		if err := validate.Struct(&cfg.Directory); err != nil {
			return fmt.Errorf("directory: %w", err)
		}
		if err := cfg.Directory.Validate(); err != nil {
			return fmt.Errorf("directory: %w", err)
		}
	}
	return nil
}
