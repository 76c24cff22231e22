package config

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/tessadover/gamelog/internal/errors"
)

// Validate checks the configuration for structural problems.
// Credentials are not required here: read-only commands (status changes)
// work without them, and doctor reports their absence separately.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Vault, validation.Required),
		validation.Field(&c.GamesFolder, validation.Required),
		validation.Field(&c.CoverSize, validation.Required, validation.In(
			CoverSizeSmall, CoverSizeBig, CoverSize720p, CoverSize1080p,
		)),
	)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfig, err.Error())
	}
	return nil
}
