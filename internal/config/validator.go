package config

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	lixerrors "github.com/standardbeagle/lix/internal/errors"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults checks every config section and collects all
// failures, so one bad field does not mask another.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	var errs []error

	if err := v.validateProject(&cfg.Project); err != nil {
		errs = append(errs, lixerrors.NewConfigError("project", cfg.Project.Root, err))
	}
	if err := v.validateScan(&cfg.Scan); err != nil {
		errs = append(errs, lixerrors.NewConfigError("scan", "", err))
	}
	if err := v.validateWatch(&cfg.Watch); err != nil {
		errs = append(errs, lixerrors.NewConfigError("watch", "", err))
	}
	if err := v.validateDisplay(&cfg.Display); err != nil {
		errs = append(errs, lixerrors.NewConfigError("display", cfg.Display.Format, err))
	}
	errs = append(errs, validatePatterns("include", cfg.Include)...)
	errs = append(errs, validatePatterns("exclude", cfg.Exclude)...)

	if len(errs) > 0 {
		return lixerrors.NewMultiError(errs)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProject(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateScan(scan *Scan) error {
	if scan.MaxFileSize <= 0 {
		return fmt.Errorf("MaxFileSize must be positive, got %d", scan.MaxFileSize)
	}
	if scan.MaxFileSize > 100*1024*1024 {
		return fmt.Errorf("MaxFileSize should not exceed 100MB, got %d", scan.MaxFileSize)
	}
	if scan.MaxFileCount <= 0 {
		return fmt.Errorf("MaxFileCount must be positive, got %d", scan.MaxFileCount)
	}
	if scan.Workers < 0 {
		return fmt.Errorf("Workers cannot be negative, got %d", scan.Workers)
	}
	return nil
}

func (v *Validator) validateWatch(watch *Watch) error {
	if watch.DebounceMs < 0 {
		return fmt.Errorf("DebounceMs cannot be negative, got %d", watch.DebounceMs)
	}
	return nil
}

func (v *Validator) validateDisplay(display *Display) error {
	switch display.Format {
	case "", "text", "table", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown format %q, expected text, table, json or yaml", display.Format)
	}
}

func validatePatterns(field string, patterns []string) []error {
	var errs []error
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, lixerrors.NewConfigError(field, pattern, errors.New("invalid glob pattern")))
		}
	}
	return errs
}

// setSmartDefaults fills gaps a partial config leaves open.
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Display.Format == "" {
		cfg.Display.Format = "table"
	}
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = 300
	}
	// Scan.Workers stays at 0; EffectiveWorkers resolves it per CPU.
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
