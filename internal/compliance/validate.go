package compliance

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // IANA zones without a system database

	"github.com/go-playground/validator/v10"
)

// ValidationError invalid firm config field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	hhmm    = regexp.MustCompile(`^\d{2}:\d{2}$`)
	checker = validator.New()
)

// Validate checks struct tags, then the trading window
func Validate(cfg *FirmConfig) error {
	if err := checker.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return ValidationError{fieldPath(fe.Namespace()), fmt.Sprintf("failed %s rule", fe.Tag())}
		}
		return err
	}

	h := cfg.TradingHours
	if !h.Enabled() {
		return nil
	}

	if err := validateHHMM(h.Start); err != nil {
		return ValidationError{"trading_hours.start", err.Error()}
	}
	if err := validateHHMM(h.End); err != nil {
		return ValidationError{"trading_hours.end", err.Error()}
	}

	start, _ := time.Parse("15:04", h.Start)
	end, _ := time.Parse("15:04", h.End)
	if !start.Before(end) {
		return ValidationError{"trading_hours", "start must be before end"}
	}

	if _, err := time.LoadLocation(h.Timezone); err != nil {
		return ValidationError{"trading_hours.timezone", fmt.Sprintf("unknown timezone %q", h.Timezone)}
	}

	return nil
}

func validateHHMM(s string) error {
	if !hhmm.MatchString(s) {
		return errors.New("must be HH:MM format")
	}
	_, err := time.Parse("15:04", s)
	return err
}

// fieldPath turns "FirmConfig.RiskParameters.MaxDrawdown" into "RiskParameters.MaxDrawdown"
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
