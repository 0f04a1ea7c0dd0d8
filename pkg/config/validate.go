package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New()

// Validate checks a Configuration against the invariants of spec §3 and
// §4.7. Struct-tag rules (required fields, weight bounds, tie-breaker
// field/order membership) run through validator/v10, the same library the
// teacher uses to validate its own request models; the cross-field rules
// it can't express — minScore ≤ maxScore, pairwise-distinct priorities
// among enabled rules — run as plain Go afterward.
func Validate(cfg Configuration) error {
	if err := structValidator.Struct(cfg); err != nil {
		return classifyValidationError(err)
	}

	for i, f := range cfg.Features {
		if f.MinScore > f.MaxScore {
			return fmt.Errorf("%w: feature %d (%s): minScore %v > maxScore %v",
				ErrInvalidRange, i, f.Type, f.MinScore, f.MaxScore)
		}
	}

	seenPriorities := map[int]bool{}
	for i, r := range cfg.HardRules {
		if !r.Enabled {
			continue
		}
		if seenPriorities[r.Priority] {
			return fmt.Errorf("%w: rule %d (%s): priority %d already used",
				ErrDuplicatePriorities, i, r.Type, r.Priority)
		}
		seenPriorities[r.Priority] = true
	}

	return nil
}

// classifyValidationError maps a validator.ValidationErrors into the
// sentinel taxonomy of spec §7, keyed on which field failed.
func classifyValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Weight":
		return fmt.Errorf("%w: %s", ErrInvalidWeight, fe)
	case "Field":
		return fmt.Errorf("%w: %s", ErrInvalidTieBreakerField, fe)
	case "Order":
		return fmt.Errorf("%w: %s", ErrInvalidTieBreakerOrder, fe)
	case "Type":
		return fmt.Errorf("%w: %s", ErrUnknownFeatureType, fe)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidProfile, fe)
	}
}
