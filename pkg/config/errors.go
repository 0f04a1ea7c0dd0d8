package config

import "errors"

// Sentinel configuration errors, matched by the taxonomy in spec §7. They
// are reported at load/validate time, never at query time.
var (
	ErrUnknownFeatureType     = errors.New("unknown_feature_type")
	ErrUnknownRuleType        = errors.New("unknown_rule_type")
	ErrMissingParameters      = errors.New("missing_parameters")
	ErrMissingParameter       = errors.New("missing_parameter")
	ErrInvalidParameterType   = errors.New("invalid_parameter_type")
	ErrInvalidRange           = errors.New("invalid_range")
	ErrInvalidWeight          = errors.New("invalid_weight")
	ErrDuplicatePriorities    = errors.New("duplicate_priorities")
	ErrInvalidTieBreakerField = errors.New("invalid_tie_breaker_field")
	ErrInvalidTieBreakerOrder = errors.New("invalid_tie_breaker_order")
	ErrInvalidProfile         = errors.New("invalid_profile")
)
