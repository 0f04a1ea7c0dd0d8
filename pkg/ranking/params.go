package ranking

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/tomoshibi/kotoba/pkg/config"
)

// decodeParams decodes a config.ParamMap into dst (a pointer to a
// feature- or rule-specific parameter struct), the same mapstructure
// decode step the platform config package uses to turn an untyped
// mapping into a typed settings record.
func decodeParams(params config.ParamMap, dst any) error {
	if params == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidParameterType, err)
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidParameterType, err)
	}
	return nil
}

// jlptParams configures the jlpt feature's level→score table.
type jlptParams struct {
	LevelScores map[string]float64 `mapstructure:"levelScores"`
}

func defaultJLPTScores() map[string]float64 {
	return map[string]float64{"N5": 10, "N4": 7, "N3": 4, "N2": 2, "N1": 0}
}

// frequencyParams configures the frequency feature's rank→score smoothing.
type frequencyParams struct {
	Smoothing string  `mapstructure:"smoothing"`
	Midpoint  float64 `mapstructure:"midpoint"`
}

// containsMatchParams configures whether the containsMatch feature refines
// its raw score using edit-distance similarity.
type containsMatchParams struct {
	UseEdlib bool `mapstructure:"useEdlib"`
}

// commonPrefixBucketParams configures the commonPrefixBucket hard rule's
// frequency-rank threshold.
type commonPrefixBucketParams struct {
	FrequencyThreshold int `mapstructure:"frequencyThreshold"`
}
