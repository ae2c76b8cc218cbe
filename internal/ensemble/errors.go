// Package ensemble implements the prediction engine: five closed-form
// sub-models, their weighted combination and the scoreline generator.
package ensemble

import "errors"

var (
	// ErrUnknownModel indicates a model kind outside the closed set
	ErrUnknownModel = errors.New("unknown model kind")

	// ErrNoModelOutputs indicates Combine was called without any sub-model output
	ErrNoModelOutputs = errors.New("no sub-model outputs to combine")

	// ErrInvalidContext indicates a match context carrying NaN, Inf or negative rates
	ErrInvalidContext = errors.New("invalid value in match context")
)
