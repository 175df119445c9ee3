// Package classifier talks to the external scene-classification service that
// maps campaign tags or free-form text to a predicted scene name.
package classifier

import (
	"context"
	"errors"
)

// ErrPrediction is the single error kind surfaced for any transport, parse,
// or empty-result problem. Callers treat all of them identically.
var ErrPrediction = errors.New("classifier: prediction failed")

// ScenePrediction is the normalized verdict of one classifier call.
// It is consumed immediately by the resolver and never persisted.
//
// Scene keeps the classifier's original casing: when no canonical scene
// matches, the raw text becomes the user-visible fallback search query.
type ScenePrediction struct {
	Scene      string
	Confidence *float64
	Reason     string
}

// Client is the capability the orchestrator depends on. Implementations wrap
// whatever protocol the classification service actually speaks.
type Client interface {
	// PredictFromTags asks for the scene best matching a set of event tags.
	PredictFromTags(ctx context.Context, genre string, tags []string) (ScenePrediction, error)

	// PredictFromText asks the service to interpret free-form natural
	// language (e.g. transcribed speech) directly.
	PredictFromText(ctx context.Context, genre string, text string) (ScenePrediction, error)
}
