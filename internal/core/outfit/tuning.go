package outfit

import "time"

// Tuning holds the empirical constants of the generation engine.
type Tuning struct {
	RandomSimilarityThreshold   float64
	AdvisorySimilarityThreshold float64
	OptionalPickProbability     float64
	FreshPickProbability        float64

	RecencyLookback  int
	SimilarityWindow int

	RandomMaxAttempts   int
	AdvisoryMaxAttempts int
	AdvisoryMinItems    int
	AdvisoryTimeout     time.Duration

	// ThinkDelay is held before a random-path result is returned so the
	// client keeps a perceptible "thinking" state. Zero disables it.
	ThinkDelay time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		RandomSimilarityThreshold:   0.6,
		AdvisorySimilarityThreshold: 0.5,
		OptionalPickProbability:     0.7,
		FreshPickProbability:        0.8,

		RecencyLookback:  3,
		SimilarityWindow: 3,

		RandomMaxAttempts:   5,
		AdvisoryMaxAttempts: 3,
		AdvisoryMinItems:    3,
		AdvisoryTimeout:     20 * time.Second,

		ThinkDelay: 1 * time.Second,
	}
}

func (t Tuning) normalize() Tuning {
	out := t
	def := DefaultTuning()

	if out.RandomSimilarityThreshold <= 0 || out.RandomSimilarityThreshold > 1 {
		out.RandomSimilarityThreshold = def.RandomSimilarityThreshold
	}
	if out.AdvisorySimilarityThreshold <= 0 || out.AdvisorySimilarityThreshold > 1 {
		out.AdvisorySimilarityThreshold = def.AdvisorySimilarityThreshold
	}
	if out.OptionalPickProbability < 0 || out.OptionalPickProbability > 1 {
		out.OptionalPickProbability = def.OptionalPickProbability
	}
	if out.FreshPickProbability < 0 || out.FreshPickProbability > 1 {
		out.FreshPickProbability = def.FreshPickProbability
	}
	if out.RecencyLookback <= 0 {
		out.RecencyLookback = def.RecencyLookback
	}
	if out.SimilarityWindow <= 0 {
		out.SimilarityWindow = def.SimilarityWindow
	}
	if out.RandomMaxAttempts <= 0 {
		out.RandomMaxAttempts = def.RandomMaxAttempts
	}
	if out.AdvisoryMaxAttempts <= 0 {
		out.AdvisoryMaxAttempts = def.AdvisoryMaxAttempts
	}
	if out.AdvisoryMinItems <= 0 {
		out.AdvisoryMinItems = def.AdvisoryMinItems
	}
	if out.AdvisoryTimeout < 0 {
		out.AdvisoryTimeout = 0
	}
	if out.ThinkDelay < 0 {
		out.ThinkDelay = 0
	}
	return out
}
