package model

import "go.uber.org/zap"

// Options configures the Builder.
type Options struct {
	Labeler   func(string) string
	Logger    *zap.Logger
	StrictIDs bool
}

func defaultOptions() Options {
	return Options{
		Labeler: DefaultLabeler,
		Logger:  zap.NewNop(),
	}
}
