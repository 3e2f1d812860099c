// Package notify carries user-facing notices out of the engine. The concrete
// sink (voice output, desktop notification) lives outside this subsystem;
// the engine only needs something that can Speak.
package notify

import "github.com/rs/zerolog"

// Notifier receives short human-readable notices. High-severity detections
// are announced through it immediately; everything else is logged only.
type Notifier interface {
	Speak(message string)
}

// LogNotifier is the default sink: it writes each notice to the structured
// log at warn level so operators without a voice sink still see alerts.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Speak(message string) {
	n.logger.Warn().Str("notice", message).Msg("User notification")
}

// NopNotifier discards every notice. Used in tests.
type NopNotifier struct{}

func (NopNotifier) Speak(string) {}
