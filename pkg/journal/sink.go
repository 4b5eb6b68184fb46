package journal

import (
	"github.com/sirupsen/logrus"
)

// LogrusSink is the default simerr.DiagnosticSink: it logs every
// diagnostic event through a structured logrus.FieldLogger, matching the
// WithFields-based structured logging style used elsewhere in the corpus.
// Wrap an *EventLog alongside it (or use EventLog directly as the sink)
// when the run also needs a durable, tamper-evident record.
type LogrusSink struct {
	log *logrus.Entry
}

// NewLogrusSink builds a LogrusSink tagged with runID so log lines from
// concurrent runs (e.g. a parameter probe sweep) can be told apart.
func NewLogrusSink(log *logrus.Logger, runID string) *LogrusSink {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogrusSink{log: log.WithField("run_id", runID)}
}

func (s *LogrusSink) NumericFailure(matchIndex int, strategy string, err error) {
	s.log.WithFields(logrus.Fields{
		"match_index": matchIndex,
		"strategy":    strategy,
	}).WithError(err).Warn("numeric failure recovered; ratings left unchanged")
}

func (s *LogrusSink) PairingFallback(matchIndex int, playerID int) {
	s.log.WithFields(logrus.Fields{
		"match_index": matchIndex,
		"player_id":   playerID,
	}).Debug("strategy pairing failed; fell back to uniform random opponent")
}
