package dispatch

import (
	"context"
	"log/slog"

	"onboard/internal/check/models"
)

// LogDispatcher only logs payloads. It stands in when no broker is configured.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, payloads []models.Payload) error {
	for _, p := range payloads {
		types := make([]string, 0, len(p.Tasks))
		for _, t := range p.TaskTypes() {
			types = append(types, string(t))
		}
		d.logger.InfoContext(ctx, "verification request not sent, no broker configured",
			"kind", string(p.Kind),
			"reference", p.Reference,
			"tasks", types,
			"monitoring", p.Monitoring,
		)
	}
	return nil
}
