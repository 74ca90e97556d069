package obs

import (
	"context"
	"log/slog"
	"time"

	"field-dispatch-service/internal/platform/logger"
)

// Time logs the duration of an operation once the returned func is called.
//
//	defer obs.Time(ctx, "routing.Optimize")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	log := logger.FromContext(ctx, slog.Default())

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.WarnContext(ctx, "op finished", "op", name, "dur_ms", dur.Milliseconds(), "err", *errp)
			return
		}
		log.DebugContext(ctx, "op finished", "op", name, "dur_ms", dur.Milliseconds())
	}
}
