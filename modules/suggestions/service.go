package suggestions

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/atrium-hq/atrium/internal/timerange"
)

// Service is the suggestion entrypoint used by the conflict checker.
// It never returns an error: if the AI client is missing, rate limited, or
// fails in any way, the deterministic generator answers instead.
type Service struct {
	client    *Client // nil when no API key is configured
	generator *Generator
	limiter   *rate.Limiter
}

func NewService(client *Client, generator *Generator) *Service {
	return &Service{
		client:    client,
		generator: generator,
		// The completions API is slow and billed per token. One request per
		// second with a small burst is plenty for interactive conflict checks.
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// Suggest returns up to three alternative slots for the requested interval,
// avoiding the given busy windows. A zero or negative duration yields nil.
func (s *Service) Suggest(ctx context.Context, venue, date, startTime, endTime string, busy []Window) []Slot {
	duration := timerange.Duration(startTime, endTime)
	if duration <= 0 {
		return nil
	}

	if s.client != nil && s.limiter.Allow() {
		slots, err := s.client.Suggest(ctx, venue, date, startTime, endTime, duration, busy)
		if err == nil {
			return slots
		}
		slog.Warn("falling back to generated suggestions", "venue", venue, "date", date, "error", err)
	}

	return s.generator.Slots(duration, busy)
}
