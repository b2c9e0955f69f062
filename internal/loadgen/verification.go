package loadgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/teamfit/pkg/logger"
)

// ErrMismatch is returned when repeated calls got different answers.
var ErrMismatch = errors.New("repeated calls returned different responses")

// outcome is what the server answered to one call.
type outcome struct {
	status int
	digest uint64
	err    error
}

func newOutcome(status int, body []byte, err error) outcome {
	return outcome{status: status, digest: xxhash.Sum64(body), err: err}
}

// verifyRepeats compares every repeated call with the call it copies. Calls
// that failed in transport are skipped.
func verifyRepeats(ctx context.Context, calls []Call, results []outcome, stats *Stats) error {
	log := logger.Named("loadgen")
	log.Info(ctx, "verifying repeated calls", logger.Int("repeats", stats.CallsRepeated))

	for i, c := range calls {
		if c.Repeats < 0 {
			continue
		}
		got, want := results[i], results[c.Repeats]
		if got.err != nil || want.err != nil {
			continue
		}
		if got.status != want.status || got.digest != want.digest {
			stats.Mismatches++
			log.Warn(ctx, "response mismatch",
				logger.String("op", c.Op),
				logger.String("path", c.Path),
				logger.Int("call", i),
				logger.Int("original", c.Repeats),
			)
		}
	}

	if stats.Mismatches > 0 {
		return fmt.Errorf("%w: %d of %d", ErrMismatch, stats.Mismatches, stats.CallsRepeated)
	}
	log.Info(ctx, "repeated calls are consistent")
	return nil
}
