package stimulus

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/teslashibe/go-pointlight/pkg/errs"
)

// Times returns the sample instants for duration seconds at fps frames per
// second, starting at 0.
func Times(fps, duration float64) ([]float64, error) {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return nil, errs.Config("stimulus", "fps must be positive, got %v", fps)
	}
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil, errs.Config("stimulus", "duration must be non-negative, got %v", duration)
	}

	n := int(math.Floor(duration*fps+1e-9)) + 1
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) / fps
	}
	return times, nil
}

// Render computes the frames at the given wall-clock times using up to
// workers goroutines. Times are scaled by the sequence speed, so the result
// matches a running sequence driven by NextFrame. The result is
// index-aligned with times and identical to calling FrameAt(t*Speed())
// sequentially. workers <= 0 uses GOMAXPROCS.
func Render(ctx context.Context, seq *Sequence, times []float64, workers int) ([]Frame, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	speed := seq.Speed()
	frames := make([]Frame, len(times))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, t := range times {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := seq.FrameAt(t * speed)
			if err != nil {
				return err
			}
			frames[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}
