package scheduler

import (
	"context"
	"log"
	"time"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on a fixed interval until ctx is done.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	// run immediately
	go func() {
		if err := task(ctx); err != nil {
			log.Printf("[%s] error: %v", name, err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := task(ctx); err != nil {
				log.Printf("[%s] error: %v", name, err)
			}
		}
	}
}

// NextRun returns the earliest upcoming occurrence of any of the HH:MM times
// in loc, strictly after now. Invalid entries are skipped.
func NextRun(now time.Time, loc *time.Location, times []string) (time.Time, bool) {
	local := now.In(loc)

	var next time.Time
	for _, s := range times {
		hm, err := time.Parse("15:04", s)
		if err != nil {
			continue
		}
		cand := time.Date(local.Year(), local.Month(), local.Day(), hm.Hour(), hm.Minute(), 0, 0, loc)
		if !cand.After(local) {
			// tomorrow; rebuild via Date so DST shifts don't skew the wall clock
			cand = time.Date(local.Year(), local.Month(), local.Day()+1, hm.Hour(), hm.Minute(), 0, 0, loc)
		}
		if next.IsZero() || cand.Before(next) {
			next = cand
		}
	}
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}

// Daily runs task at the given wall-clock times in loc until ctx is done.
func Daily(ctx context.Context, loc *time.Location, times []string, name string, task Task) {
	for {
		next, ok := NextRun(time.Now(), loc, times)
		if !ok {
			log.Printf("[%s] no valid schedule times; scheduler idle", name)
			return
		}
		wait := time.Until(next)
		log.Printf("[%s] next run at %s (in %s)", name, next.Format(time.RFC3339), wait.Round(time.Second))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := task(ctx); err != nil {
				log.Printf("[%s] error: %v", name, err)
			}
		}
	}
}
