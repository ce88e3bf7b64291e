package notification

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"adiabatic_site_backend/internal/leads/repository"
	"adiabatic_site_backend/platform/logger"
)

// ActivityStore records the per-channel delivery outcomes.
type ActivityStore interface {
	CreateActivity(ctx context.Context, params repository.CreateActivityParams) error
}

// Dispatcher fans a persisted lead out to every configured channel.
// Channels are independent: one failing never blocks the others, and no
// channel outcome ever reaches the submitter.
type Dispatcher struct {
	log        *logger.Logger
	activities ActivityStore
	channels   []Channel
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewDispatcher(log *logger.Logger, activities ActivityStore, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		log:        log,
		activities: activities,
		channels:   channels,
		sleep:      sleepContext,
	}
}

// Dispatch attempts delivery on every channel and returns the per-channel
// outcome map. Skipped (unconfigured) channels report false without an
// attempt. Each successful delivery writes one activity row.
func (d *Dispatcher) Dispatch(ctx context.Context, lead repository.Lead, sourceName string, settings Settings) map[string]bool {
	results := make(map[string]bool, len(d.channels))
	var mu sync.Mutex

	var g errgroup.Group
	for _, ch := range d.channels {
		if !ch.Configured(settings) {
			results[ch.Name()] = false
			continue
		}

		g.Go(func() error {
			sent := d.deliver(ctx, ch, lead, sourceName, settings)
			mu.Lock()
			results[ch.Name()] = sent
			mu.Unlock()
			if !sent {
				return nil
			}

			d.log.ChannelSent(ch.Name(), lead.UUID.String())
			if err := d.activities.CreateActivity(ctx, repository.CreateActivityParams{
				LeadUUID:     lead.UUID,
				ActivityType: ch.ActivityType(),
				Description:  "Notification sent via " + ch.Name(),
				Actor:        "System",
			}); err != nil {
				d.log.DatabaseError("notification.activity", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// deliver runs the retry loop for one channel. Every failed attempt is
// logged; the final failure is swallowed here, per the best-effort contract.
func (d *Dispatcher) deliver(ctx context.Context, ch Channel, lead repository.Lead, sourceName string, settings Settings) bool {
	attempts := settings.Attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		err := ch.Send(ctx, lead, sourceName, settings)
		if err == nil {
			return true
		}
		d.log.ChannelFailure(ch.Name(), lead.UUID.String(), attempt, err)

		if attempt == attempts {
			break
		}
		if err := d.sleep(ctx, settings.RetryDelay()); err != nil {
			return false
		}
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
