package subscription

import (
	"context"
	"fmt"

	"github.com/Tandera-io/integracao-lia-teams/pkg/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/hashicorp/go-multierror"
)

// Renewer periodically extends the expiration of every subscription owned by
// this service, well before the provider lets it lapse.
type Renewer struct {
	manager   *Manager
	scheduler gocron.Scheduler
}

func NewRenewer(cfg RenewalConfig, manager *Manager) (*Renewer, error) {
	r := &Renewer{manager: manager}
	if !cfg.Enabled {
		return r, nil
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("cannot create scheduler: %w", err)
	}
	_, err = s.NewJob(gocron.DurationJob(cfg.Interval), gocron.NewTask(func() {
		if err := r.RenewAll(context.Background()); err != nil {
			log.Errorf("renewal sweep failed: %v", err)
		}
	}))
	if err != nil {
		return nil, fmt.Errorf("cannot create renewal job: %w", err)
	}
	s.Start()
	r.scheduler = s
	return r, nil
}

// RenewAll renews every owned subscription, aggregating per-id failures so
// one rejected renewal does not starve the rest.
func (r *Renewer) RenewAll(ctx context.Context) error {
	subs, err := r.manager.List(ctx)
	if err != nil {
		return fmt.Errorf("cannot list subscriptions for renewal: %w", err)
	}
	var errs *multierror.Error
	for _, sub := range subs {
		if !r.manager.owned(sub) {
			continue
		}
		if _, err := r.manager.Renew(ctx, sub.ID); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("subscription %v: %w", sub.ID, err))
		}
	}
	return errs.ErrorOrNil()
}

func (r *Renewer) Close() {
	if r.scheduler == nil {
		return
	}
	if err := r.scheduler.Shutdown(); err != nil {
		log.Errorf("cannot shutdown renewal scheduler: %v", err)
	}
}
