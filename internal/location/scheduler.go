package location

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Scheduler chạy cronjob đồng bộ dữ liệu địa giới theo chu kỳ.
type Scheduler struct {
	syncer    *Syncer
	scheduler gocron.Scheduler
	interval  time.Duration
}

func NewScheduler(syncer *Syncer, interval time.Duration) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		syncer:    syncer,
		scheduler: scheduler,
		interval:  interval,
	}, nil
}

// Start runs an immediate sync when the store is empty, then schedules the
// periodic refresh.
func (s *Scheduler) Start(ctx context.Context) error {
	empty, err := s.syncer.IsEmpty(ctx)
	if err != nil {
		return err
	}

	if empty {
		log.Info().Msg("location reference store is empty, running initial sync")
		go func() {
			if _, err := s.syncer.SyncAll(context.Background()); err != nil {
				log.Error().Err(err).Msg("initial location sync failed")
			}
		}()
	}

	_, err = s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(
			func() {
				log.Info().
					Str("job", "location_sync").
					Time("start_time", time.Now()).
					Msg("starting scheduled location sync")

				if _, err := s.syncer.SyncAll(context.Background()); err != nil {
					log.Error().Err(err).Msg("scheduled location sync failed")
				}
			},
		),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	return nil
}

// Stop dừng cronjob đồng bộ.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
