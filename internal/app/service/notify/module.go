package notify

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/astropaws/fulfillment/pkg/config"
)

func newScheduler(db *gorm.DB, log *zap.SugaredLogger, disp Dispatcher, cfg *config.Config) *Scheduler {
	interval := time.Duration(cfg.Support.SchedulerIntervalSeconds) * time.Second
	return NewScheduler(db, log, disp, interval)
}

func runScheduler(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewSMTPDispatcher),
	fx.Provide(func(d *SMTPDispatcher) Dispatcher { return d }),
	fx.Provide(newScheduler),
	fx.Invoke(runScheduler),
)
