package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/astropaws/fulfillment/internal/models"
)

// Scheduler drains persisted delayed sends. A failed send keeps the row with
// status=failed and the error text for manual follow-up; it is not retried.
type Scheduler struct {
	db   *gorm.DB
	log  *zap.SugaredLogger
	disp Dispatcher

	interval time.Duration
	stop     chan struct{}
}

func NewScheduler(db *gorm.DB, log *zap.SugaredLogger, disp Dispatcher, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{db: db, log: log, disp: disp, interval: interval, stop: make(chan struct{})}
}

func (s *Scheduler) Start() {
	go func() {
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-t.C:
				if n, err := s.ProcessDue(context.Background(), time.Now()); err != nil {
					s.log.Errorw("scheduled_send_sweep_failed", "err", err)
				} else if n > 0 {
					s.log.Infow("scheduled_send_sweep", "sent", n)
				}
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	close(s.stop)
}

// ProcessDue sends every scheduled email whose send_at has passed and
// returns how many were attempted.
func (s *Scheduler) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	var due []*models.ScheduledEmail
	err := s.db.WithContext(ctx).
		Where("status = ? AND send_at <= ?", models.ScheduledEmailStatusScheduled, now).
		Order("send_at asc").
		Find(&due).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load due scheduled emails: %w", err)
	}

	for _, item := range due {
		sendErr := s.disp.Send(ctx, &Message{
			Template: TemplateSupportReply,
			To:       item.To,
			Subject:  item.Subject,
			Data:     map[string]any{"body": item.Body},
		})
		if sendErr != nil {
			item.Status = models.ScheduledEmailStatusFailed
			item.LastError = lo.ToPtr(sendErr.Error())
			s.log.Errorw("scheduled_send_failed", "id", item.ID, "err", sendErr)
		} else {
			item.Status = models.ScheduledEmailStatusSent
			item.SentAt = lo.ToPtr(now)
		}
		if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
			s.log.Errorw("scheduled_send_update_failed", "id", item.ID, "err", err)
		}
	}
	return len(due), nil
}
