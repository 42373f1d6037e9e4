package jobs

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/postdeck/scheduler-server-go/internal/model"
	"github.com/postdeck/scheduler-server-go/internal/service"
)

// OverdueJob periodically reports posts whose scheduled instant has
// passed while they are still in the scheduled state. It only observes:
// publishing stays an explicit user action.
type OverdueJob struct {
	scheduler *service.SchedulerService
	interval  time.Duration
	done      chan struct{}
}

func NewOverdueJob(scheduler *service.SchedulerService, interval time.Duration) *OverdueJob {
	return &OverdueJob{
		scheduler: scheduler,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

func (j *OverdueJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("overdue job started")
}

func (j *OverdueJob) Stop() {
	close(j.done)
	log.Info().Msg("overdue job stopped")
}

func (j *OverdueJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.check(time.Now())

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.check(time.Now())
		}
	}
}

func (j *OverdueJob) check(now time.Time) {
	overdue := Overdue(j.scheduler.Posts(), now)
	if len(overdue) == 0 {
		return
	}

	ids := make([]int64, 0, len(overdue))
	for _, p := range overdue {
		ids = append(ids, p.ID)
	}

	log.Warn().
		Int("count", len(overdue)).
		Ints64("postIds", ids).
		Msg("scheduled posts past their scheduled instant")
}

// Overdue returns the posts still scheduled whose instant is before now.
// Posts with an unparsable date/time pair are skipped.
func Overdue(posts []model.Post, now time.Time) []model.Post {
	var out []model.Post
	for i := range posts {
		if posts[i].Status != model.PostStatusScheduled {
			continue
		}
		at, err := posts[i].ScheduledAt()
		if err != nil {
			continue
		}
		if at.Before(now) {
			out = append(out, posts[i])
		}
	}
	return out
}
