package cron

import (
	"sync"
	"time"

	"github.com/caseclub-lab/backend/pkg/xcontext"
)

type CronJob interface {
	Do(xcontext.Context)
	RunNow() bool
	Next() time.Time
}

type CronJobManager struct {
	mutex sync.Mutex
	wait  sync.WaitGroup
	jobs  map[CronJob]*time.Timer
}

func NewCronJobManager() *CronJobManager {
	return &CronJobManager{jobs: make(map[CronJob]*time.Timer)}
}

func (m *CronJobManager) Start(ctx xcontext.Context, jobs ...CronJob) {
	ctx.Logger().Infof("Cron job manager started")

	for _, job := range jobs {
		m.jobs[job] = nil
		if job.RunNow() {
			go m.run(ctx, job)
		} else {
			m.schedule(ctx, job)
		}

		m.wait.Add(1)
	}

	m.wait.Wait()
	ctx.Logger().Infof("Cron job manager stopped")
}

func (m *CronJobManager) Cancel(ctx xcontext.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for job, timer := range m.jobs {
		if timer == nil {
			ctx.Logger().Warnf("Stop a job that hasn't started: %T", job)
			continue
		}

		timer.Stop()
		m.wait.Done()
	}

	// Clear all jobs to not schedule them again.
	m.jobs = make(map[CronJob]*time.Timer)
}

func (m *CronJobManager) run(ctx xcontext.Context, job CronJob) {
	ctx.Logger().Infof("%T is running...", job)
	job.Do(ctx)
	ctx.Logger().Infof("%T ok", job)

	m.schedule(ctx, job)
}

func (m *CronJobManager) schedule(ctx xcontext.Context, job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Only scheudule jobs which existed in job list.
	if _, ok := m.jobs[job]; ok {
		m.jobs[job] = time.AfterFunc(time.Until(job.Next()), func() { m.run(ctx, job) })
	}
}
