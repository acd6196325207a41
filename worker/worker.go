package worker

import (
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// IJob cron job
type IJob interface {
	Start() error
	Run()
	Stop() error
}

// OnWork one round of work
type OnWork func() error

// BaseJob runs OnWork on a cron schedule, skipping a tick while the previous round is still running
type BaseJob struct {
	Cron    *cron.Cron
	OnWork  OnWork
	running int32
}

// Schedule create the cron of job, spec is a robfig/cron spec such as "@every 1m"
func (job *BaseJob) Schedule(location, spec string) error {
	l, err := time.LoadLocation(location)
	if err != nil {
		return err
	}

	job.Cron = cron.New(cron.WithLocation(l))
	_, err = job.Cron.AddFunc(spec, job.Run)
	return err
}

func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

func (job *BaseJob) Stop() error {
	<-job.Cron.Stop().Done()
	return nil
}

func (job *BaseJob) Run() {
	if !atomic.CompareAndSwapInt32(&job.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&job.running, 0)

	_ = job.OnWork()
}
