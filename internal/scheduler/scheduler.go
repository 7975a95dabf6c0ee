// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateCronSchedule checks a five-field cron expression or a descriptor
// such as "@hourly" or "@every 30m".
func ValidateCronSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// NextRunTime returns when schedule fires next after from.
func NextRunTime(schedule string, from time.Time) (time.Time, error) {
	sched, err := parser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

// Job is a named unit of periodic work.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler manages periodic jobs.
type Scheduler struct {
	cron *cron.Cron
	jobs []Job

	mu         sync.Mutex
	isRunning  bool
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithParser(parser)),
	}
}

// Add registers a job. Must be called before Start.
func (s *Scheduler) Add(job Job) error {
	if err := ValidateCronSchedule(job.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s' for %s: %w", job.Schedule, job.Name, err)
	}

	_, err := s.cron.AddFunc(job.Schedule, func() {
		s.run(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Start begins firing jobs until Stop is called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return
	}

	s.ctx, s.cancelFunc = context.WithCancel(ctx)
	s.cron.Start()
	s.isRunning = true

	for _, job := range s.jobs {
		next, _ := NextRunTime(job.Schedule, time.Now())
		log.Printf("Scheduler: %s scheduled '%s'. Next run: %v", job.Name, job.Schedule, next)
	}

	go func(ctx context.Context) {
		<-ctx.Done()
		s.Stop()
	}(s.ctx)
}

// Stop stops the scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	s.cancelFunc()
	<-s.cron.Stop().Done()

	s.isRunning = false
	log.Printf("Scheduler: stopped")
}

// run must not take s.mu: Stop holds it while waiting for running jobs.
func (s *Scheduler) run(job Job) {
	if err := job.Run(s.ctx); err != nil {
		log.Printf("Scheduler: %s failed: %v", job.Name, err)
	}
}
