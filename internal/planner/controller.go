package planner

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"careerpilot/internal/api"
	"careerpilot/internal/errors"
	"careerpilot/internal/observability"
)

// PlanAPI is the backend surface the controller needs.
type PlanAPI interface {
	GenerateCareerPlanAsync(ctx context.Context, intake api.PlanIntake) (string, error)
	GetCareerPlanJobStatus(ctx context.Context, jobID string) (api.PlanJobStatus, error)
	GenerateCareerPlan(ctx context.Context, intake api.PlanIntake) (*api.CareerPlan, error)
}

// ProgressFunc receives each poll's progress value and staged message. Updates
// arrive strictly in poll order; the next poll is scheduled only after the
// current response resolves.
type ProgressFunc func(progress int, message string)

// Options configures a generation controller.
type Options struct {
	// PollInterval is the delay before each status poll.
	PollInterval time.Duration
	// MaxAttempts bounds the number of status polls before the controller
	// gives up with a timeout error.
	MaxAttempts int
	// MinPollInterval is a floor enforced by a rate limiter even when
	// PollInterval is misconfigured to zero.
	MinPollInterval time.Duration
	// Metrics, when set, counts each status poll the controller issues.
	Metrics *observability.Metrics
}

const (
	defaultPollInterval    = 3 * time.Second
	defaultMaxAttempts     = 100
	defaultMinPollInterval = time.Second
)

// Controller owns one plan-generation flow: submit, poll until terminal, and
// fall back to synchronous generation when asynchronous submission is
// unavailable. The whole flow is cancellable through its context; callers
// tearing down mid-poll cancel instead of leaking a scheduled callback.
type Controller struct {
	api      PlanAPI
	logger   *errors.Logger
	metrics  *observability.Metrics
	interval time.Duration
	attempts int
	limiter  *rate.Limiter
}

// NewController creates a generation controller.
func NewController(planAPI PlanAPI, opts Options, logger *errors.Logger) *Controller {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.MinPollInterval <= 0 {
		opts.MinPollInterval = defaultMinPollInterval
	}

	return &Controller{
		api:      planAPI,
		logger:   logger,
		metrics:  opts.Metrics,
		interval: opts.PollInterval,
		attempts: opts.MaxAttempts,
		limiter:  rate.NewLimiter(rate.Every(opts.MinPollInterval), 1),
	}
}

// Generate submits the intake and drives the job to a terminal state. When
// the asynchronous submission itself fails, it falls back to one synchronous
// generation call with the same payload.
func (c *Controller) Generate(ctx context.Context, intake api.PlanIntake, onProgress ProgressFunc) (*api.CareerPlan, error) {
	jobID, err := c.api.GenerateCareerPlanAsync(ctx, intake)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		if c.logger != nil {
			c.logger.Warn("Async plan submission failed, falling back to synchronous generation",
				"error", err)
		}
		return c.generateSync(ctx, intake)
	}

	if c.logger != nil {
		c.logger.Info("Plan generation job submitted",
			"job_id", jobID,
			"poll_interval", c.interval,
			"max_attempts", c.attempts)
	}

	return c.poll(ctx, jobID, onProgress)
}

// poll checks the job status on a fixed delay until a terminal state or the
// attempt bound. Each wait selects on the timer and ctx.Done(), so the loop
// stops promptly on cancellation.
func (c *Controller) poll(ctx context.Context, jobID string, onProgress ProgressFunc) (*api.CareerPlan, error) {
	timer := time.NewTimer(c.interval)
	defer timer.Stop()

	for attempt := 1; attempt <= c.attempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, errors.NewInternalError(errors.ErrCodeJobTimeout,
				"Plan generation was canceled", ctx.Err())
		case <-timer.C:
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.NewInternalError(errors.ErrCodeJobTimeout,
				"Plan generation was canceled", err)
		}

		status, err := c.api.GetCareerPlanJobStatus(ctx, jobID)
		if c.metrics != nil {
			observability.Count(ctx, c.metrics.PollRequests, err == nil)
		}
		if err != nil {
			return nil, err
		}

		if onProgress != nil {
			msg := status.Message
			if msg == "" {
				msg = MessageFor(status.Progress)
			}
			onProgress(status.Progress, msg)
		}

		switch status.Status {
		case api.JobStatusCompleted:
			if status.Plan == nil {
				return nil, errors.NewAPIError(errors.ErrCodeJobFailed,
					"Generation finished but no plan was returned", nil)
			}
			return status.Plan, nil
		case api.JobStatusFailed:
			msg := status.Error
			if msg == "" {
				msg = "Plan generation failed"
			}
			return nil, errors.NewAPIError(errors.ErrCodeJobFailed, msg, nil).
				WithContext("job_id", jobID)
		}

		// Non-terminal: schedule the next poll only now that this response
		// has resolved.
		timer.Reset(c.interval)
	}

	return nil, errors.NewAPIError(errors.ErrCodeJobTimeout,
		"Plan generation timed out, please try again", nil).
		WithContext("job_id", jobID).
		WithContext("attempts", c.attempts)
}

// generateSync is the fallback path for backends without async generation.
func (c *Controller) generateSync(ctx context.Context, intake api.PlanIntake) (*api.CareerPlan, error) {
	plan, err := c.api.GenerateCareerPlan(ctx, intake)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.NewAPIError(errors.ErrCodeJobFailed,
			"Generation finished but no plan was returned", nil)
	}
	return plan, nil
}
