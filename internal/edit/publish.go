package edit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fpang/venue-enhance/internal/metrics"
)

// Container status codes reported by a Publisher.
const (
	ContainerInProgress = "IN_PROGRESS"
	ContainerFinished   = "FINISHED"
	ContainerError      = "ERROR"
	ContainerExpired    = "EXPIRED"
	ContainerPublished  = "PUBLISHED"
)

// ContainerStatus is one status poll result. Message carries the
// publisher's explanation when Code is ERROR.
type ContainerStatus struct {
	Code    string
	Message string
}

// Publisher processes media asynchronously: a container is created, polled
// until processed, then explicitly published.
type Publisher interface {
	CreateContainer(ctx context.Context, imageURL, caption string) (string, error)
	ContainerStatus(ctx context.Context, containerID string) (ContainerStatus, error)
	Publish(ctx context.Context, containerID string) (string, error)
}

// Clock abstracts time so polling can be tested without waiting.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock is the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// State is a step of the container state machine.
type State string

const (
	StateCreated   State = "created"
	StatePolling   State = "polling"
	StateFinished  State = "finished"
	StatePublished State = "published"
	StateError     State = "error"
	StateTimedOut  State = "timed_out"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StatePublished || s == StateError || s == StateTimedOut
}

// PublishResult describes where a publish flow ended. It is returned even
// on failure so callers can offer a later retry against ContainerID.
type PublishResult struct {
	Job     Job    `json:"job"`
	State   State  `json:"state"`
	MediaID string `json:"mediaId,omitempty"`
}

// Publish runs Created, Polling (every PollInterval, at most PollAttempts
// status checks), then Finished and Published. A container that reports
// ERROR fails with the publisher's message verbatim; one still in progress
// after the last attempt ends TimedOut. Failed status requests count as
// attempts and the next tick polls again.
func (o *Orchestrator) Publish(ctx context.Context, imageURL, caption string) (*PublishResult, error) {
	res := &PublishResult{Job: Job{ID: uuid.NewString(), SourceURL: imageURL, Status: JobPending}}

	if o.publisher == nil {
		res.State = StateError
		res.Job.Status = JobError
		return res, translate("create_container", fmt.Errorf("publisher: %w", ErrNotConfigured))
	}
	if imageURL == "" {
		res.State = StateError
		res.Job.Status = JobError
		return res, &Error{Kind: KindInvalidInput, Op: "create_container", Message: "image URL is empty"}
	}

	start := o.clock.Now()
	rec := metrics.New(metrics.Namespace).Dimension("Operation", "publish").Property("jobId", res.Job.ID)
	defer func() {
		rec.Duration("LatencyMs", o.clock.Now().Sub(start)).
			Metric("PollAttempts", float64(res.Job.Attempts), metrics.UnitCount).
			Property("state", string(res.State)).
			Flush()
	}()

	containerID, err := o.publisher.CreateContainer(ctx, imageURL, caption)
	if err != nil {
		res.State = StateError
		res.Job.Status = JobError
		return res, translate("create_container", err)
	}
	res.Job.ContainerID = containerID
	res.State = StateCreated
	res.Job.Status = JobInProgress
	log.Info().Str("jobId", res.Job.ID).Str("containerId", containerID).Msg("Media container created")

	for !res.State.Terminal() {
		var err error
		switch res.State {
		case StateCreated, StatePolling:
			err = o.poll(ctx, res)
		case StateFinished:
			err = o.publish(ctx, res)
		}
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

// poll performs one Polling step: wait, check status, transition.
func (o *Orchestrator) poll(ctx context.Context, res *PublishResult) error {
	res.State = StatePolling
	if err := o.clock.Sleep(ctx, o.pollInterval); err != nil {
		return o.fail(res, StateTimedOut, translate("poll", err))
	}

	res.Job.Attempts++
	status, err := o.publisher.ContainerStatus(ctx, res.Job.ContainerID)
	switch {
	case err != nil && ctx.Err() != nil:
		return o.fail(res, StateTimedOut, translate("poll", ctx.Err()))
	case err != nil:
		log.Warn().Err(err).
			Str("containerId", res.Job.ContainerID).
			Int("attempt", res.Job.Attempts).
			Msg("Container status poll failed")
	case status.Code == ContainerFinished:
		res.State = StateFinished
		log.Debug().Str("containerId", res.Job.ContainerID).Int("attempts", res.Job.Attempts).Msg("Container finished processing")
		return nil
	case status.Code == ContainerPublished:
		// Already live; publishing again would duplicate the post.
		res.State = StatePublished
		res.Job.Status = JobFinished
		return nil
	case status.Code == ContainerError || status.Code == ContainerExpired:
		msg := status.Message
		if msg == "" {
			msg = "container processing failed with status " + status.Code
		}
		return o.fail(res, StateError, &Error{
			Kind:    KindProvider,
			Op:      "poll",
			Message: msg,
			Detail:  msg,
			Err:     &ProviderError{Message: msg},
		})
	}

	if res.Job.Attempts >= o.pollAttempts {
		return o.fail(res, StateTimedOut, &Error{
			Kind:    KindTimeout,
			Op:      "poll",
			Message: fmt.Sprintf("Media is still processing after %d checks. Try publishing again later.", res.Job.Attempts),
			Detail:  "container " + res.Job.ContainerID + " still " + ContainerInProgress,
			Err:     context.DeadlineExceeded,
		})
	}
	return nil
}

func (o *Orchestrator) publish(ctx context.Context, res *PublishResult) error {
	mediaID, err := o.publisher.Publish(ctx, res.Job.ContainerID)
	if err != nil {
		return o.fail(res, StateError, translate("publish", err))
	}
	res.MediaID = mediaID
	res.State = StatePublished
	res.Job.Status = JobFinished
	log.Info().
		Str("jobId", res.Job.ID).
		Str("containerId", res.Job.ContainerID).
		Str("mediaId", mediaID).
		Int("attempts", res.Job.Attempts).
		Msg("Media published")
	return nil
}

func (o *Orchestrator) fail(res *PublishResult, state State, e *Error) error {
	res.State = state
	res.Job.Status = JobError
	if state == StateTimedOut || errors.Is(e, context.DeadlineExceeded) {
		res.Job.Status = JobTimedOut
	}
	log.Error().
		Str("jobId", res.Job.ID).
		Str("containerId", res.Job.ContainerID).
		Str("state", string(state)).
		Int("attempts", res.Job.Attempts).
		Str("kind", string(e.Kind)).
		Msg(e.Message)
	return e
}
