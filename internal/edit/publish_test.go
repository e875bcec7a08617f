package edit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

type fakePublisher struct {
	createErr  error
	statuses   []ContainerStatus // consumed in order; last one repeats
	statusErrs map[int]error     // by 1-based attempt
	publishErr error

	statusCalls  int
	publishCalls int
}

func (f *fakePublisher) CreateContainer(ctx context.Context, imageURL, caption string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return "container-1", nil
}

func (f *fakePublisher) ContainerStatus(ctx context.Context, id string) (ContainerStatus, error) {
	f.statusCalls++
	if err := f.statusErrs[f.statusCalls]; err != nil {
		return ContainerStatus{}, err
	}
	i := f.statusCalls - 1
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	return f.statuses[i], nil
}

func (f *fakePublisher) Publish(ctx context.Context, id string) (string, error) {
	f.publishCalls++
	if f.publishErr != nil {
		return "", f.publishErr
	}
	return "media-99", nil
}

func inProgress() ContainerStatus { return ContainerStatus{Code: ContainerInProgress} }

func newPublishOrchestrator(p Publisher) (*Orchestrator, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(nil, p, Config{Clock: clock}), clock
}

func TestPublish_NeverFinishesTimesOutAfterExactly30(t *testing.T) {
	p := &fakePublisher{statuses: []ContainerStatus{inProgress()}}
	o, clock := newPublishOrchestrator(p)

	res, err := o.Publish(context.Background(), "https://cdn/x.jpg", "caption")
	if KindOf(err) != KindTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
	if p.statusCalls != 30 {
		t.Errorf("status polls = %d, want exactly 30", p.statusCalls)
	}
	if res.Job.Attempts != 30 || res.State != StateTimedOut || res.Job.Status != JobTimedOut {
		t.Errorf("result = %+v", res)
	}
	if p.publishCalls != 0 {
		t.Error("publish must not run after a timeout")
	}
	if len(clock.sleeps) != 30 {
		t.Errorf("sleeps = %d", len(clock.sleeps))
	}
	for _, d := range clock.sleeps {
		if d != time.Second {
			t.Fatalf("poll interval = %s, want 1s", d)
		}
	}
	if res.Job.ContainerID != "container-1" {
		t.Error("container ID should be kept for a later retry")
	}
}

func TestPublish_FinishedThenPublished(t *testing.T) {
	p := &fakePublisher{statuses: []ContainerStatus{inProgress(), inProgress(), {Code: ContainerFinished}}}
	o, _ := newPublishOrchestrator(p)

	res, err := o.Publish(context.Background(), "https://cdn/x.jpg", "caption")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.State != StatePublished || res.MediaID != "media-99" || res.Job.Status != JobFinished {
		t.Errorf("result = %+v", res)
	}
	if res.Job.Attempts != 3 || p.publishCalls != 1 {
		t.Errorf("attempts = %d, publish calls = %d", res.Job.Attempts, p.publishCalls)
	}
}

func TestPublish_ErrorStatusSurfacesMessageVerbatim(t *testing.T) {
	raw := "Media ID is not available: aspect ratio not supported"
	p := &fakePublisher{statuses: []ContainerStatus{inProgress(), {Code: ContainerError, Message: raw}}}
	o, _ := newPublishOrchestrator(p)

	res, err := o.Publish(context.Background(), "https://cdn/x.jpg", "")
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if e.Kind != KindProvider || e.Message != raw {
		t.Errorf("error = %+v", e)
	}
	if res.State != StateError || res.Job.Status != JobError {
		t.Errorf("result = %+v", res)
	}
	if p.statusCalls != 2 || p.publishCalls != 0 {
		t.Errorf("status calls = %d, publish calls = %d", p.statusCalls, p.publishCalls)
	}
}

func TestPublish_PollErrorsCountAsAttempts(t *testing.T) {
	p := &fakePublisher{
		statuses:   []ContainerStatus{{Code: ContainerFinished}},
		statusErrs: map[int]error{1: errors.New("connection reset"), 2: errors.New("502")},
	}
	o, _ := newPublishOrchestrator(p)

	res, err := o.Publish(context.Background(), "https://cdn/x.jpg", "")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.Job.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", res.Job.Attempts)
	}
}

func TestPublish_CustomBounds(t *testing.T) {
	p := &fakePublisher{statuses: []ContainerStatus{inProgress()}}
	clock := &fakeClock{}
	o := New(nil, p, Config{Clock: clock, PollAttempts: 5, PollInterval: 2 * time.Second})

	_, err := o.Publish(context.Background(), "https://cdn/x.jpg", "")
	if KindOf(err) != KindTimeout || p.statusCalls != 5 {
		t.Errorf("err = %v, calls = %d", err, p.statusCalls)
	}
	if clock.now.Sub(time.Time{}) != 10*time.Second {
		t.Errorf("virtual elapsed = %s", clock.now.Sub(time.Time{}))
	}
}

func TestPublish_CreateFailsWithBilling(t *testing.T) {
	p := &fakePublisher{createErr: &ProviderError{StatusCode: 400, Message: "Billing is disabled for this app"}}
	o, _ := newPublishOrchestrator(p)

	res, err := o.Publish(context.Background(), "https://cdn/x.jpg", "")
	if KindOf(err) != KindBilling {
		t.Errorf("expected billing, got %v", err)
	}
	if res.State != StateError || p.statusCalls != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestPublish_PublishStepFails(t *testing.T) {
	p := &fakePublisher{statuses: []ContainerStatus{{Code: ContainerFinished}}, publishErr: &ProviderError{StatusCode: 500, Message: "oops"}}
	o, _ := newPublishOrchestrator(p)

	res, err := o.Publish(context.Background(), "https://cdn/x.jpg", "")
	var e *Error
	if !errors.As(err, &e) || e.Op != "publish" || e.Kind != KindProvider {
		t.Errorf("error = %v", err)
	}
	if res.State != StateError {
		t.Errorf("state = %s", res.State)
	}
}

func TestPublish_CallerCancellation(t *testing.T) {
	p := &fakePublisher{statuses: []ContainerStatus{inProgress()}}
	o, _ := newPublishOrchestrator(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := o.Publish(ctx, "https://cdn/x.jpg", "")
	if KindOf(err) != KindTimeout {
		t.Errorf("expected timeout kind on cancellation, got %v", err)
	}
	if res.State != StateTimedOut || p.statusCalls != 0 {
		t.Errorf("result = %+v, calls = %d", res, p.statusCalls)
	}
}

func TestPublish_AlreadyPublished(t *testing.T) {
	p := &fakePublisher{statuses: []ContainerStatus{{Code: ContainerPublished}}}
	o, _ := newPublishOrchestrator(p)

	res, err := o.Publish(context.Background(), "https://cdn/x.jpg", "")
	if err != nil || res.State != StatePublished || p.publishCalls != 0 {
		t.Errorf("res = %+v, err = %v, publish calls = %d", res, err, p.publishCalls)
	}
}

func TestPublish_NotConfigured(t *testing.T) {
	_, err := New(nil, nil, Config{}).Publish(context.Background(), "https://cdn/x.jpg", "")
	if KindOf(err) != KindConfiguration {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestRealClock_SleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (RealClock{}).Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if err := (RealClock{}).Sleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
