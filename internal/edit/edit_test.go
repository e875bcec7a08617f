package edit

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fpang/venue-enhance/internal/config"
	"github.com/fpang/venue-enhance/internal/metrics"
)

func TestMain(m *testing.M) {
	restore := metrics.SetOutput(io.Discard)
	code := m.Run()
	restore()
	os.Exit(code)
}

type fakeProvider struct {
	got   Request
	calls int
	out   *Image
	err   error
	block bool
}

func (f *fakeProvider) Edit(ctx context.Context, req Request) (*Image, error) {
	f.calls++
	f.got = req
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.out, f.err
}

var src = Image{Data: []byte("jpeg-bytes"), MIMEType: "image/jpeg"}

func TestRun_StepDefaults(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantMode  Mode
		wantSteps int
	}{
		{"removal default", Options{Mode: ModeRemoval}, ModeRemoval, 12},
		{"insertion default", Options{Mode: ModeInsertion}, ModeInsertion, 35},
		{"outpaint default", Options{Mode: ModeOutpaint}, ModeOutpaint, 12},
		{"empty mode is insertion", Options{}, ModeInsertion, 35},
		{"explicit override", Options{Mode: ModeRemoval, Steps: 20}, ModeRemoval, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{out: &Image{Data: []byte("out"), MIMEType: "image/png"}}
			o := New(p, nil, Config{})

			res, err := o.Run(context.Background(), src, "add a saucer of chilli", tt.opts)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if p.got.Steps != tt.wantSteps || res.Steps != tt.wantSteps {
				t.Errorf("steps = %d (result %d), want %d", p.got.Steps, res.Steps, tt.wantSteps)
			}
			if p.got.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", p.got.Mode, tt.wantMode)
			}
			if res.Job.Status != JobFinished || res.Job.ID == "" {
				t.Errorf("job = %+v", res.Job)
			}
			if string(res.Image.Data) != "out" {
				t.Errorf("image = %q", res.Image.Data)
			}
		})
	}
}

func TestRun_PayloadShape(t *testing.T) {
	p := &fakeProvider{out: &Image{Data: []byte("out")}}
	o := New(p, nil, Config{})

	_, err := o.Run(context.Background(), src, "prompt", Options{
		MaskMode:            MaskSemantic,
		AspectRatio:         "4:5",
		SegmentationClasses: []int{7},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(p.got.Reference.Data) != string(src.Data) {
		t.Error("raw reference should be the source image")
	}
	if p.got.Mask.Mode != MaskSemantic || len(p.got.Mask.SegmentationClasses) != 1 {
		t.Errorf("mask = %+v", p.got.Mask)
	}
	if p.got.AspectRatio != "4:5" {
		t.Errorf("aspect ratio = %q", p.got.AspectRatio)
	}

	if _, err := o.Run(context.Background(), src, "prompt", Options{}); err != nil {
		t.Fatal(err)
	}
	if p.got.Mask.Mode != MaskBackground {
		t.Errorf("default mask mode = %s, want background", p.got.Mask.Mode)
	}
}

func TestRun_InvalidInput(t *testing.T) {
	p := &fakeProvider{}
	o := New(p, nil, Config{})
	cases := []struct {
		img    Image
		prompt string
		opts   Options
	}{
		{Image{}, "prompt", Options{}},
		{src, "  ", Options{}},
		{src, "prompt", Options{Mode: "sharpen"}},
		{src, "prompt", Options{MaskMode: "everything"}},
	}
	for _, c := range cases {
		_, err := o.Run(context.Background(), c.img, c.prompt, c.opts)
		if KindOf(err) != KindInvalidInput {
			t.Errorf("expected invalid input, got %v", err)
		}
	}
	if p.calls != 0 {
		t.Errorf("provider should not be called for invalid input, got %d calls", p.calls)
	}
}

func TestRun_ErrorTranslation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind Kind
		wantMsg  string
	}{
		{"billing disabled", &ProviderError{StatusCode: 403, Message: "This API method requires billing to be enabled."}, KindBilling, BillingMessage},
		{"billing 402", &ProviderError{StatusCode: 402, Message: "payment"}, KindBilling, BillingMessage},
		{"auth", &ProviderError{StatusCode: 401, Message: "bad token"}, KindConfiguration, "credentials"},
		{"policy", &ProviderError{StatusCode: 400, Message: "Image blocked by safety filters"}, KindProvider, "content policy"},
		{"bad request", &ProviderError{StatusCode: 400, Message: "invalid aspect ratio"}, KindProvider, "rejected"},
		{"rate limit", &ProviderError{StatusCode: 429, Message: "quota"}, KindProvider, "busy"},
		{"server", &ProviderError{StatusCode: 503, Message: "unavailable"}, KindProvider, "temporarily"},
		{"plain error", errors.New("connection reset"), KindProvider, "failed"},
		{"deadline", context.DeadlineExceeded, KindTimeout, TimeoutMessage},
		{"missing config", &config.Error{Feature: config.FeatureEdit, Missing: []string{"VERTEX_PROJECT"}}, KindConfiguration, "not configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(&fakeProvider{err: tt.err}, nil, Config{})
			_, err := o.Run(context.Background(), src, "prompt", Options{})

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T %v", err, err)
			}
			if e.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", e.Kind, tt.wantKind)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message %q should contain %q", e.Message, tt.wantMsg)
			}
			if !errors.Is(err, tt.err) {
				t.Error("original error should stay reachable via errors.Is")
			}
		})
	}
}

func TestRun_BillingKeepsProviderDetail(t *testing.T) {
	raw := "Billing account for project 123 is disabled"
	o := New(&fakeProvider{err: &ProviderError{StatusCode: 403, Message: raw}}, nil, Config{})
	_, err := o.Run(context.Background(), src, "prompt", Options{})

	var e *Error
	if !errors.As(err, &e) || e.Detail != raw || e.StatusCode != 403 {
		t.Errorf("unexpected error %+v", e)
	}
}

func TestRun_Timeout(t *testing.T) {
	p := &fakeProvider{block: true}
	o := New(p, nil, Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := o.Run(ctx, src, "prompt", Options{})
	if KindOf(err) != KindTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
	if !strings.Contains(err.Error(), "upload succeeded") {
		t.Errorf("timeout should tell the user the upload succeeded: %v", err)
	}
	if p.calls != 1 {
		t.Errorf("expected exactly one provider call (no retries), got %d", p.calls)
	}
}

func TestRun_NoRetryOnFailure(t *testing.T) {
	p := &fakeProvider{err: &ProviderError{StatusCode: 500, Message: "boom"}}
	_, _ = New(p, nil, Config{}).Run(context.Background(), src, "prompt", Options{})
	if p.calls != 1 {
		t.Errorf("expected 1 call, got %d", p.calls)
	}
}

func TestRun_NotConfigured(t *testing.T) {
	_, err := New(nil, nil, Config{}).Run(context.Background(), src, "prompt", Options{})
	if KindOf(err) != KindConfiguration {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestRun_EmptyProviderImage(t *testing.T) {
	_, err := New(&fakeProvider{out: &Image{}}, nil, Config{}).Run(context.Background(), src, "prompt", Options{})
	if KindOf(err) != KindProvider {
		t.Errorf("expected provider error, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"inpaint_insertion": ModeInsertion,
		"insert":            ModeInsertion,
		"REMOVE":            ModeRemoval,
		"inpaint_removal":   ModeRemoval,
		"outpaint":          ModeOutpaint,
	} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseMode("blur"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestDefaultSteps(t *testing.T) {
	if DefaultSteps(ModeInsertion) != 35 || DefaultSteps(ModeRemoval) != 12 || DefaultSteps(ModeOutpaint) != 12 {
		t.Error("unexpected step defaults")
	}
}
