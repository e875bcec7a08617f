package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fpang/venue-enhance/internal/angle"
	"github.com/fpang/venue-enhance/internal/config"
	"github.com/fpang/venue-enhance/internal/edit"
	"github.com/fpang/venue-enhance/internal/facet"
	"github.com/fpang/venue-enhance/internal/metrics"
	"github.com/fpang/venue-enhance/internal/style"
	"github.com/fpang/venue-enhance/internal/venue"
)

func TestMain(m *testing.M) {
	restore := metrics.SetOutput(io.Discard)
	code := m.Run()
	restore()
	os.Exit(code)
}

type fakeVision struct {
	reply string
	err   error
	calls int
}

func (f *fakeVision) Describe(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeProvider struct {
	got   edit.Request
	err   error
	block bool
}

func (f *fakeProvider) Edit(ctx context.Context, req edit.Request) (*edit.Image, error) {
	f.got = req
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &edit.Image{Data: []byte("enhanced"), MIMEType: "image/png"}, nil
}

type memSink struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (s *memSink) Put(ctx context.Context, key string, data []byte, mimeType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return "https://cdn.test/" + key, nil
}

type instantClock struct{}

func (instantClock) Now() time.Time { return time.Time{} }
func (instantClock) Sleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

type fakePublisher struct {
	url string
}

func (p *fakePublisher) CreateContainer(ctx context.Context, imageURL, caption string) (string, error) {
	p.url = imageURL
	return "c-1", nil
}

func (p *fakePublisher) ContainerStatus(ctx context.Context, id string) (edit.ContainerStatus, error) {
	return edit.ContainerStatus{Code: edit.ContainerFinished}, nil
}

func (p *fakePublisher) Publish(ctx context.Context, id string) (string, error) {
	return "m-1", nil
}

var jpeg = edit.Image{Data: []byte("not-really-a-jpeg"), MIMEType: "image/jpeg"}

func TestBuildEnhancementPrompt_OverheadHawker(t *testing.T) {
	p := BuildEnhancementPrompt("hawker", angle.Overhead, nil, "")

	if !strings.HasPrefix(p, "CAMERA PHYSICS") {
		t.Errorf("physics block should come first:\n%s", p)
	}
	physicsAt := strings.Index(p, "CAMERA PHYSICS")
	venueAt := strings.Index(p, venue.Instruction("hawker", angle.Overhead))
	techAt := strings.Index(p, "LENS:")
	if !(physicsAt < venueAt && venueAt < techAt) {
		t.Errorf("order physics(%d) < venue(%d) < technical(%d) violated", physicsAt, venueAt, techAt)
	}
	if v := venue.ConstraintsFor(angle.Overhead).Violations(venue.Instruction("hawker", angle.Overhead)); len(v) != 0 {
		t.Errorf("venue text violates overhead physics: %v", v)
	}
	r := facet.Resolve(&facet.Selection{Angle: facet.AngleForBucket(angle.Overhead)})
	if !strings.Contains(p, "LENS: "+r.Lens.Instruction) || !strings.Contains(p, "APERTURE: "+r.Aperture.Instruction) {
		t.Error("unset angle facet should follow the overhead bucket")
	}
}

func TestBuildEnhancementPrompt_ExplicitAngleWins(t *testing.T) {
	tech := &facet.Selection{Angle: "eye-level-0", Lighting: "golden-hour"}
	p := BuildEnhancementPrompt("fine-dining", angle.EyeLevel, tech, "hot-food")
	if !strings.Contains(p, "FOOD REALISM:") {
		t.Error("food cue missing")
	}
	if tech.Angle != "eye-level-0" {
		t.Error("caller selection must not be mutated")
	}
	if p != BuildEnhancementPrompt("fine-dining", angle.EyeLevel, tech, "hot-food") {
		t.Error("composition should be deterministic")
	}
}

func TestBuildEnhancementPrompt_UnknownVenue(t *testing.T) {
	p := BuildEnhancementPrompt("space-station", angle.Hero, nil, "")
	if !strings.Contains(p, venue.GenericInstruction) {
		t.Error("unknown venue should use the generic instruction")
	}
}

func TestValidateStyleSelection(t *testing.T) {
	v := ValidateStyleSelection(style.Selection{})
	if v.Status != style.StatusInvalid || len(v.Warnings) != 1 {
		t.Errorf("missing business type: %+v", v)
	}
	v = ValidateStyleSelection(style.Selection{BusinessType: "cafe"})
	if v.Status != style.StatusValid || v.Warnings == nil {
		t.Errorf("clean selection: %+v", v)
	}
}

func TestDetectAngle(t *testing.T) {
	vision := &fakeVision{reply: `{"angle":"overhead","confidence":0.9,"reasoning":"flat","characteristics":["plate circular"]}`}
	e := New(nil, Deps{Vision: vision})

	res := e.DetectAngle(context.Background(), jpeg.Data, jpeg.MIMEType)
	if res.Degraded || res.Bucket != angle.Overhead || vision.calls != 1 {
		t.Errorf("result = %+v", res)
	}

	res = New(nil, Deps{}).DetectAngle(context.Background(), jpeg.Data, jpeg.MIMEType)
	if !res.Degraded || res.Bucket != angle.Hero {
		t.Errorf("unconfigured vision should degrade to hero: %+v", res)
	}
}

func TestListVenues(t *testing.T) {
	got := ListVenues()
	if len(got) != len(venue.IDs()) {
		t.Fatalf("got %d venues", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].ID >= got[i].ID {
			t.Error("venues should be sorted by ID")
		}
	}
}

func TestEnhance_HappyPath(t *testing.T) {
	provider := &fakeProvider{}
	sink := &memSink{}
	pub := &fakePublisher{}
	e := New(nil, Deps{
		Vision:    &fakeVision{reply: `{"angle":"eye-level","confidence":0.8}`},
		Provider:  provider,
		Publisher: pub,
		Sink:      sink,
		Clock:     instantClock{},
	})

	out, err := e.Enhance(context.Background(), Request{
		Image:   jpeg,
		VenueID: "fine-dining",
		Style:   &style.Selection{BusinessType: "fine-dining"},
		Edit:    edit.Options{Mode: edit.ModeRemoval},
		Publish: true,
		Caption: "Tasting menu",
	})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if out.Angle.Bucket != angle.EyeLevel {
		t.Errorf("bucket = %s", out.Angle.Bucket)
	}
	if provider.got.Prompt != out.Prompt || provider.got.Steps != edit.RemovalSteps {
		t.Errorf("provider request = %+v", provider.got)
	}
	if len(sink.keys) != 2 || !strings.HasPrefix(sink.keys[0], "source/"+out.JobID) || !strings.HasPrefix(sink.keys[1], "enhanced/"+out.JobID) {
		t.Errorf("keys = %v", sink.keys)
	}
	if out.Published == nil || out.Published.MediaID != "m-1" || pub.url != out.ResultURL {
		t.Errorf("publish = %+v (url %s)", out.Published, pub.url)
	}
}

func TestEnhance_CallerBucketSkipsVision(t *testing.T) {
	vision := &fakeVision{}
	e := New(nil, Deps{Vision: vision, Provider: &fakeProvider{}})
	out, err := e.Enhance(context.Background(), Request{Image: jpeg, VenueID: "cafe", Bucket: angle.Overhead})
	if err != nil {
		t.Fatal(err)
	}
	if vision.calls != 0 || out.Angle.Bucket != angle.Overhead {
		t.Errorf("vision calls = %d, bucket = %s", vision.calls, out.Angle.Bucket)
	}
	if out.SourceURL != "" || out.ResultURL != "" {
		t.Error("no sink means no URLs")
	}
}

func TestEnhance_TimeoutKeepsSourceURL(t *testing.T) {
	cfg := &config.Config{
		AngleTimeout:   50 * time.Millisecond,
		EnhanceTimeout: 30 * time.Millisecond,
		PollInterval:   time.Second,
		PollAttempts:   30,
	}
	e := New(cfg, Deps{Provider: &fakeProvider{block: true}, Sink: &memSink{}})

	out, err := e.Enhance(context.Background(), Request{Image: jpeg, VenueID: "hawker", Bucket: angle.Hero})
	if edit.KindOf(err) != edit.KindTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
	if out.SourceURL == "" || SourceURLOf(err) != out.SourceURL {
		t.Errorf("timeout error should carry the source URL: %v", err)
	}
	if !strings.Contains(err.Error(), "upload succeeded") {
		t.Errorf("message = %v", err)
	}
}

func TestEnhance_InvalidStyleStopsBeforeStorage(t *testing.T) {
	sink := &memSink{}
	provider := &fakeProvider{}
	e := New(nil, Deps{Provider: provider, Sink: sink})

	out, err := e.Enhance(context.Background(), Request{Image: jpeg, Style: &style.Selection{}})
	if edit.KindOf(err) != edit.KindInvalidInput {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if out.Validation == nil || out.Validation.Status != style.StatusInvalid {
		t.Errorf("validation = %+v", out.Validation)
	}
	if len(sink.keys) != 0 || provider.got.Prompt != "" {
		t.Error("nothing should run after an invalid selection")
	}
}

func TestEnhance_Errors(t *testing.T) {
	e := New(nil, Deps{Provider: &fakeProvider{}})
	if _, err := e.Enhance(context.Background(), Request{}); edit.KindOf(err) != edit.KindInvalidInput {
		t.Errorf("empty image: %v", err)
	}

	storeErr := errors.New("bucket gone")
	e = New(nil, Deps{Provider: &fakeProvider{}, Sink: &memSink{err: storeErr}})
	if _, err := e.Enhance(context.Background(), Request{Image: jpeg, Bucket: angle.Hero}); !errors.Is(err, storeErr) {
		t.Errorf("storage failure: %v", err)
	}

	e = New(nil, Deps{Provider: &fakeProvider{err: &edit.ProviderError{StatusCode: 402, Message: "billing"}}})
	if _, err := e.Enhance(context.Background(), Request{Image: jpeg, Bucket: angle.Hero}); edit.KindOf(err) != edit.KindBilling {
		t.Errorf("billing: %v", err)
	}

	e = New(nil, Deps{Provider: &fakeProvider{}})
	_, err := e.Enhance(context.Background(), Request{Image: jpeg, Bucket: angle.Hero, Publish: true})
	if !errors.Is(err, edit.ErrNotConfigured) {
		t.Errorf("publish without sink: %v", err)
	}
}

func TestRunEdit_BoundedByEnhanceTimeout(t *testing.T) {
	cfg := &config.Config{AngleTimeout: time.Second, EnhanceTimeout: 20 * time.Millisecond, PollInterval: time.Second, PollAttempts: 1}
	e := New(cfg, Deps{Provider: &fakeProvider{block: true}})
	start := time.Now()
	_, err := e.RunEdit(context.Background(), jpeg, "prompt", edit.Options{})
	if edit.KindOf(err) != edit.KindTimeout {
		t.Errorf("expected timeout, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("RunEdit ignored the enhancement timeout")
	}
}

func ExampleBuildEnhancementPrompt() {
	p := BuildEnhancementPrompt("kopitiam", angle.Hero, nil, "")
	fmt.Println(strings.SplitN(p, "\n", 2)[0])
	// Output: CAMERA PHYSICS (hero, camera tilted about 45 degrees above the table). These rules override everything below.
}
