package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fpang/venue-enhance/internal/angle"
	"github.com/fpang/venue-enhance/internal/engine"
	"github.com/fpang/venue-enhance/internal/metrics"
	"github.com/fpang/venue-enhance/internal/style"
)

func TestMain(m *testing.M) {
	restore := metrics.SetOutput(io.Discard)
	code := m.Run()
	restore()
	os.Exit(code)
}

type stubVision struct{}

func (stubVision) Describe(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	return `{"angle":"flat-lay","confidence":0.95,"reasoning":"plates are circles"}`, nil
}

func TestTools_Direct(t *testing.T) {
	tl := &tools{engine: engine.New(nil, engine.Deps{Vision: stubVision{}})}
	ctx := context.Background()

	_, venues, err := tl.listVenues(ctx, nil, ListVenuesInput{})
	if err != nil || len(venues.Venues) == 0 {
		t.Fatalf("list_venues: %v %+v", err, venues)
	}

	_, p, err := tl.buildPrompt(ctx, nil, BuildPromptInput{Venue: "hawker", Bucket: "nonsense"})
	if err != nil || p.Bucket != angle.Hero || !strings.HasPrefix(p.Prompt, "CAMERA PHYSICS") {
		t.Errorf("build_enhancement_prompt: %v %+v", err, p)
	}

	_, v, err := tl.validateStyle(ctx, nil, style.Selection{})
	if err != nil || v.Status != style.StatusInvalid {
		t.Errorf("validate_style_selection: %v %+v", err, v)
	}

	path := filepath.Join(t.TempDir(), "dish.jpg")
	if err := os.WriteFile(path, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, res, err := tl.detectAngle(ctx, nil, DetectAngleInput{Path: path})
	if err != nil || res.Bucket != angle.Overhead || res.Degraded {
		t.Errorf("detect_angle: %v %+v", err, res)
	}

	if _, _, err := tl.detectAngle(ctx, nil, DetectAngleInput{Path: filepath.Join(t.TempDir(), "missing.jpg")}); err == nil {
		t.Error("missing file should fail")
	}
}

func TestServer_InMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	server := New(engine.New(nil, engine.Deps{}), "test")

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer cs.Close()

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "build_enhancement_prompt",
		Arguments: map[string]any{"venue": "fine-dining", "bucket": "eye-level"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %+v", res.Content)
	}

	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatal(err)
	}
	var out BuildPromptOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if out.Bucket != angle.EyeLevel || !strings.Contains(out.Prompt, "CAMERA PHYSICS") {
		t.Errorf("output = %+v", out)
	}
}
