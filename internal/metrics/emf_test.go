package metrics

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	t.Cleanup(restore)
	return &buf
}

func TestNew_FunctionNameDimension(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "enhance-lambda")

	r := New(Namespace)
	if r.dimensions["FunctionName"] != "enhance-lambda" {
		t.Errorf("expected FunctionName dimension, got %q", r.dimensions["FunctionName"])
	}
}

func TestRecorder_FlushDocument(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	buf := capture(t)

	New(Namespace).
		Dimension("Operation", "classify").
		Duration("LatencyMs", 1500*time.Millisecond).
		Count("Degraded").
		Property("reason", "timeout").
		Flush()

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if doc["Operation"] != "classify" {
		t.Errorf("Operation = %v", doc["Operation"])
	}
	if doc["LatencyMs"] != float64(1500) {
		t.Errorf("LatencyMs = %v", doc["LatencyMs"])
	}
	if doc["Degraded"] != float64(1) {
		t.Errorf("Degraded = %v", doc["Degraded"])
	}
	if doc["reason"] != "timeout" {
		t.Errorf("reason = %v", doc["reason"])
	}

	aws, ok := doc["_aws"].(map[string]any)
	if !ok {
		t.Fatal("missing _aws directive")
	}
	cw := aws["CloudWatchMetrics"].([]any)[0].(map[string]any)
	if cw["Namespace"] != Namespace {
		t.Errorf("Namespace = %v", cw["Namespace"])
	}
	if n := len(cw["Metrics"].([]any)); n != 2 {
		t.Errorf("expected 2 metric definitions, got %d", n)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		t.Error("EMF document should be newline terminated")
	}
}

func TestRecorder_FlushWithoutMetrics(t *testing.T) {
	buf := capture(t)
	New(Namespace).Dimension("Operation", "noop").Property("k", "v").Flush()
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
