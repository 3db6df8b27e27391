package worker

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/truevail/internal/model"
)

// MockAnalyzer implements Analyzer
type MockAnalyzer struct {
	calls int32
}

func (m *MockAnalyzer) Analyze(ctx context.Context, req model.Request) model.Result {
	atomic.AddInt32(&m.calls, 1)
	time.Sleep(5 * time.Millisecond) // Simulate work
	r := model.FallbackResult(req.Kind, "analyzed "+req.Content)
	r.Source = model.SourceHeuristic
	return r
}

func writeTempFile(t *testing.T, pattern, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestBatchProcessor_Process(t *testing.T) {
	analyzer := &MockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 2, nil)

	requests := []model.Request{
		{Content: "first", Kind: model.KindNews},
		{Content: "https://example.com", Kind: model.KindLink},
		{Content: "call me at 555-123-4567", Kind: model.KindPrivacy},
		{Content: "fourth", Kind: model.KindAdvanced},
		{Content: "fifth", Kind: model.KindNews},
	}

	results := processor.Process(context.Background(), requests)

	if len(results) != len(requests) {
		t.Fatalf("expected %d results, got %d", len(requests), len(results))
	}

	for i, res := range results {
		if res.Index != i {
			t.Errorf("expected result %d in input order, got index %d", i, res.Index)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %q: %v", res.Request.Content, res.Error)
			continue
		}
		if res.Result == nil {
			t.Fatalf("expected result for %q", res.Request.Content)
		}
		if res.Result.Reason != "analyzed "+requests[i].Content {
			t.Errorf("expected result for %q, got %q", requests[i].Content, res.Result.Reason)
		}
	}

	if atomic.LoadInt32(&analyzer.calls) != int32(len(requests)) {
		t.Errorf("expected %d analyses, got %d", len(requests), analyzer.calls)
	}
}

func TestBatchProcessor_Process_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2, nil)

	results := processor.Process(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_Process_Cancelled(t *testing.T) {
	analyzer := &MockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 2, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := processor.Process(ctx, []model.Request{{Content: "a"}, {Content: "b"}})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if !errors.Is(res.Error, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", res.Error)
		}
		if res.Result != nil {
			t.Error("expected no verdict for a cancelled entry")
		}
	}
	if analyzer.calls != 0 {
		t.Errorf("expected no analyses after cancellation, got %d", analyzer.calls)
	}
}

func TestReadInputsFromFile(t *testing.T) {
	path := writeTempFile(t, "inputs", `http://example.com
# comment
Scientists confirmed the findings in a peer-reviewed study.

http://bing.com   `)

	inputs, err := ReadInputsFromFile(path)
	if err != nil {
		t.Fatalf("ReadInputsFromFile failed: %v", err)
	}

	expected := []string{"http://example.com", "Scientists confirmed the findings in a peer-reviewed study.", "http://bing.com"}
	if len(inputs) != len(expected) {
		t.Fatalf("expected %d inputs, got %d", len(expected), len(inputs))
	}

	for i, in := range inputs {
		if in != expected[i] {
			t.Errorf("expected input %q at index %d, got %q", expected[i], i, in)
		}
	}
}

func TestReadInputsFromFile_NonExistent(t *testing.T) {
	_, err := ReadInputsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadInputsFromFile_Deduplication(t *testing.T) {
	path := writeTempFile(t, "inputs_dedup", "http://example.com\nhttp://example.com\n")

	inputs, err := ReadInputsFromFile(path)
	if err != nil {
		t.Fatalf("ReadInputsFromFile failed: %v", err)
	}

	if len(inputs) != 1 {
		t.Errorf("expected 1 input after deduplication, got %d", len(inputs))
	}
}

func TestAnalyzeResult_GetError(t *testing.T) {
	r1 := &AnalyzeResult{Request: model.Request{Content: "x"}}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("cancelled")
	r2 := &AnalyzeResult{Request: model.Request{Content: "x"}, Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeTempFile(t, "batch_inputs", "http://example.com\nsome text\n# comment\n\nmore text\n")

	processor := NewBatchProcessor(&MockAnalyzer{}, 2, nil)

	results, err := processor.ProcessFile(context.Background(), path, model.KindAdvanced)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Request.Kind != model.KindAdvanced {
			t.Errorf("expected kind advanced, got %s", res.Request.Kind)
		}
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2, nil)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt", model.KindNews)
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	path := writeTempFile(t, "empty_inputs", "")

	processor := NewBatchProcessor(&MockAnalyzer{}, 2, nil)

	results, err := processor.ProcessFile(context.Background(), path, model.KindNews)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}
