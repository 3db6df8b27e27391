package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/truevail/internal/model"
)

// maxLineBytes bounds a single input line
const maxLineBytes = 1 << 20

// Analyzer produces a verdict for one request. Implementations never fail.
type Analyzer interface {
	Analyze(ctx context.Context, req model.Request) model.Result
}

// AnalyzeJob represents one batch entry
type AnalyzeJob struct {
	Index    int
	Request  model.Request
	Analyzer Analyzer
}

// Execute executes the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &AnalyzeResult{Index: j.Index, Request: j.Request, Error: err}
	}

	start := time.Now()
	result := j.Analyzer.Analyze(ctx, j.Request)
	return &AnalyzeResult{
		Index:    j.Index,
		Request:  j.Request,
		Result:   &result,
		Duration: time.Since(start),
	}
}

// AnalyzeResult is the outcome of one batch entry. Error is set only when
// the entry was cancelled before it ran.
type AnalyzeResult struct {
	Index    int
	Request  model.Request
	Result   *model.Result
	Duration time.Duration
	Error    error
}

// GetError returns the error from the analysis result
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many inputs concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Process analyzes every request and returns the results in input order
func (b *BatchProcessor) Process(ctx context.Context, requests []model.Request) []*AnalyzeResult {
	if len(requests) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	out := make([]*AnalyzeResult, 0, len(requests))
	for i, req := range requests {
		job := &AnalyzeJob{Index: i, Request: req, Analyzer: b.analyzer}
		if !pool.Submit(job) {
			out = append(out, &AnalyzeResult{Index: i, Request: req, Error: context.Cause(ctx)})
		}
	}

	for _, r := range pool.Wait() {
		out = append(out, r.(*AnalyzeResult))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	failed := 0
	for _, r := range out {
		if r.Error != nil {
			failed++
		}
	}
	b.logger.Info("batch finished",
		zap.Int("inputs", len(requests)),
		zap.Int("cancelled", failed))

	return out
}

// ProcessFile reads inputs from a file and analyzes each with kind
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string, kind model.Kind) ([]*AnalyzeResult, error) {
	inputs, err := ReadInputsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}

	requests := make([]model.Request, len(inputs))
	for i, in := range inputs {
		requests[i] = model.Request{Content: in, Kind: kind}
	}
	return b.Process(ctx, requests), nil
}

// ReadInputsFromFile reads one text or URL per line. Blank lines and
// lines starting with # are skipped; duplicates are dropped.
func ReadInputsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var inputs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			inputs = append(inputs, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return inputs, nil
}
