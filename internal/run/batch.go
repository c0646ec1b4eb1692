package run

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/google/shlex"
	"github.com/hashicorp/go-hclog"
)

// itemSeparator frames each batch item in the log stream.
var itemSeparator = strings.Repeat("=", 50)

// BatchOutcome summarizes a finished batch. A batch with failed items
// still counts as completed; only cancellation interrupts it.
type BatchOutcome struct {
	Completed int
	Failed    int
	Cancelled bool
}

// BatchOption configures a batch.
type BatchOption func(*Batch)

// WithBatchLogger injects an operational logger.
func WithBatchLogger(logger hclog.Logger) BatchOption {
	return func(b *Batch) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithBatchProgram overrides the ffmpeg binary prepended to each item.
func WithBatchProgram(program string) BatchOption {
	return func(b *Batch) {
		if strings.TrimSpace(program) != "" {
			b.program = program
		}
	}
}

// WithSupervisorFactory injects supervisor construction (for tests).
func WithSupervisorFactory(factory func() *Supervisor) BatchOption {
	return func(b *Batch) {
		if factory != nil {
			b.newSupervisor = factory
		}
	}
}

// Batch drives an ordered list of raw ffmpeg argument strings through
// independent supervised executions. One failing item never aborts the
// remaining items. Instances are single-use.
type Batch struct {
	commands      []string
	program       string
	logger        hclog.Logger
	newSupervisor func() *Supervisor

	mu        sync.Mutex
	started   bool
	cancelled bool
	current   *Supervisor
}

// NewBatch constructs a batch over raw command strings. Each string is
// tokenized with shell-style quoting and prefixed with the program
// name and the overwrite flag before execution.
func NewBatch(commands []string, opts ...BatchOption) *Batch {
	b := &Batch{
		commands:      commands,
		program:       "ffmpeg",
		logger:        hclog.NewNullLogger(),
		newSupervisor: func() *Supervisor { return New() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run executes every item in order and blocks until the batch ends.
// Overall progress is recomputed after each item finishes, success or
// not; intra-item percentages are never blended in.
func (b *Batch) Run(ctx context.Context, events Events) (BatchOutcome, error) {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return BatchOutcome{}, ErrAlreadyStarted
	}
	b.started = true
	b.mu.Unlock()

	total := len(b.commands)
	outcome := BatchOutcome{}

	for i, raw := range b.commands {
		if b.isCancelled() || ctx.Err() != nil {
			outcome.Cancelled = true
			break
		}

		events.status(fmt.Sprintf("Processing command %d of %d", i+1, total))
		events.log("")
		events.log(itemSeparator)
		events.log(fmt.Sprintf("Command %d: %s", i+1, raw))
		events.log(itemSeparator)

		if b.runItem(ctx, i+1, raw, events) {
			outcome.Completed++
			events.log(fmt.Sprintf("Command %d completed successfully!", i+1))
		} else {
			outcome.Failed++
			events.log(fmt.Sprintf("Command %d failed!", i+1))
		}

		events.progress(overallPercent(i+1, total))
	}

	if b.isCancelled() || ctx.Err() != nil {
		outcome.Cancelled = true
	}

	if outcome.Cancelled {
		events.status("Batch processing stopped")
		events.completed(false, "Batch processing stopped")
	} else {
		events.status("Batch processing completed!")
		events.completed(true, fmt.Sprintf("Processed %d commands, %d failed", total, outcome.Failed))
	}

	b.logger.Info("batch finished",
		"total", total,
		"completed", outcome.Completed,
		"failed", outcome.Failed,
		"cancelled", outcome.Cancelled,
	)
	return outcome, nil
}

// runItem executes a single raw command and reports success. Tokenizer
// and spawn failures are logged into the item's own log segment.
func (b *Batch) runItem(ctx context.Context, number int, raw string, events Events) bool {
	tokens, err := shlex.Split(raw)
	if err != nil {
		events.log(fmt.Sprintf("Error in command %d: %v", number, err))
		return false
	}

	args := append([]string{b.program, "-y"}, tokens...)

	sup := b.newSupervisor()
	b.mu.Lock()
	b.current = sup
	cancelled := b.cancelled
	b.mu.Unlock()
	if cancelled {
		return false
	}

	// Per-item duration is unknown here, so only log lines stream out.
	itemOutcome, err := sup.Start(ctx, args, 0, Events{OnLog: events.OnLog})

	b.mu.Lock()
	b.current = nil
	b.mu.Unlock()

	if err != nil {
		events.log(fmt.Sprintf("Error in command %d: %v", number, err))
		return false
	}
	return itemOutcome.State == StateCompleted
}

// Cancel stops the batch before its next item and terminates the
// currently running one.
func (b *Batch) Cancel() {
	b.mu.Lock()
	b.cancelled = true
	current := b.current
	b.mu.Unlock()

	if current != nil {
		current.Cancel()
	}
}

func (b *Batch) isCancelled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancelled
}

// overallPercent maps finished-item count onto 0-100.
func overallPercent(done, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
