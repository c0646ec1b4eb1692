package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"media-converter/internal/domain"
	"media-converter/internal/jobs"
	"media-converter/internal/probe"
	"media-converter/internal/run"
)

// fakeStore returns deterministic settings for App tests.
type fakeStore struct {
	settings domain.Settings
}

// Load returns preconfigured settings.
func (s *fakeStore) Load() (domain.Settings, error) {
	return s.settings, nil
}

// Save is a no-op for tests.
func (s *fakeStore) Save(domain.Settings) error {
	return nil
}

// fakeExecutor allows injecting custom supervision behavior per test.
type fakeExecutor struct {
	start func(ctx context.Context, args []string, totalSeconds float64, events run.Events) (run.Outcome, error)

	gotArgs  []string
	gotTotal float64
}

func (f *fakeExecutor) Start(ctx context.Context, args []string, totalSeconds float64, events run.Events) (run.Outcome, error) {
	f.gotArgs = append([]string{}, args...)
	f.gotTotal = totalSeconds
	if f.start == nil {
		return run.Outcome{State: run.StateCompleted, Message: "Success"}, nil
	}
	return f.start(ctx, args, totalSeconds, events)
}

func (f *fakeExecutor) Cancel() {}

// fakeBatch scripts one batch run.
type fakeBatch struct {
	outcome     run.BatchOutcome
	gotCommands []string
}

func (f *fakeBatch) Run(ctx context.Context, events run.Events) (run.BatchOutcome, error) {
	if events.OnProgress != nil {
		events.OnProgress(100)
	}
	return f.outcome, nil
}

func (f *fakeBatch) Cancel() {}

// probeRunnerFunc adapts a function to the probe.Runner interface.
type probeRunnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func (f probeRunnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

// newTestApp builds an App wired with fakes and no probe results.
func newTestApp(exe *fakeExecutor) *App {
	app := &App{
		Store: &fakeStore{
			settings: domain.Settings{
				FFmpegPath:       "ffmpeg",
				FFprobePath:      "ffprobe",
				DefaultPreset:    "YouTube Upload",
				OptimizeWeb:      true,
				PreserveMetadata: true,
			},
		},
		Jobs:   jobs.NewManager(),
		logger: hclog.NewNullLogger(),
		events: jobs.NewEventBus(100),
	}
	app.newExecutor = func() executor { return exe }
	app.newProber = func(string) *probe.Prober {
		return probe.NewForTests("ffprobe", time.Second, probeRunnerFunc(
			func(context.Context, string, ...string) ([]byte, error) {
				return nil, errors.New("not probed in tests")
			}))
	}
	return app
}

// TestStartOperationRunsToCompletion checks assembly, supervision, and
// the resulting event flow.
func TestStartOperationRunsToCompletion(t *testing.T) {
	exe := &fakeExecutor{
		start: func(ctx context.Context, args []string, totalSeconds float64, events run.Events) (run.Outcome, error) {
			if events.OnLog != nil {
				events.OnLog("frame=  100 time=00:00:05.00")
			}
			if events.OnProgress != nil {
				events.OnProgress(100)
			}
			if events.OnCompleted != nil {
				events.OnCompleted(true, "Success")
			}
			return run.Outcome{State: run.StateCompleted, ExitCode: 0, Message: "Success"}, nil
		},
	}
	app := newTestApp(exe)

	job, err := app.StartOperation(OperationRequest{
		Kind:   OpConvert,
		Input:  "clip.mp4",
		Output: "out.mp4",
		Preset: "YouTube Upload",
	})
	if err != nil {
		t.Fatalf("start operation: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected a job ID")
	}

	waitForStatus(t, app, domain.JobStatusCompleted)

	if exe.gotArgs[0] != "ffmpeg" || exe.gotArgs[1] != "-y" {
		t.Fatalf("args = %v, want ffmpeg -y prefix", exe.gotArgs)
	}
	joined := strings.Join(exe.gotArgs, " ")
	if !strings.Contains(joined, "-c:v libx264") || !strings.Contains(joined, "-movflags +faststart") {
		t.Fatalf("args missing preset encoding flags: %v", exe.gotArgs)
	}

	events := app.JobEvents(0)
	assertEventTypeExists(t, events, jobs.EventTypeStatus)
	assertEventTypeExists(t, events, jobs.EventTypeLog)
	assertEventTypeExists(t, events, jobs.EventTypeProgress)
	assertEventTypeExists(t, events, jobs.EventTypeCompleted)
}

// TestStartOperationEnforcesSingleRunningJob checks single-job guard
// and cancellation.
func TestStartOperationEnforcesSingleRunningJob(t *testing.T) {
	exe := &fakeExecutor{
		start: func(ctx context.Context, args []string, totalSeconds float64, events run.Events) (run.Outcome, error) {
			<-ctx.Done()
			return run.Outcome{State: run.StateCancelled, Message: "Stopped by user"}, nil
		},
	}
	app := newTestApp(exe)

	if _, err := app.StartOperation(OperationRequest{Kind: OpTrim, Input: "clip.mp4", Output: "out.mp4", Start: "00:00:05"}); err != nil {
		t.Fatalf("start first job: %v", err)
	}
	if _, err := app.StartOperation(OperationRequest{Kind: OpTrim, Input: "clip.mp4", Output: "out2.mp4", Start: "00:00:05"}); !errors.Is(err, jobs.ErrJobAlreadyRunning) {
		t.Fatalf("second start error = %v, want %v", err, jobs.ErrJobAlreadyRunning)
	}

	if err := app.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	waitForStatus(t, app, domain.JobStatusCancelled)
}

// TestStartOperationRejectsInvalidRequests checks synchronous
// assembly and validation failures leave the manager idle.
func TestStartOperationRejectsInvalidRequests(t *testing.T) {
	app := newTestApp(&fakeExecutor{})

	cases := []OperationRequest{
		{Kind: OpMerge, Inputs: []string{"only.mp4"}, Output: "out.mp4"},
		{Kind: OpConvert, Input: "clip.mp4", Output: "out.mp4", Preset: "No Such Preset"},
		{Kind: "transmogrify", Input: "clip.mp4", Output: "out.mp4"},
		{Kind: OpCustom, Raw: `-i "unbalanced.mp4 out.mp4`},
	}
	for _, req := range cases {
		if _, err := app.StartOperation(req); err == nil {
			t.Fatalf("expected error for request %+v", req)
		}
	}

	if app.CurrentJob().Status != domain.JobStatusIdle {
		t.Fatalf("status = %s, want idle", app.CurrentJob().Status)
	}
}

// TestStartBatchReportsOutcome checks batch completion with partial
// failures.
func TestStartBatchReportsOutcome(t *testing.T) {
	batch := &fakeBatch{outcome: run.BatchOutcome{Completed: 2, Failed: 1}}
	app := newTestApp(&fakeExecutor{})
	app.newBatch = func(commands []string, program string) batchRunner {
		batch.gotCommands = append([]string{}, commands...)
		return batch
	}

	if _, err := app.StartBatch([]string{"-i a.mp4 a.out.mp4", "-i b.mp4 b.out.mp4", "-i c.mp4 c.out.mp4"}); err != nil {
		t.Fatalf("start batch: %v", err)
	}

	waitForStatus(t, app, domain.JobStatusCompleted)
	if len(batch.gotCommands) != 3 {
		t.Fatalf("commands = %v, want 3 items", batch.gotCommands)
	}

	events := app.JobEvents(0)
	assertEventTypeExists(t, events, jobs.EventTypeProgress)
	assertStatusMessageContains(t, events, "1 failed")
}

// TestCancelWithoutJob checks idle cancellation is rejected.
func TestCancelWithoutJob(t *testing.T) {
	app := newTestApp(&fakeExecutor{})
	if err := app.Cancel(); !errors.Is(err, jobs.ErrNoRunningJob) {
		t.Fatalf("cancel error = %v, want %v", err, jobs.ErrNoRunningJob)
	}
}

// TestListPresetsStableOrder checks the catalog exposure.
func TestListPresetsStableOrder(t *testing.T) {
	app := newTestApp(&fakeExecutor{})
	entries := app.ListPresets()
	if len(entries) == 0 {
		t.Fatal("expected presets")
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Name >= entries[i].Name {
			t.Fatalf("presets not sorted: %q before %q", entries[i-1].Name, entries[i].Name)
		}
	}
}

// TestNormalizeSettingsRestoresDefaults checks boundary normalization.
func TestNormalizeSettingsRestoresDefaults(t *testing.T) {
	got := normalizeSettings(domain.Settings{
		FFmpegPath:    "  ",
		FFprobePath:   " /usr/bin/ffprobe ",
		DefaultPreset: "No Such Preset",
	})

	if got.FFmpegPath != "ffmpeg" {
		t.Fatalf("ffmpeg path = %q, want ffmpeg", got.FFmpegPath)
	}
	if got.FFprobePath != "/usr/bin/ffprobe" {
		t.Fatalf("ffprobe path = %q", got.FFprobePath)
	}
	if got.DefaultPreset != "YouTube Upload" {
		t.Fatalf("preset = %q, want YouTube Upload", got.DefaultPreset)
	}
}

// waitForStatus polls until job reaches desired status or times out.
func waitForStatus(t *testing.T, app *App, want domain.JobStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if app.CurrentJob().Status == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("status = %s, want %s", app.CurrentJob().Status, want)
}

// assertEventTypeExists verifies at least one event of given type exists.
func assertEventTypeExists(t *testing.T, events []jobs.Event, want jobs.EventType) {
	t.Helper()
	for _, event := range events {
		if event.Type == want {
			return
		}
	}
	t.Fatalf("event type %s not found", want)
}

// assertStatusMessageContains verifies a status event message fragment.
func assertStatusMessageContains(t *testing.T, events []jobs.Event, fragment string) {
	t.Helper()
	for _, event := range events {
		if event.Type == jobs.EventTypeStatus && strings.Contains(event.Message, fragment) {
			return
		}
	}
	t.Fatalf("no status event containing %q", fragment)
}
