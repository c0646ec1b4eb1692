package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"media-converter/internal/command"
	"media-converter/internal/config"
	"media-converter/internal/diagnostics"
	"media-converter/internal/domain"
	"media-converter/internal/jobs"
	"media-converter/internal/probe"
	"media-converter/internal/run"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var mediaDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "Media files",
		Pattern:     "*.mp4;*.mov;*.mkv;*.avi;*.webm;*.mp3;*.wav;*.m4a;*.flac;*.aac;*.ogg",
	},
	{
		DisplayName: "All files",
		Pattern:     "*",
	},
}

// Operation kinds accepted by StartOperation.
const (
	OpConvert      = "convert"
	OpExtractAudio = "extract_audio"
	OpCompress     = "compress"
	OpTrim         = "trim"
	OpMerge        = "merge"
	OpCustom       = "custom"
)

// OperationRequest carries everything the UI knows about one requested
// conversion. Only the fields relevant to Kind are consulted.
type OperationRequest struct {
	Kind string `json:"kind"`

	Input  string   `json:"input,omitempty"`
	Inputs []string `json:"inputs,omitempty"`
	Output string   `json:"output,omitempty"`

	Preset     string `json:"preset,omitempty"`
	VideoCodec string `json:"videoCodec,omitempty"`
	AudioCodec string `json:"audioCodec,omitempty"`
	CRF        int    `json:"crf,omitempty"`
	Speed      string `json:"speed,omitempty"`
	Scale      string `json:"scale,omitempty"`

	Format  string `json:"format,omitempty"`
	Bitrate string `json:"bitrate,omitempty"`

	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	Duration string `json:"duration,omitempty"`

	MergeMethod string `json:"mergeMethod,omitempty"`
	OutputCodec string `json:"outputCodec,omitempty"`

	Raw string `json:"raw,omitempty"`
}

// PresetEntry pairs a preset name with its parameters for the UI.
type PresetEntry struct {
	Name   string         `json:"name"`
	Preset command.Preset `json:"preset"`
}

// FileInfo bundles probed metadata with its display rendering.
type FileInfo struct {
	Result  probe.Result `json:"result"`
	Summary string       `json:"summary"`
}

// executor isolates supervised process execution behind an interface.
type executor interface {
	Start(ctx context.Context, args []string, totalSeconds float64, events run.Events) (run.Outcome, error)
	Cancel()
}

// batchRunner isolates sequential batch execution behind an interface.
type batchRunner interface {
	Run(ctx context.Context, events run.Events) (run.BatchOutcome, error)
	Cancel()
}

type canceller interface {
	Cancel()
}

// App wires configuration, jobs, command assembly, and UI runtime
// callbacks.
type App struct {
	Settings    domain.Settings
	Store       config.Store
	Jobs        *jobs.Manager
	Diagnostics domain.DiagnosticReport
	assets      fs.FS
	checker     *diagnostics.Checker
	logger      hclog.Logger

	newExecutor func() executor
	newBatch    func(commands []string, program string) batchRunner
	newProber   func(binary string) *probe.Prober

	mu          sync.Mutex
	activeJobID string
	active      canceller
	cancel      context.CancelFunc
	events      *jobs.EventBus
	runtimeCtx  context.Context
}

// New builds the application with persisted settings and startup
// diagnostics.
func New() (*App, error) {
	return NewWithAssets(nil)
}

// NewWithAssets builds the application and optionally configures
// embedded frontend assets.
func NewWithAssets(assets fs.FS) (*App, error) {
	store := config.NewTOMLStore(config.DefaultPath())
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	checker := diagnostics.NewChecker()
	report := checker.Run(settings)

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "media-converter",
		Level: hclog.Info,
	})

	app := &App{
		Settings:    settings,
		Store:       store,
		Jobs:        jobs.NewManager(),
		Diagnostics: report,
		assets:      assets,
		checker:     checker,
		logger:      logger,
		events:      jobs.NewEventBus(1000),
		newProber:   probe.New,
	}
	app.newExecutor = func() executor {
		return run.New(run.WithLogger(logger))
	}
	app.newBatch = func(commands []string, program string) batchRunner {
		return run.NewBatch(commands, run.WithBatchLogger(logger), run.WithBatchProgram(program))
	}
	return app, nil
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "Media Converter",
		Width:       1180,
		Height:      780,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown: func(ctx context.Context) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.runtimeCtx = nil
		},
		Bind: []interface{}{a},
	})
}

// Startup stores Wails runtime context for push events.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runtimeCtx = ctx
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	return a.Diagnostics
}

// RefreshDiagnostics reloads settings and reruns dependency checks.
func (a *App) RefreshDiagnostics() (domain.DiagnosticReport, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}

	a.Settings = settings
	a.Diagnostics = a.checker.Run(settings)
	return a.Diagnostics, nil
}

// GetSettings loads and returns the latest persisted settings.
func (a *App) GetSettings() (domain.Settings, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}

// SaveSettings normalizes and persists settings, then refreshes
// diagnostics.
func (a *App) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	normalized := normalizeSettings(settings)
	if err := a.Store.Save(normalized); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = normalized
	if a.checker != nil {
		a.Diagnostics = a.checker.Run(normalized)
	}
	a.mu.Unlock()

	return normalized, nil
}

// ListPresets returns the static preset catalog in stable name order.
func (a *App) ListPresets() []PresetEntry {
	names := command.PresetNames()
	entries := make([]PresetEntry, 0, len(names))
	for _, name := range names {
		preset, _ := command.LookupPreset(name)
		entries = append(entries, PresetEntry{Name: name, Preset: preset})
	}
	return entries
}

// ProbeFile inspects a media file and returns metadata plus a display
// summary. Unreadable files yield a zero result with the fallback
// summary rather than an error.
func (a *App) ProbeFile(path string) FileInfo {
	a.mu.Lock()
	binary := a.Settings.FFprobePath
	a.mu.Unlock()

	result := a.newProber(binary).Probe(context.Background(), path)
	return FileInfo{Result: result, Summary: probe.Summary(result)}
}

// PickInputFile opens a native file dialog for media selection.
func (a *App) PickInputFile() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenFileDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:            "Select media file",
		DefaultDirectory: a.lastInputDir(),
		Filters:          mediaDialogFilter,
	})
	if err != nil {
		return "", err
	}

	path = strings.TrimSpace(path)
	a.rememberInputDir(path)
	return path, nil
}

// PickInputFiles opens a native multi-select dialog for merge and
// batch inputs.
func (a *App) PickInputFiles() ([]string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return nil, err
	}

	paths, err := wailsruntime.OpenMultipleFilesDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:            "Select media files",
		DefaultDirectory: a.lastInputDir(),
		Filters:          mediaDialogFilter,
	})
	if err != nil {
		return nil, err
	}

	if len(paths) > 0 {
		a.rememberInputDir(paths[0])
	}
	return paths, nil
}

// PickOutputFile opens a native save dialog for the converted file.
func (a *App) PickOutputFile(defaultName string) (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.SaveFileDialog(ctx, wailsruntime.SaveDialogOptions{
		Title:            "Save converted file",
		DefaultDirectory: a.lastOutputDir(),
		DefaultFilename:  defaultName,
	})
	if err != nil {
		return "", err
	}

	path = strings.TrimSpace(path)
	a.rememberOutputDir(path)
	return path, nil
}

// PickOutputDirectory opens a native directory picker for converted
// files.
func (a *App) PickOutputDirectory() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenDirectoryDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:            "Select output directory",
		DefaultDirectory: a.lastOutputDir(),
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// OpenOutputFolder opens the given path (or configured output dir) in
// the platform file manager.
func (a *App) OpenOutputFolder(path string) error {
	target := strings.TrimSpace(path)
	if target == "" {
		a.mu.Lock()
		target = a.Settings.LastOutputDir
		a.mu.Unlock()
	}
	if target == "" {
		return fmt.Errorf("output path is empty")
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	openPath := target
	if !info.IsDir() {
		openPath = filepath.Dir(target)
	}

	return openInFileManager(openPath)
}

// StartOperation assembles and validates a command for the request,
// creates a job, and supervises execution asynchronously. Assembly and
// validation failures are reported synchronously; runtime failures
// arrive as job events.
func (a *App) StartOperation(req OperationRequest) (domain.Job, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Job{}, fmt.Errorf("load settings: %w", err)
	}

	args, cleanup, err := a.assemble(req, settings)
	if err != nil {
		return domain.Job{}, err
	}

	builder := command.NewBuilderFor(settings.FFmpegPath)
	if err := command.Validate(args, builder.Program()); err != nil {
		cleanup()
		return domain.Job{}, err
	}

	jobID := uuid.NewString()
	if err := a.Jobs.Start(jobID); err != nil {
		cleanup()
		return domain.Job{}, err
	}

	totalSeconds := a.estimateTotal(req, settings)

	ctx, cancel := context.WithCancel(context.Background())
	exe := a.newExecutor()

	a.mu.Lock()
	a.Settings = settings
	a.activeJobID = jobID
	a.active = exe
	a.cancel = cancel
	a.mu.Unlock()

	a.publishStatus(jobID, domain.JobStatusStarting, "Job started")

	go a.runJob(ctx, jobID, exe, args, totalSeconds, cleanup)
	return a.Jobs.Current(), nil
}

// StartBatch runs a list of raw ffmpeg argument strings sequentially
// under one job. Items that fail to tokenize or exit non-zero are
// reported and skipped; the batch continues.
func (a *App) StartBatch(commands []string) (domain.Job, error) {
	if len(commands) == 0 {
		return domain.Job{}, fmt.Errorf("batch requires at least one command")
	}

	settings, err := a.Store.Load()
	if err != nil {
		return domain.Job{}, fmt.Errorf("load settings: %w", err)
	}

	jobID := uuid.NewString()
	if err := a.Jobs.Start(jobID); err != nil {
		return domain.Job{}, err
	}

	program := command.NewBuilderFor(settings.FFmpegPath).Program()
	batch := a.newBatch(commands, program)
	ctx, cancel := context.WithCancel(context.Background())

	a.mu.Lock()
	a.Settings = settings
	a.activeJobID = jobID
	a.active = batch
	a.cancel = cancel
	a.mu.Unlock()

	a.publishStatus(jobID, domain.JobStatusStarting, "Batch started")

	go a.runBatchJob(ctx, jobID, batch)
	return a.Jobs.Current(), nil
}

// Cancel requests cancellation of the running job, if any.
func (a *App) Cancel() error {
	a.mu.Lock()
	active := a.active
	cancel := a.cancel
	jobID := a.activeJobID
	a.mu.Unlock()

	if active == nil {
		return jobs.ErrNoRunningJob
	}

	active.Cancel()
	if cancel != nil {
		cancel()
	}
	if jobID != "" {
		a.publishStatus(jobID, domain.JobStatusCancelled, "Cancellation requested")
	}
	return nil
}

// CurrentJob returns current job metadata and status.
func (a *App) CurrentJob() domain.Job {
	return a.Jobs.Current()
}

// JobEvents returns all events with sequence greater than sinceSeq.
func (a *App) JobEvents(sinceSeq int64) []jobs.Event {
	return a.events.Since(sinceSeq)
}

// assemble maps an operation request onto the command builder,
// resolving presets and filling boundary defaults. The returned
// cleanup removes transient files and must run after the process
// exits.
func (a *App) assemble(req OperationRequest, settings domain.Settings) ([]string, func(), error) {
	noop := func() {}
	builder := command.NewBuilderFor(settings.FFmpegPath)

	switch req.Kind {
	case OpConvert:
		op, err := convertSpec(req)
		if err != nil {
			return nil, noop, err
		}
		args, err := builder.Convert(op)
		if err != nil {
			return nil, noop, err
		}
		optimizeWeb := settings.OptimizeWeb
		if req.Preset != "" {
			if preset, ok := command.LookupPreset(req.Preset); ok {
				optimizeWeb = preset.OptimizeWeb
			}
		}
		return command.ApplyOptimizations(args, optimizeWeb, settings.PreserveMetadata), noop, nil

	case OpExtractAudio:
		args, err := builder.ExtractAudio(command.ExtractAudio{
			Input:   req.Input,
			Output:  req.Output,
			Format:  req.Format,
			Bitrate: req.Bitrate,
		})
		return args, noop, err

	case OpCompress:
		op := command.Compress{
			Input:  req.Input,
			Output: req.Output,
			CRF:    req.CRF,
			Preset: req.Speed,
			Scale:  req.Scale,
		}
		if op.CRF <= 0 {
			op.CRF = 28
		}
		if op.Preset == "" {
			op.Preset = "medium"
		}
		args, err := builder.Compress(op)
		if err != nil {
			return nil, noop, err
		}
		return command.ApplyOptimizations(args, settings.OptimizeWeb, settings.PreserveMetadata), noop, nil

	case OpTrim:
		args, err := builder.Trim(command.Trim{
			Input:    req.Input,
			Output:   req.Output,
			Start:    req.Start,
			End:      req.End,
			Duration: req.Duration,
		})
		return args, noop, err

	case OpMerge:
		if len(req.Inputs) < 2 {
			return nil, noop, fmt.Errorf("merge requires at least two files")
		}
		method := command.MergeFast
		if req.MergeMethod == string(command.MergeReencode) {
			method = command.MergeReencode
		}
		return builder.Merge(command.Merge{
			Inputs:      req.Inputs,
			Output:      req.Output,
			Method:      method,
			OutputCodec: req.OutputCodec,
		})

	case OpCustom:
		args, err := builder.Custom(req.Raw)
		return args, noop, err

	default:
		return nil, noop, fmt.Errorf("unknown operation kind: %q", req.Kind)
	}
}

// convertSpec resolves preset or explicit conversion parameters into a
// concrete conversion. Empty codecs default to stream copy.
func convertSpec(req OperationRequest) (command.Convert, error) {
	if req.Preset != "" {
		preset, ok := command.LookupPreset(req.Preset)
		if !ok {
			return command.Convert{}, fmt.Errorf("unknown preset: %q", req.Preset)
		}
		return preset.Convert(req.Input, req.Output), nil
	}

	op := command.Convert{
		Input:      req.Input,
		Output:     req.Output,
		VideoCodec: req.VideoCodec,
		AudioCodec: req.AudioCodec,
		Options: command.ConvertOptions{
			CRF:    req.CRF,
			Preset: req.Speed,
		},
	}
	if op.VideoCodec == "" {
		op.VideoCodec = command.CodecCopy
	}
	if op.AudioCodec == "" {
		op.AudioCodec = command.CodecCopy
	}
	if dims, ok := command.ResolveScale(req.Scale); ok {
		op.Options.Scale = dims
	}
	return op, nil
}

// estimateTotal probes input durations so progress can be computed.
// Zero means unknown; progress then only reports completion.
func (a *App) estimateTotal(req OperationRequest, settings domain.Settings) float64 {
	prober := a.newProber(settings.FFprobePath)
	ctx := context.Background()

	switch req.Kind {
	case OpMerge:
		return prober.EstimateTotalDuration(ctx, req.Inputs)
	case OpCustom:
		return 0
	default:
		if req.Input == "" {
			return 0
		}
		return prober.Duration(ctx, req.Input)
	}
}

// runJob supervises one command and maps outcomes to job events.
func (a *App) runJob(ctx context.Context, jobID string, exe executor, args []string, totalSeconds float64, cleanup func()) {
	defer cleanup()

	if err := a.Jobs.Transition(domain.JobStatusRunning); err == nil {
		a.publishStatus(jobID, domain.JobStatusRunning, "Running ffmpeg")
	}

	outcome, err := exe.Start(ctx, args, totalSeconds, a.jobEvents(jobID))
	if err != nil {
		a.logger.Error("start process", "job", jobID, "error", err)
		_ = a.Jobs.Transition(domain.JobStatusFailed)
		a.publishStatus(jobID, domain.JobStatusFailed, err.Error())
		a.clearActiveJob(jobID)
		return
	}

	switch outcome.State {
	case run.StateCompleted:
		_ = a.Jobs.Transition(domain.JobStatusCompleted)
		a.publishStatus(jobID, domain.JobStatusCompleted, outcome.Message)
	case run.StateCancelled:
		_ = a.Jobs.Transition(domain.JobStatusCancelled)
		a.publishStatus(jobID, domain.JobStatusCancelled, outcome.Message)
	default:
		_ = a.Jobs.Transition(domain.JobStatusFailed)
		a.publishStatus(jobID, domain.JobStatusFailed, outcome.Message)
	}

	a.clearActiveJob(jobID)
}

// runBatchJob runs a batch and maps its outcome to job events.
func (a *App) runBatchJob(ctx context.Context, jobID string, batch batchRunner) {
	if err := a.Jobs.Transition(domain.JobStatusRunning); err == nil {
		a.publishStatus(jobID, domain.JobStatusRunning, "Running batch")
	}

	outcome, err := batch.Run(ctx, a.jobEvents(jobID))
	if err != nil {
		a.logger.Error("run batch", "job", jobID, "error", err)
		_ = a.Jobs.Transition(domain.JobStatusFailed)
		a.publishStatus(jobID, domain.JobStatusFailed, err.Error())
		a.clearActiveJob(jobID)
		return
	}

	switch {
	case outcome.Cancelled:
		_ = a.Jobs.Transition(domain.JobStatusCancelled)
		a.publishStatus(jobID, domain.JobStatusCancelled, "Batch stopped")
	case outcome.Failed == 0:
		_ = a.Jobs.Transition(domain.JobStatusCompleted)
		a.publishStatus(jobID, domain.JobStatusCompleted, fmt.Sprintf("Processed %d commands", outcome.Completed))
	default:
		_ = a.Jobs.Transition(domain.JobStatusCompleted)
		a.publishStatus(jobID, domain.JobStatusCompleted,
			fmt.Sprintf("Processed %d commands, %d failed", outcome.Completed+outcome.Failed, outcome.Failed))
	}

	a.clearActiveJob(jobID)
}

// jobEvents adapts supervisor callbacks to published job events.
func (a *App) jobEvents(jobID string) run.Events {
	return run.Events{
		OnLog: func(line string) {
			a.publishEvent(jobs.Event{
				JobID: jobID,
				Type:  jobs.EventTypeLog,
				Line:  line,
			})
		},
		OnProgress: func(percent int) {
			a.publishEvent(jobs.Event{
				JobID:   jobID,
				Type:    jobs.EventTypeProgress,
				Percent: percent,
			})
		},
		OnStatus: func(message string) {
			a.publishEvent(jobs.Event{
				JobID: jobID,
				Type:  jobs.EventTypeLog,
				Line:  message,
			})
		},
		OnCompleted: func(success bool, message string) {
			a.publishEvent(jobs.Event{
				JobID:   jobID,
				Type:    jobs.EventTypeCompleted,
				Success: success,
				Message: message,
			})
		},
	}
}

// publishStatus sends a normalized status event.
func (a *App) publishStatus(jobID string, status domain.JobStatus, message string) {
	a.publishEvent(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeStatus,
		Status:  status,
		Message: message,
	})
}

// publishEvent stores event history and emits runtime push
// notifications.
func (a *App) publishEvent(event jobs.Event) {
	published := a.events.Publish(event)

	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil {
		wailsruntime.EventsEmit(ctx, "job:event", published)
	}
}

// clearActiveJob clears cancellation handles for completed job IDs.
func (a *App) clearActiveJob(jobID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.activeJobID == jobID {
		a.activeJobID = ""
		a.active = nil
		a.cancel = nil
	}
}

// lastInputDir returns the remembered input directory.
func (a *App) lastInputDir() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Settings.LastInputDir
}

// lastOutputDir returns the remembered output directory.
func (a *App) lastOutputDir() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Settings.LastOutputDir
}

// rememberInputDir persists the directory of a picked input file.
func (a *App) rememberInputDir(path string) {
	if path == "" {
		return
	}
	a.rememberDirs(filepath.Dir(path), "")
}

// rememberOutputDir persists the directory of a picked output file.
func (a *App) rememberOutputDir(path string) {
	if path == "" {
		return
	}
	a.rememberDirs("", filepath.Dir(path))
}

// rememberDirs updates last-used directories and saves best effort.
func (a *App) rememberDirs(inputDir, outputDir string) {
	a.mu.Lock()
	if inputDir != "" {
		a.Settings.LastInputDir = inputDir
	}
	if outputDir != "" {
		a.Settings.LastOutputDir = outputDir
	}
	settings := a.Settings
	a.mu.Unlock()

	if err := a.Store.Save(settings); err != nil {
		a.logger.Warn("save settings", "error", err)
	}
}

// runtimeContext returns current Wails runtime context for dialog APIs.
func (a *App) runtimeContext() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runtimeCtx == nil {
		return nil, fmt.Errorf("runtime context is not initialized")
	}
	return a.runtimeCtx, nil
}

// normalizeSettings trims user inputs and restores required defaults.
func normalizeSettings(settings domain.Settings) domain.Settings {
	settings.FFmpegPath = strings.TrimSpace(settings.FFmpegPath)
	settings.FFprobePath = strings.TrimSpace(settings.FFprobePath)
	settings.LastInputDir = strings.TrimSpace(settings.LastInputDir)
	settings.LastOutputDir = strings.TrimSpace(settings.LastOutputDir)
	settings.DefaultPreset = strings.TrimSpace(settings.DefaultPreset)

	if settings.FFmpegPath == "" {
		settings.FFmpegPath = "ffmpeg"
	}
	if settings.FFprobePath == "" {
		settings.FFprobePath = "ffprobe"
	}
	if _, ok := command.LookupPreset(settings.DefaultPreset); !ok {
		settings.DefaultPreset = config.DefaultSettings().DefaultPreset
	}
	return settings
}

// openInFileManager launches the platform file explorer for the
// provided path.
func openInFileManager(path string) error {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", filepath.Clean(path))
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch file manager: %w", err)
	}
	return nil
}
