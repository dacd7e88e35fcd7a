// Package viewmodel orchestrates the upload and background task use cases
// behind observable streams, the way a screen's presentation model would.
//
// The ViewModel owns one Serial delivery executor shared by both runners, so
// every state change it publishes is observed in a single total order.
package viewmodel

import (
	"sync"
	"time"

	"github.com/hupe1980/usecasemesh/binding"
	"github.com/hupe1980/usecasemesh/config"
	"github.com/hupe1980/usecasemesh/core"
	"github.com/hupe1980/usecasemesh/executor"
	"github.com/hupe1980/usecasemesh/logging"
	"github.com/hupe1980/usecasemesh/runner"
	"github.com/hupe1980/usecasemesh/state"
	"github.com/hupe1980/usecasemesh/workload"
)

// ViewState is the lifecycle of the upload use case: Loading, Cancelled,
// Success or Error. Progress is published separately on Upload().
type ViewState = state.State[workload.Upload]

// Options holds configuration overrides passed to New().
type Options struct {
	// SessionID is passed to every upload run.
	SessionID string
	// UploadSteps and UploadStepDelay shape the upload workload.
	UploadSteps     int
	UploadStepDelay time.Duration
	// TaskIterations sizes the background task loop.
	TaskIterations int
	// BufferSize of the runners' emission channels.
	BufferSize int
	// Workers backing the background task runner.
	Workers int
	// Logging services.
	Logger logging.Logger
}

// FromConfig applies cfg to the options.
func FromConfig(cfg *config.Config) func(o *Options) {
	return func(o *Options) {
		o.SessionID = cfg.Upload.SessionID
		o.UploadSteps = cfg.Upload.Steps
		o.UploadStepDelay = cfg.Upload.StepDelay
		o.TaskIterations = cfg.Task.Iterations
		o.BufferSize = cfg.Runner.BufferSize
		o.Workers = cfg.Runner.Workers
	}
}

// ViewModel owns the upload and background task runners and the streams
// their callbacks publish to.
type ViewModel struct {
	logger    logging.Logger
	sessionID string

	faults   *workload.FaultInjector
	delivery *executor.Serial
	pool     *executor.Pool

	upload *runner.Runner[workload.Upload, workload.UploadParams]
	task   *runner.Runner[core.TaskCompletion, struct{}]

	viewState  *state.Stream[ViewState]
	uploads    *state.Stream[workload.Upload]
	background *state.Stream[time.Duration]

	closeOnce sync.Once
}

// New creates a ViewModel. No run is started until Start or LoadData.
func New(optFns ...func(o *Options)) *ViewModel {
	opts := Options{
		SessionID:       "demo-session",
		UploadSteps:     10,
		UploadStepDelay: 300 * time.Millisecond,
		TaskIterations:  1_000_000,
		Workers:         2,
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.OrNoOp(opts.Logger)

	vm := &ViewModel{
		logger:     logger,
		sessionID:  opts.SessionID,
		faults:     workload.NewFaultInjector(),
		viewState:  state.NewStream[ViewState](),
		uploads:    state.NewStream[workload.Upload](),
		background: state.NewStream[time.Duration](),
	}

	vm.delivery = executor.NewSerial(func(o *executor.SerialOptions) {
		o.Name = "viewmodel-delivery"
		o.Logger = logger
	})

	vm.pool = executor.NewPool(executor.PoolConfig{WorkerCount: opts.Workers, QueueSize: 1}, logger)

	uploadWorkload := workload.NewUpload(func(o *workload.UploadOptions) {
		o.Steps = opts.UploadSteps
		o.StepDelay = opts.UploadStepDelay
		o.Faults = vm.faults
		o.Logger = logger
	})

	vm.upload = runner.New[workload.Upload, workload.UploadParams](uploadWorkload, func(o *runner.Options[workload.Upload]) {
		o.Name = "upload"
		o.WorkExecutor = executor.Goroutine{Logger: logger}
		o.DeliveryExecutor = vm.delivery
		o.BufferSize = opts.BufferSize
		o.Logger = logger
	})
	binding.BindLifecycle(vm.upload, vm.viewState, vm.uploads)

	taskWorkload := workload.NewTask(func(o *workload.TaskOptions) {
		o.Iterations = opts.TaskIterations
	})

	vm.task = runner.New[core.TaskCompletion, struct{}](taskWorkload, func(o *runner.Options[core.TaskCompletion]) {
		o.Name = "task"
		o.WorkExecutor = vm.pool
		o.DeliveryExecutor = vm.delivery
		o.BufferSize = opts.BufferSize
		o.Logger = logger
	})

	return vm
}

// ViewState returns the stream of upload lifecycle states.
func (vm *ViewModel) ViewState() *state.Stream[ViewState] { return vm.viewState }

// Upload returns the stream of upload progress snapshots.
func (vm *ViewModel) Upload() *state.Stream[workload.Upload] { return vm.uploads }

// Background returns the stream that receives the elapsed time of every
// finished background task.
func (vm *ViewModel) Background() *state.Stream[time.Duration] { return vm.background }

// Start loads data and kicks off the background task.
func (vm *ViewModel) Start() {
	vm.LoadData(false)
	vm.StartBackgroundTask()
}

// LoadData starts an upload run. With cancel unset, an upload in flight is
// left alone and nil is returned; with cancel set, it is restarted.
func (vm *ViewModel) LoadData(cancel bool) *runner.Handle {
	if !cancel && vm.upload.IsActive() {
		vm.logger.Debug("upload already running", "use_case", vm.upload.Name())
		return nil
	}

	return vm.upload.Invoke(workload.UploadParams{SessionID: vm.sessionID})
}

// Cancel force-cancels the running upload.
func (vm *ViewModel) Cancel() {
	vm.upload.Cancel()
}

// ThrowError makes the running upload fail before its next snapshot.
func (vm *ViewModel) ThrowError() {
	vm.faults.Arm()
}

// StartBackgroundTask runs the CPU-bound task on the worker pool and
// publishes its elapsed time on Background once it completes.
func (vm *ViewModel) StartBackgroundTask() *runner.Handle {
	started := time.Now()

	vm.task.OnResult(func(core.TaskCompletion) {
		elapsed := time.Since(started)
		vm.logger.Info("background task finished", "elapsed", elapsed)
		vm.background.Set(elapsed)
	})

	return vm.task.Invoke(struct{}{})
}

// Close abandons both runs without callbacks and releases the executors and
// streams. Close is idempotent. It waits for pending deliveries and must not
// be called from an observer.
func (vm *ViewModel) Close() {
	vm.closeOnce.Do(func() {
		vm.upload.Close()
		vm.task.Close()
		vm.pool.Close()
		vm.delivery.Close()

		<-vm.delivery.Done()

		vm.viewState.Close()
		vm.uploads.Close()
		vm.background.Close()
	})
}
