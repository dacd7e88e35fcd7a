package workload

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hupe1980/usecasemesh/core"
	"github.com/hupe1980/usecasemesh/logging"
)

// UploadCompleteMarker is the result attached to the final upload snapshot.
const UploadCompleteMarker = "Image"

// Upload is one progress snapshot. Result stays empty until Progress reaches 100.
type Upload struct {
	Progress int    `json:"progress"`
	Result   string `json:"result,omitempty"`
}

// Complete reports whether the snapshot carries the completion marker.
func (u Upload) Complete() bool { return u.Result != "" }

// UploadParams are the inputs of an upload run.
type UploadParams struct {
	SessionID string `json:"session_id" validate:"required"`
}

// UploadOptions configures an UploadWorkload.
type UploadOptions struct {
	// Steps is the number of progress increments after the initial 0% snapshot.
	Steps int
	// StepDelay is the pause after every snapshot.
	StepDelay time.Duration
	// Faults, when armed, makes the run fail before its next snapshot.
	Faults *FaultInjector
	// Logger for structured logging.
	Logger logging.Logger
}

// UploadWorkload streams upload progress.
type UploadWorkload struct {
	steps    int
	delay    time.Duration
	faults   *FaultInjector
	validate *validator.Validate
	logger   logging.Logger
}

var _ core.Workload[Upload, UploadParams] = (*UploadWorkload)(nil)

// NewUpload creates an UploadWorkload with optional overrides.
func NewUpload(optFns ...func(o *UploadOptions)) *UploadWorkload {
	opts := UploadOptions{
		Steps:     10,
		StepDelay: 300 * time.Millisecond,
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Steps <= 0 {
		opts.Steps = 10
	}

	return &UploadWorkload{
		steps:    opts.Steps,
		delay:    opts.StepDelay,
		faults:   opts.Faults,
		validate: validator.New(),
		logger:   logging.OrNoOp(opts.Logger),
	}
}

// Faults returns the injector consulted by the workload.
func (w *UploadWorkload) Faults() *FaultInjector { return w.faults }

// Run implements core.Workload. It emits Steps+1 snapshots with progress
// evenly spread from 0 to 100, pausing StepDelay after each one. The fault
// injector is reset when a run starts and checked before every snapshot.
func (w *UploadWorkload) Run(ctx context.Context, out core.Sender[Upload], params UploadParams) error {
	if err := w.validate.Struct(params); err != nil {
		return fmt.Errorf("invalid upload params: %w", err)
	}

	w.logger.Debug("upload running", "session_id", params.SessionID)
	w.faults.Reset()

	for i := 0; i <= w.steps; i++ {
		if err := w.faults.Check(); err != nil {
			return err
		}

		snap := Upload{Progress: i * 100 / w.steps}
		if i == w.steps {
			snap.Result = UploadCompleteMarker
		}

		w.logger.Debug("upload sending result", "session_id", params.SessionID, "progress", snap.Progress)
		if err := out.Send(ctx, snap); err != nil {
			return err
		}

		if err := sleep(ctx, w.delay); err != nil {
			return err
		}
	}

	w.logger.Debug("upload closing channel", "session_id", params.SessionID)
	return out.Close()
}

// sleep pauses for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}
