package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/pkumar26/adx-runbook/pkg/consts"
	"github.com/pkumar26/adx-runbook/pkg/schema"
)

type (
	// Conn is the single database operation the sequencer needs. It is
	// satisfied by *adx.Client and by test fakes.
	Conn interface {
		Mgmt(ctx context.Context, database, command string) error
	}

	// Classifier decides whether an error belongs to a class based on the
	// opaque service message. The service does not expose structured error
	// codes for these conditions, so classification is by predicate over
	// the message text; swapping the predicate updates the rules without
	// touching the retry or sequencing mechanics.
	Classifier func(error) bool

	// Executor drives the ordered schema steps against the database,
	// retrying transient failures and skipping objects that already exist.
	//
	// Execution is strictly serial: later steps depend on objects created
	// by earlier ones (the update policy requires both tables and the
	// transform function), so there is no parallelism to exploit. There is
	// also no rollback: DDL against the service is not transactional, and
	// every statement is idempotent, so a failed run is resumed by simply
	// running setup again.
	Executor struct {
		conn          Conn
		database      string
		out           io.Writer
		maxAttempts   int
		retryDelay    time.Duration
		transient     Classifier
		alreadyExists Classifier
	}

	// Config contains configuration options for creating a new Executor.
	Config struct {
		// Conn is the management connection to execute statements on.
		Conn Conn

		// Database is the target database for every statement.
		Database string

		// Out receives step progress output. Defaults to os.Stdout.
		Out io.Writer

		// MaxAttempts is the total number of tries per statement for
		// transiently failing commands. Defaults to consts.DefaultMaxAttempts.
		MaxAttempts int

		// RetryDelay is the fixed wait between attempts. No jitter, no
		// growth. Defaults to consts.DefaultRetryDelay.
		RetryDelay time.Duration

		// Transient overrides the transient-error classifier.
		Transient Classifier

		// AlreadyExists overrides the skip classifier.
		AlreadyExists Classifier
	}

	// StepResult records the outcome of one schema step.
	StepResult struct {
		// Step is the schema step that was executed.
		Step schema.Step

		// Status indicates the outcome of the step.
		Status Status

		// Attempts is how many times the statement was sent.
		Attempts int

		// Err holds the failure for StatusFailed results.
		Err error
	}

	// Status represents the outcome of executing a single step.
	Status string
)

const (
	// StatusOK indicates the statement was applied.
	StatusOK Status = "ok"

	// StatusSkipped indicates the object already existed.
	StatusSkipped Status = "skipped"

	// StatusFailed indicates a fatal error; no later steps were attempted.
	StatusFailed Status = "failed"
)

// DefaultTransient reports whether the error message marks a transient
// network or metadata failure worth retrying. Everything else is fatal.
func DefaultTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "failed to process network request") ||
		strings.Contains(msg, "auth/metadata")
}

// DefaultAlreadyExists reports whether the error message is the service's
// duplicate-creation complaint. During setup this is a soft success.
func DefaultAlreadyExists(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

// New creates an executor with the provided configuration, filling in the
// runbook defaults for anything unset.
func New(config Config) *Executor {
	e := &Executor{
		conn:          config.Conn,
		database:      config.Database,
		out:           config.Out,
		maxAttempts:   config.MaxAttempts,
		retryDelay:    config.RetryDelay,
		transient:     config.Transient,
		alreadyExists: config.AlreadyExists,
	}

	if e.out == nil {
		e.out = os.Stdout
	}
	if e.maxAttempts <= 0 {
		e.maxAttempts = consts.DefaultMaxAttempts
	}
	if e.retryDelay <= 0 {
		e.retryDelay = consts.DefaultRetryDelay
	}
	if e.transient == nil {
		e.transient = DefaultTransient
	}
	if e.alreadyExists == nil {
		e.alreadyExists = DefaultAlreadyExists
	}

	return e
}

// Execute applies the steps in declaration order, printing numbered
// progress as it goes.
//
// Outcomes per step:
//   - applied cleanly: OK, continue
//   - service reports the object already exists: SKIPPED, continue
//   - transient failure: retried up to MaxAttempts with a fixed delay and a
//     visible retry counter; exhaustion is fatal
//   - anything else: fatal immediately
//
// A fatal step stops the run: earlier steps stay applied, later steps are
// never attempted, and the error propagates with the failing step named.
// The returned results cover every step that was attempted.
func (e *Executor) Execute(ctx context.Context, steps []schema.Step) ([]*StepResult, error) {
	results := make([]*StepResult, 0, len(steps))

	for i, step := range steps {
		fmt.Fprintf(e.out, "  [%2d/%d] %s... ", i+1, len(steps), step.Description)

		attempts, err := e.executeWithRetry(ctx, step.Statement)

		result := &StepResult{Step: step, Status: StatusOK, Attempts: attempts}
		results = append(results, result)

		switch {
		case err == nil:
			fmt.Fprintln(e.out, color.GreenString("OK"))

		case e.alreadyExists(err):
			result.Status = StatusSkipped
			fmt.Fprintln(e.out, color.YellowString("SKIPPED (already exists)"))

		default:
			result.Status = StatusFailed
			result.Err = err
			fmt.Fprintf(e.out, "%s\n         %v\n", color.RedString("FAILED"), err)
			return results, errors.Wrapf(err, "step %d/%d (%s) failed", i+1, len(steps), step.Description)
		}
	}

	return results, nil
}

// executeWithRetry runs one statement, retrying transiently-classified
// failures on a fixed delay. It returns the number of attempts made and the
// final error, which for non-transient failures is the first and only one.
func (e *Executor) executeWithRetry(ctx context.Context, command string) (int, error) {
	attempts := 0

	operation := func() error {
		attempts++

		err := e.conn.Mgmt(ctx, e.database, command)
		if err == nil {
			return nil
		}
		if !e.transient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		fmt.Fprintf(e.out, "RETRY (%d/%d, waiting %s)... ", attempts, e.maxAttempts, wait)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(e.retryDelay), uint64(e.maxAttempts-1)),
		ctx,
	)

	return attempts, backoff.RetryNotify(operation, policy, notify)
}
