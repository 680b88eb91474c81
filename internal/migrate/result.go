package migrate

import (
	"StoreImport/internal/migrate/outcome"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type RunError struct {
	Message  string `json:"message"`
	Location string `json:"location"`
}

type Result struct {
	RunID           string     `json:"run_id"`
	Source          string     `json:"source"`
	Products        int        `json:"products"`
	Orders          int        `json:"orders"`
	ProductsSkipped int        `json:"products_skipped"`
	OrdersSkipped   int        `json:"orders_skipped"`
	ProductsFailed  int        `json:"products_failed"`
	OrdersFailed    int        `json:"orders_failed"`
	Errors          []RunError `json:"errors"`
	FailedStage     Stage      `json:"failed_stage,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      time.Time  `json:"finished_at"`
}

// OK reports whether the run finished without an error entry.
func (res *Result) OK() bool {
	return len(res.Errors) == 0
}

func (res *Result) Duration() time.Duration {
	return res.FinishedAt.Sub(res.StartedAt)
}

func (res *Result) count(kind string, o outcome.Outcome) {
	products := kind == KindProduct
	switch {
	case o == outcome.Migrated && products:
		res.Products++
	case o == outcome.Migrated:
		res.Orders++
	case o == outcome.Skipped && products:
		res.ProductsSkipped++
	case o == outcome.Skipped:
		res.OrdersSkipped++
	case o == outcome.Failed && products:
		res.ProductsFailed++
	case o == outcome.Failed:
		res.OrdersFailed++
	}
}

func (res *Result) fail(stage Stage, e RunError) {
	res.FailedStage = stage
	res.Errors = append(res.Errors, e)
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

type causer interface {
	Cause() error
}

// errorEntry locates err at the innermost frame recorded by pkg/errors.
func errorEntry(err error) RunError {
	e := RunError{Message: err.Error()}
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			if frames := st.StackTrace(); len(frames) > 0 {
				e.Location = fmt.Sprintf("%n (%v)", frames[0], frames[0])
			}
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return e
}

// panicError is called from the deferred recover; the location is the first
// frame outside the runtime below the panic.
func panicError(p interface{}) RunError {
	e := RunError{Message: fmt.Sprint(p)}
	if err, ok := p.(error); ok {
		e = errorEntry(err)
		e.Location = ""
	}

	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	panicked := false
	for {
		frame, more := frames.Next()
		if frame.Function == "runtime.gopanic" {
			panicked = true
		} else if panicked && !strings.HasPrefix(frame.Function, "runtime.") {
			e.Location = fmt.Sprintf("%s (%s:%d)", shortName(frame.Function), shortFile(frame.File), frame.Line)
			break
		}
		if !more {
			break
		}
	}
	return e
}

func shortName(function string) string {
	if i := strings.LastIndex(function, "/"); i >= 0 {
		function = function[i+1:]
	}
	if i := strings.Index(function, "."); i >= 0 {
		function = function[i+1:]
	}
	return function
}

func shortFile(file string) string {
	if i := strings.LastIndex(file, "/"); i >= 0 {
		return file[i+1:]
	}
	return file
}
