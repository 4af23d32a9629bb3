// Package advisor gives live feedback on an item description while it is
// being written, and proposes a full description on request.
package advisor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/erazemk/lostfound/internal/analysis"
)

// QuietPeriod is how long input must stay unchanged before it is analyzed.
const QuietPeriod = time.Second

var (
	// ErrTitleRequired is returned by Predict when the title is empty.
	ErrTitleRequired = errors.New("enter a title first")
	// ErrPredictionPending is returned by Predict while another prediction runs.
	ErrPredictionPending = errors.New("a prediction is already in progress")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("advisor closed")
)

// Analyzer produces an analysis for one request.
type Analyzer interface {
	Analyze(ctx context.Context, r analysis.Request) (*analysis.Result, error)
}

// Input is the part of the report form the advisor looks at.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ItemType    string `json:"itemType"`
}

func (in Input) empty() bool {
	return strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Description) == ""
}

func (in Input) request(mode string) analysis.Request {
	return analysis.Request{
		Title:       in.Title,
		Description: in.Description,
		ItemType:    in.ItemType,
		Mode:        mode,
	}
}

// State is what the report page shows for the advisor.
type State struct {
	Result     *analysis.Result `json:"result"`
	Analyzing  bool             `json:"analyzing"`
	Predicting bool             `json:"predicting"`
	Suggestion string           `json:"suggestion,omitempty"`
}

// Advisor tracks one report form. Live analyses are tagged with an
// increasing sequence number and only the latest one is shown; in-flight
// calls are never cancelled, their results are dropped instead.
type Advisor struct {
	ctx      context.Context
	analyzer Analyzer
	clock    Clock
	onChange func(State)

	pubMu sync.Mutex

	mu         sync.Mutex
	closed     bool
	input      Input
	timer      Timer
	timerGen   uint64
	seq        uint64
	result     *analysis.Result
	analyzing  bool
	predicting bool
	suggestion string
	calls      sync.WaitGroup
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(a *Advisor) { a.clock = c }
}

// OnChange registers f to receive every new State.
func OnChange(f func(State)) Option {
	return func(a *Advisor) { a.onChange = f }
}

// New returns an advisor whose live analyses run under ctx.
func New(ctx context.Context, analyzer Analyzer, opts ...Option) *Advisor {
	a := &Advisor{ctx: ctx, analyzer: analyzer, clock: SystemClock{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Update records the latest form input. A changed input restarts the quiet
// period; an input with neither title nor description clears the analysis.
func (a *Advisor) Update(in Input) {
	a.mu.Lock()
	if a.closed || in == a.input {
		a.mu.Unlock()
		return
	}
	a.input = in
	cleared := a.rescheduleLocked()
	a.mu.Unlock()

	if cleared {
		a.publish()
	}
}

// rescheduleLocked cancels the pending analysis and starts a new quiet
// period. It reports whether the result was cleared instead.
func (a *Advisor) rescheduleLocked() bool {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.timerGen++

	if a.input.empty() {
		// Outstanding responses belong to older input.
		a.seq++
		a.result = nil
		a.analyzing = false
		return true
	}

	gen := a.timerGen
	a.timer = a.clock.AfterFunc(QuietPeriod, func() { a.fire(gen) })
	return false
}

func (a *Advisor) fire(gen uint64) {
	a.mu.Lock()
	if a.closed || gen != a.timerGen {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.seq++
	tag := a.seq
	req := a.input.request("")
	a.analyzing = true
	a.calls.Add(1)
	a.mu.Unlock()
	defer a.calls.Done()

	a.publish()

	res, err := a.analyzer.Analyze(a.ctx, req)

	a.mu.Lock()
	if latest := a.seq; tag != latest {
		a.mu.Unlock()
		slog.Debug("dropping stale analysis", "tag", tag, "latest", latest)
		return
	}
	a.analyzing = false
	if err != nil {
		slog.Warn("live analysis failed", "error", err)
	} else {
		a.result = res
	}
	a.mu.Unlock()

	a.publish()
}

// Predict asks for a complete description. On success the proposal is held
// as a pending suggestion until Apply; a zero Prediction means the model
// had nothing to propose.
func (a *Advisor) Predict(ctx context.Context) (analysis.Prediction, error) {
	a.mu.Lock()
	switch {
	case a.closed:
		a.mu.Unlock()
		return analysis.Prediction{}, ErrClosed
	case strings.TrimSpace(a.input.Title) == "":
		a.mu.Unlock()
		return analysis.Prediction{}, ErrTitleRequired
	case a.predicting:
		a.mu.Unlock()
		return analysis.Prediction{}, ErrPredictionPending
	}
	a.predicting = true
	req := a.input.request(analysis.ModePredict)
	a.mu.Unlock()
	a.publish()

	res, err := a.analyzer.Analyze(ctx, req)

	a.mu.Lock()
	a.predicting = false
	var p analysis.Prediction
	if err == nil {
		p = res.Prediction()
		if p.OK() {
			a.suggestion = p.Text
		}
	}
	a.mu.Unlock()
	a.publish()

	if err != nil {
		return analysis.Prediction{}, err
	}
	return p, nil
}

// Apply copies the pending suggestion into the description and returns the
// new description. It reports false if there was nothing to apply.
func (a *Advisor) Apply() (string, bool) {
	a.mu.Lock()
	if a.closed || a.suggestion == "" {
		a.mu.Unlock()
		return "", false
	}
	desc := a.suggestion
	a.suggestion = ""
	a.input.Description = desc
	a.rescheduleLocked()
	a.mu.Unlock()

	a.publish()
	return desc, true
}

// Input returns the input the advisor last saw.
func (a *Advisor) Input() Input {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.input
}

// Snapshot returns the current state.
func (a *Advisor) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State{
		Result:     a.result,
		Analyzing:  a.analyzing,
		Predicting: a.predicting,
		Suggestion: a.suggestion,
	}
}

// publish hands the current state to the change callback. Snapshot and
// delivery happen under pubMu so the last delivered state is the newest.
func (a *Advisor) publish() {
	if a.onChange == nil {
		return
	}
	a.pubMu.Lock()
	defer a.pubMu.Unlock()

	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return
	}
	a.onChange(a.Snapshot())
}

// Close cancels the pending analysis and waits for in-flight live analyses
// to return. No callbacks are made after Close returns.
func (a *Advisor) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.timerGen++
	a.mu.Unlock()

	a.calls.Wait()
	// Wait out a delivery that started before closed was set.
	a.pubMu.Lock()
	a.pubMu.Unlock()
}
