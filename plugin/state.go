package plugin

import (
	"sync"

	"github.com/leftmike/ncpost/errors"
)

// State is where a generator is in its life: Undefined, Loaded, Initialised,
// Started, Running, then Error or Finished.
type State int

const (
	Undefined State = iota
	Loaded
	Initialised
	Started
	Running
	Error
	Finished
)

var stateNames = [...]string{
	Undefined:   "Undefined",
	Loaded:      "Loaded",
	Initialised: "Initialised",
	Started:     "Started",
	Running:     "Running",
	Error:       "Error",
	Finished:    "Finished",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Undefined"
	}
	return stateNames[s]
}

// Ready reports whether a generator in state s can be started.
func (s State) Ready() bool {
	return s == Initialised || s == Finished
}

var transitions = map[State][]State{
	Undefined:   {Loaded},
	Loaded:      {Initialised},
	Initialised: {Started},
	Started:     {Running, Finished},
	Running:     {Finished},
	Finished:    {Started},
	Error:       {Initialised},
}

// Progress reports the state and completion percent of one generator to
// the host. Percent 0 and 100 belong to the host: a generator may only
// report 1 through 99, and only while Running.
type Progress struct {
	mu      sync.Mutex
	state   State
	percent int
	notify  func(s State, percent int)
}

// NewProgress returns a Progress in state Undefined; notify, if not nil, is
// called after every change.
func NewProgress(notify func(s State, percent int)) *Progress {
	return &Progress{notify: notify}
}

func (p *Progress) Get() (State, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.percent
}

func (p *Progress) report(s State, percent int) {
	if p.notify != nil {
		p.notify(s, percent)
	}
}

// Set moves to state s. Any state may move to Error.
func (p *Progress) Set(s State) error {
	p.mu.Lock()
	ok := s == Error
	for _, next := range transitions[p.state] {
		if next == s {
			ok = true
		}
	}
	if !ok {
		prev := p.state
		p.mu.Unlock()
		return errors.Newf("progress: %s cannot follow %s", s, prev)
	}

	p.state = s
	switch s {
	case Started:
		p.percent = 0
	case Running:
		p.percent = 1
	case Finished:
		p.percent = 100
	}
	percent := p.percent
	p.mu.Unlock()

	p.report(s, percent)
	return nil
}

// Update reports percent complete while Running.
func (p *Progress) Update(percent int) error {
	if percent < 1 || percent > 99 {
		return errors.Newf("progress: %d%% out of range [1,99]", percent)
	}

	p.mu.Lock()
	if p.state != Running {
		s := p.state
		p.mu.Unlock()
		return errors.Newf("progress: update while %s", s)
	}
	p.percent = percent
	p.mu.Unlock()

	p.report(Running, percent)
	return nil
}
