package plugin

import (
	"context"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/logger"
)

type entry struct {
	gen   Generator
	state State
}

// Registry holds the generators known to the host, by id and by name.
type Registry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
	names   map[string]uuid.UUID
	version string // host version
}

func NewRegistry(hostVersion string) *Registry {
	return &Registry{
		entries: map[uuid.UUID]*entry{},
		names:   map[string]uuid.UUID{},
		version: hostVersion,
	}
}

// Register adds g. It fails if the id or name is taken or if g does not
// work with the host version.
func (r *Registry) Register(g Generator) error {
	md := g.Metadata()
	if md.ID == uuid.Nil {
		return errors.Newf("generator %s: missing id", md.Name)
	}
	if md.Name == "" {
		return errors.Newf("generator %s: missing name", md.ID)
	}
	if err := r.validateVersion(md); err != nil {
		return errors.Wrapf(err, "generator %s", md.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[md.ID]; ok {
		return errors.Newf("generator %s: id %s already registered", md.Name, md.ID)
	}
	if _, ok := r.names[md.Name]; ok {
		return errors.Newf("generator already registered: %s", md.Name)
	}
	r.entries[md.ID] = &entry{gen: g, state: Initialised}
	r.names[md.Name] = md.ID
	return nil
}

func (r *Registry) validateVersion(md Metadata) error {
	if md.HostVersion == "" {
		return nil
	}

	host, err := semver.NewVersion(r.version)
	if err != nil {
		return errors.Wrapf(err, "invalid host version %s", r.version)
	}
	constraint, err := semver.NewConstraint(md.HostVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %s", md.HostVersion)
	}
	if !constraint.Check(host) {
		return errors.Newf("requires ncpost %s, but running %s", md.HostVersion, r.version)
	}
	return nil
}

func (r *Registry) lookup(key string) (*entry, bool) {
	if id, ok := r.names[key]; ok {
		return r.entries[id], true
	}
	id, err := uuid.Parse(key)
	if err != nil {
		return nil, false
	}
	e, ok := r.entries[id]
	return e, ok
}

// Lookup finds a generator by name or by id.
func (r *Registry) Lookup(key string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.lookup(key)
	if !ok {
		return nil, false
	}
	return e.gen, true
}

// List returns the metadata of every generator, sorted by name.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mds := make([]Metadata, 0, len(r.entries))
	for _, e := range r.entries {
		mds = append(mds, e.gen.Metadata())
	}
	sort.Slice(mds, func(i, j int) bool {
		return mds[i].Name < mds[j].Name
	})
	return mds
}

// State returns the state of the generator key.
func (r *Registry) State(key string) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.lookup(key)
	if !ok {
		return Undefined, false
	}
	return e.state, true
}

// Run runs action of the generator key, adding its commands to tp. notify,
// if not nil, sees every change of state and progress. A generator runs one
// action at a time.
func (r *Registry) Run(ctx context.Context, key, action string, settings Settings, tp Toolpath,
	notify func(s State, percent int)) error {

	r.mu.Lock()
	e, ok := r.lookup(key)
	if !ok {
		r.mu.Unlock()
		return errors.Newf("unknown generator: %s", key)
	}
	if !e.state.Ready() {
		s := e.state
		r.mu.Unlock()
		return errors.Newf("generator %s: not ready: %s", key, s)
	}
	e.state = Started
	r.mu.Unlock()

	md := e.gen.Metadata()
	progress := NewProgress(func(s State, percent int) {
		r.mu.Lock()
		e.state = s
		r.mu.Unlock()
		logger.Logger.Debugw("generator progress", "generator", md.Name, "state", s.String(),
			"percent", percent)
		if notify != nil {
			notify(s, percent)
		}
	})
	progress.state = Initialised

	err := r.run(ctx, e.gen, action, settings, tp, progress)
	if err != nil {
		progress.Set(Error)
		// A failed generator can be started again.
		r.mu.Lock()
		e.state = Initialised
		r.mu.Unlock()
		return errors.Wrapf(err, "generator %s", md.Name)
	}
	return nil
}

func (r *Registry) run(ctx context.Context, g Generator, name string, settings Settings,
	tp Toolpath, progress *Progress) error {

	a, ok := findAction(g, name)
	if !ok {
		return errors.Newf("unknown action: %s", name)
	}

	if err := progress.Set(Started); err != nil {
		return err
	}
	if err := progress.Set(Running); err != nil {
		return err
	}
	if err := g.Run(ctx, settingsFor(a, settings), tp, name, progress); err != nil {
		return err
	}
	return progress.Set(Finished)
}
