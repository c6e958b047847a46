package profile

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/leftmike/ncpost/dialect"
	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/logger"
)

type hclFile struct {
	Machines []*Machine `hcl:"machine,block"`
}

// Parse decodes the machines of one HCL file.
func Parse(src []byte, filename string) ([]*Machine, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parse %s", filename)
	}

	var f hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &f)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "decode %s", filename)
	}
	for _, m := range f.Machines {
		m.Filename = filename
	}
	return f.Machines, nil
}

// Set is a collection of machines, by name.
type Set struct {
	machines map[string]*Machine
}

func NewSet() *Set {
	return &Set{machines: map[string]*Machine{}}
}

// Add validates m and adds it to the set. A machine may not take the name of
// a built-in dialect or of another machine.
func (s *Set) Add(m *Machine) error {
	if _, ok := dialect.Describe(m.Name); ok {
		return errors.Newf("machine %s: name of a built-in dialect", m.Name)
	}
	if prev, ok := s.machines[m.Name]; ok {
		return errors.Newf("machine %s: already defined in %s", m.Name, prev.Filename)
	}
	if err := m.Validate(); err != nil {
		return err
	}
	s.machines[m.Name] = m
	return nil
}

func (s *Set) Lookup(name string) (*Machine, bool) {
	m, ok := s.machines[name]
	return m, ok
}

// Machines returns every machine in the set, sorted by name.
func (s *Set) Machines() []*Machine {
	ms := make([]*Machine, 0, len(s.machines))
	for _, m := range s.machines {
		ms = append(ms, m)
	}
	sort.Slice(ms, func(i, j int) bool {
		return ms[i].Name < ms[j].Name
	})
	return ms
}

// Layers returns the layers of name, a built-in dialect or a machine, least
// specific first.
func (s *Set) Layers(name string) ([]dialect.Layer, error) {
	var chain []*Machine
	seen := map[string]bool{}
	for {
		if layers, ok := dialect.Layers(name); ok {
			for i := len(chain) - 1; i >= 0; i -= 1 {
				layers = append(layers, chain[i].Layer())
			}
			return layers, nil
		}

		m, ok := s.machines[name]
		if !ok {
			return nil, errors.Newf("unknown dialect or machine: %s", name)
		}
		if seen[name] {
			return nil, errors.Newf("machine %s: base refers back to itself", name)
		}
		seen[name] = true
		chain = append(chain, m)
		name = m.Base
	}
}

// New builds the dialect of name writing to w.
func (s *Set) New(name string, w io.Writer, opts dialect.Options) (*dialect.Dialect, error) {
	layers, err := s.Layers(name)
	if err != nil {
		return nil, err
	}
	if opts.Name == "" {
		opts.Name = name
	}
	return dialect.New(w, opts, layers...), nil
}

// LoadFile adds the machines of one file to the set.
func (s *Set) LoadFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "machine profile")
	}
	ms, err := Parse(src, path)
	if err != nil {
		return err
	}
	for _, m := range ms {
		if err := s.Add(m); err != nil {
			return err
		}
		logger.Logger.Debugw("loaded machine profile", "machine", m.Name, "base", m.Base,
			"file", path)
	}
	return nil
}

// LoadDirs adds the machines of every .hcl file in dirs. A missing directory
// is skipped.
func (s *Set) LoadDirs(dirs ...string) error {
	for _, dir := range dirs {
		files, err := filepath.Glob(filepath.Join(dir, "*.hcl"))
		if err != nil {
			return errors.Wrap(err, "machine profiles")
		}
		if len(files) == 0 {
			logger.Logger.Debugw("no machine profiles", "dir", dir)
			continue
		}
		sort.Strings(files)
		for _, f := range files {
			if err := s.LoadFile(f); err != nil {
				return err
			}
		}
	}
	return nil
}
