// Package ncpost post processes tool paths: it runs tool path commands
// through a machine dialect and collects the numeric control program the
// dialect writes.
package ncpost

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/leftmike/ncpost/dialect"
	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/logger"
	"github.com/leftmike/ncpost/profile"
	"github.com/leftmike/ncpost/sink"
	"github.com/leftmike/ncpost/toolpath"
)

const Version = "0.1.0"

// isoID is also the namespace of the ids of the other built-in dialects.
var isoID = uuid.MustParse("01056c2c-824b-11e2-b45b-902b343fd17b")

// Toolpath is an ordered list of tool path commands, one per line.
type Toolpath struct {
	cmds []string
}

func (tp *Toolpath) AddCommand(cmd string) {
	tp.cmds = append(tp.cmds, cmd)
}

func (tp *Toolpath) Commands() []string {
	return tp.cmds
}

func (tp *Toolpath) Len() int {
	return len(tp.cmds)
}

func (tp *Toolpath) String() string {
	return strings.Join(tp.cmds, "\n")
}

// PostProcessor identifies a dialect that can post process a tool path.
type PostProcessor struct {
	ID          uuid.UUID
	Name        string
	Description string
}

func builtinID(name string) uuid.UUID {
	if name == "iso" {
		return isoID
	}
	return uuid.NewSHA1(isoID, []byte(name))
}

// Frame wraps a tool path in program_begin and program_end.
type Frame struct {
	ID      int
	Comment string
}

// Processor post processes tool paths with the built-in dialects and the
// machines of Profiles.
type Processor struct {
	Profiles *profile.Set
	Options  dialect.Options
	Frame    *Frame
}

// List returns every post processor, sorted by name.
func (p *Processor) List() []PostProcessor {
	var pps []PostProcessor
	for _, name := range dialect.PostProcessors() {
		desc, _ := dialect.Describe(name)
		pps = append(pps, PostProcessor{ID: builtinID(name), Name: name, Description: desc})
	}
	if p.Profiles != nil {
		for _, m := range p.Profiles.Machines() {
			desc := m.Description
			if desc == "" {
				desc = "machine based on " + m.Base
			}
			pps = append(pps, PostProcessor{ID: m.ID(), Name: m.Name, Description: desc})
		}
	}
	sort.Slice(pps, func(i, j int) bool {
		return pps[i].Name < pps[j].Name
	})
	return pps
}

// Lookup finds a post processor by name or id.
func (p *Processor) Lookup(key string) (PostProcessor, bool) {
	id, err := uuid.Parse(key)
	for _, pp := range p.List() {
		if pp.Name == key || (err == nil && pp.ID == id) {
			return pp, true
		}
	}
	return PostProcessor{}, false
}

// New returns the dialect of the post processor key writing to w.
func (p *Processor) New(key string, w io.Writer) (*dialect.Dialect, error) {
	pp, ok := p.Lookup(key)
	if !ok {
		return nil, errors.Newf("unknown post processor: %s", key)
	}

	if p.Profiles != nil {
		return p.Profiles.New(pp.Name, w, p.Options)
	}
	return dialect.NewController(pp.Name, w, p.Options)
}

// Run runs cmds through a fresh dialect of key writing to w.
func (p *Processor) Run(ctx context.Context, key string, cmds []toolpath.Command,
	w io.Writer) error {

	d, err := p.New(key, w)
	if err != nil {
		return err
	}
	logger.Logger.Debugw("post processing", "post", d.Name(), "commands", len(cmds))

	if p.Frame != nil {
		if err := d.ProgramBegin(p.Frame.ID, p.Frame.Comment); err != nil {
			return err
		}
	}
	if err := toolpath.Run(ctx, d, cmds); err != nil {
		return err
	}
	if p.Frame != nil {
		return d.ProgramEnd()
	}
	return nil
}

// PostProcess runs tp through the post processor key. On failure the
// program holds what was written before the failing command.
func (p *Processor) PostProcess(ctx context.Context, tp *Toolpath, key string) (*sink.Program,
	error) {

	var prog sink.Program
	cmds, err := toolpath.ParseString(tp.String())
	if err != nil {
		return &prog, err
	}
	return &prog, p.Run(ctx, key, cmds, &prog)
}

// List returns the built-in post processors.
func List() []PostProcessor {
	var p Processor
	return p.List()
}

// PostProcess runs tp through the built-in post processor key.
func PostProcess(tp *Toolpath, key string) (*sink.Program, error) {
	var p Processor
	return p.PostProcess(context.Background(), tp, key)
}
