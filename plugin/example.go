package plugin

import (
	"context"

	"github.com/google/uuid"

	"github.com/leftmike/ncpost/logger"
)

// Example is a generator that cuts one square pass, 1 unit on a side and 0.5
// deep, from the origin.
type Example struct{}

var exampleID = uuid.MustParse("10bf335e-2491-11e2-8f39-08002734b94f")

func (Example) Metadata() Metadata {
	return Metadata{
		ID:          exampleID,
		Name:        "example",
		Description: "A simple example tool path generator",
		Version:     "0.1.0",
		HostVersion: ">= 0.1.0",
	}
}

func (Example) Actions() []Action {
	settings := []SettingDefinition{
		{Name: "geometry", Label: "Geometry", Type: "text", Default: "1", Units: "mm",
			Help: "How close to run tool to final depth"},
		{Name: "tolerance", Label: "Tolerance", Type: "text", Default: "1", Units: "mm",
			Help: "How close to run tool to final depth"},
	}
	return []Action{
		{Name: "default", Settings: settings},
		{Name: "test"},
	}
}

func (Example) Run(ctx context.Context, settings Settings, tp Toolpath, action string,
	progress *Progress) error {

	if action == "test" {
		logger.Logger.Infow("testing example generator", "settings", len(settings))
		return nil
	}

	steps := []struct {
		cmd     string
		percent int
	}{
		{"rapid(0, 0, 0.1)", 2},
		{"feed(0, 0, -0.5)", 0},
		{"feed(1, 0, -0.5)", 0},
		{"feed(1, 1, -0.5)", 55},
		{"feed(0, 1, -0.5)", 0},
		{"feed(0, 0, -0.5)", 0},
		{"rapid(0, 0, 0.1)", 99},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		tp.AddCommand(s.cmd)
		if s.percent > 0 {
			if err := progress.Update(s.percent); err != nil {
				return err
			}
		}
	}
	return nil
}

// Builtin returns a registry holding the built-in generators.
func Builtin(hostVersion string) (*Registry, error) {
	r := NewRegistry(hostVersion)
	for _, g := range []Generator{Example{}} {
		if err := r.Register(g); err != nil {
			return nil, err
		}
	}
	return r, nil
}
