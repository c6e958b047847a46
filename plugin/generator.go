// Package plugin holds tool path generators: plugins that turn settings
// into tool path commands for the post processors to emit.
package plugin

import (
	"context"

	"github.com/google/uuid"
)

// Toolpath collects the commands a generator produces, in order.
type Toolpath interface {
	AddCommand(cmd string)
}

// Metadata describes a generator.
type Metadata struct {
	ID          uuid.UUID
	Name        string
	Description string

	// Version is the generator version (semver).
	Version string

	// HostVersion is the semver constraint on the ncpost version the
	// generator works with; empty accepts any.
	HostVersion string
}

// SettingDefinition describes one user setting of an action. A Type of
// "group" is a heading rather than a setting.
type SettingDefinition struct {
	Name    string
	Label   string
	Type    string
	Default string
	Units   string
	Help    string
}

// Action is one task a generator offers. A generator with a single action
// calls it "default".
type Action struct {
	Name     string
	Settings []SettingDefinition
}

type Settings map[string]string

// Generator produces a tool path. Run must only report progress between 1
// and 99 percent; the host reports the start and the end.
type Generator interface {
	Metadata() Metadata
	Actions() []Action
	Run(ctx context.Context, settings Settings, tp Toolpath, action string,
		progress *Progress) error
}

func findAction(g Generator, name string) (Action, bool) {
	for _, a := range g.Actions() {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// settingsFor fills in the defaults of a for every setting not in s.
func settingsFor(a Action, s Settings) Settings {
	all := Settings{}
	for _, def := range a.Settings {
		if def.Type != "group" {
			all[def.Name] = def.Default
		}
	}
	for k, v := range s {
		all[k] = v
	}
	return all
}
