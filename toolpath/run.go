package toolpath

import (
	"bufio"
	"context"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leftmike/ncpost/dialect"
	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/logger"
)

// Parse reads every command of a tool path program.
func Parse(r io.Reader) ([]Command, error) {
	p := Parser{Scanner: bufio.NewReader(r)}
	var cmds []Command
	for {
		cmd, err := p.Parse()
		if err == io.EOF {
			return cmds, nil
		} else if err != nil {
			return nil, err
		}
		cmds = append(cmds, *cmd)
	}
}

// ParseString is Parse over a string.
func ParseString(s string) ([]Command, error) {
	return Parse(strings.NewReader(s))
}

/*
LoadYAML reads a tool path written as a YAML document:

	commands:
	  - program_begin: [1, "square"]
	  - rapid: {x: 0, y: 0, z: 0.1}
	  - feed: {z: -0.5}
	  - program_end

A command is an operation name, or a mapping from the name to its positional
(sequence) or named (mapping) arguments.
*/
func LoadYAML(r io.Reader) ([]Command, error) {
	var doc struct {
		Commands []yaml.Node `yaml:"commands"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(err, "yaml")
	}

	cmds := make([]Command, 0, len(doc.Commands))
	for i := range doc.Commands {
		cmd, err := yamlCommand(&doc.Commands[i])
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func yamlCommand(n *yaml.Node) (Command, error) {
	cmd := Command{Line: n.Line}
	switch n.Kind {
	case yaml.ScalarNode:
		cmd.Name = n.Value
		return cmd, nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return cmd, errors.Newf("line %d: expected one operation, got %d", n.Line,
				len(n.Content)/2)
		}
	default:
		return cmd, errors.Newf("line %d: expected an operation", n.Line)
	}

	cmd.Name = n.Content[0].Value
	args := n.Content[1]
	switch args.Kind {
	case yaml.SequenceNode:
		for _, a := range args.Content {
			v, err := yamlValue(a)
			if err != nil {
				return cmd, err
			}
			cmd.Args = append(cmd.Args, Arg{Value: v})
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(args.Content); i += 2 {
			v, err := yamlValue(args.Content[i+1])
			if err != nil {
				return cmd, err
			}
			cmd.Args = append(cmd.Args, Arg{Name: args.Content[i].Value, Value: v})
		}
	case yaml.ScalarNode:
		v, err := yamlValue(args)
		if err != nil {
			return cmd, err
		}
		if v.Kind != NoneKind {
			cmd.Args = append(cmd.Args, Arg{Value: v})
		}
	default:
		return cmd, errors.Newf("line %d: %s: unexpected arguments", args.Line, cmd.Name)
	}
	return cmd, nil
}

func yamlValue(n *yaml.Node) (Value, error) {
	if n.Kind != yaml.ScalarNode {
		return None, errors.Newf("line %d: expected a number, string or boolean", n.Line)
	}

	switch n.ShortTag() {
	case "!!null":
		return None, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return None, errors.Wrapf(err, "line %d", n.Line)
		}
		return Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return None, errors.Wrapf(err, "line %d", n.Line)
		}
		return Number(f), nil
	}
	return String(n.Value), nil
}

// Run executes cmds in order against d. The first failing command stops the
// run; whatever was written before it stays written.
func Run(ctx context.Context, d *dialect.Dialect, cmds []Command) error {
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := Execute(d, cmd); err != nil {
			logger.Logger.Debugw("command failed", "line", cmd.Line, "op", cmd.Name,
				"error", err)
			return err
		}
	}
	return nil
}
