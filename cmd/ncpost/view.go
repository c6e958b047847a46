package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/gcode"
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Render a G-code program as an HTML page",
	Long: `Replay the G-code program in file, or stdin, and write an HTML page
drawing its moves in 3D: rapids in red, feeds in green. Drag to rotate and
scroll to zoom.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, name, err := openInput(args)
		if err != nil {
			return err
		}
		defer in.Close()

		tr, err := gcode.Replay(cmd.Context(), in)
		if err != nil {
			return errors.Wrapf(err, "%s", name)
		}

		out, err := createOutput(cfg.Output)
		if err != nil {
			return err
		}
		defer out.Close()

		title := filepath.Base(name)
		if name == "-" {
			title = "ncpost"
		}
		return writeView(out, title, tr)
	},
}

func jsPoint(pos gcode.Position) string {
	return fmt.Sprintf("{x: %g, y: %g, z: %g}", pos.X, pos.Y, pos.Z)
}

// writeView writes the page for tr. The page is sized to the bounds of the
// moves.
func writeView(w io.Writer, title string, tr *gcode.Trace) error {
	min, max := tr.Bounds()
	size := math.Max(max.X-min.X, math.Max(max.Y-min.Y, max.Z-min.Z))
	if size <= 0.0 {
		size = 1.0
	}

	var config strings.Builder
	fmt.Fprintf(&config, "  minPos: %s,\n", jsPoint(min))
	fmt.Fprintf(&config, "  maxPos: %s,\n", jsPoint(max))
	fmt.Fprintf(&config, "  zoom: %g,\n", 400.0/size)

	var cmds strings.Builder
	for _, m := range tr.Moves {
		op := "linearTo"
		if m.Rapid {
			op = "rapidTo"
		}
		fmt.Fprintf(&cmds, "  {%s: %s},\n", op, jsPoint(m.Pos))
	}

	// json escapes < and >, so a title can not close the script
	jsTitle, err := json.Marshal(title)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, viewHTML, jsTitle, config.String(), cmds.String())
	return err
}
