package dialect

const defaultBanner = "G-code created using the ncpost Mach3 post processor"

// Mach3 overrides ISO for Mach3 controllers. Mach3 has no log or debug
// channel, so those messages go to the operator.
func Mach3(t *Table, c *Codes, o *Options) {
	c.WorkOffset = "G10 L2"
	if o.Banner == "" {
		o.Banner = defaultBanner
	}

	t.ProgramBegin = func(d *Dialect, id int, text string) error {
		if err := d.line(comment(d.opts.Banner)); err != nil {
			return err
		}
		return d.line(comment(text))
	}
	t.WorkOffset = controllerWorkOffset
	t.ToolDefn = func(d *Dialect, td ToolDefn) error {
		return nil
	}
	t.Message = messageOp("MSG")
	t.LogMessage = func(d *Dialect, text string) error {
		return d.Message(text)
	}
	t.DebugMessage = func(d *Dialect, text string) error {
		return d.Message(text)
	}
}
