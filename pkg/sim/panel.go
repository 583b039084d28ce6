package sim

// PanelCmd is one decoded panel command with its parameter bytes.
type PanelCmd struct {
	Code byte
	Data []byte
}

// Panel models the ILI9341 command interface. A byte arriving with
// the data/command line low starts a new command, bytes with it high
// extend the current command's parameters. The panel powers up asleep
// with the display off.
type Panel struct {
	cmds     []PanelCmd
	sleeping bool
	on       bool
}

// NewPanel creates the model in its power-on state.
func NewPanel() *Panel {
	return &Panel{sleeping: true}
}

// ByteIn accepts one byte from the serial link. data is the
// data/command line level.
func (p *Panel) ByteIn(b byte, data bool) {
	if data {
		if n := len(p.cmds); n > 0 {
			p.cmds[n-1].Data = append(p.cmds[n-1].Data, b)
		}
		return
	}
	p.cmds = append(p.cmds, PanelCmd{Code: b})
	switch b {
	case 0x10:
		p.sleeping = true
	case 0x11:
		p.sleeping = false
	case 0x28:
		p.on = false
	case 0x29:
		p.on = true
	}
}

// Commands returns every command received so far, in order.
func (p *Panel) Commands() []PanelCmd { return p.cmds }

// Sleeping reports whether the panel is in sleep mode.
func (p *Panel) Sleeping() bool { return p.sleeping }

// On reports whether the display is switched on.
func (p *Panel) On() bool { return p.on }
