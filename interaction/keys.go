package interaction

import (
	"unicode"

	"diagramstudio/diagram"
)

// KeyDown handles a key press and reports whether it was consumed.
// Escape cancels the active gesture; other keys only act while idle.
func (c *Coordinator) KeyDown(ev KeyEvent) bool {
	if ev.Key == KeyEscape {
		if c.mode != ModeNone {
			c.Cancel()
			return true
		}
		c.store.ClearSelection()
		return true
	}
	if c.mode != ModeNone {
		return false
	}

	switch ev.Key {
	case KeyDelete, KeyBackspace:
		return c.DeleteSelection()
	case KeyRune:
	default:
		return false
	}

	r := unicode.ToLower(ev.Rune)
	if ev.Mods.Has(ModCtrl) || ev.Mods.Has(ModMeta) {
		return c.shortcut(r, ev.Mods.Has(ModShift))
	}

	switch r {
	case 'v': // Select tool
		c.SetTool(ToolSelect)
	case 'h': // Hand (pan) tool
		c.SetTool(ToolPan)
	case 'c': // Connect tool
		c.SetTool(ToolConnect)
	case '+', '=':
		c.controls.ZoomIn()
	case '-':
		c.controls.ZoomOut()
	case '0':
		c.controls.Reset()
	default:
		return false
	}
	return true
}

func (c *Coordinator) shortcut(r rune, shift bool) bool {
	switch r {
	case 'c':
		return c.Copy()
	case 'x':
		return c.Cut()
	case 'v':
		_, ok := c.Paste()
		return ok
	case 'd':
		_, ok := c.Duplicate()
		return ok
	case 'a':
		c.SelectAll()
		return true
	case 'z':
		if shift {
			return c.redo()
		}
		return c.undo()
	case 'y':
		return c.redo()
	}
	return false
}

// SelectAll selects every element.
func (c *Coordinator) SelectAll() {
	c.store.ClearSelection()
	for _, e := range c.store.Elements() {
		c.store.SelectElement(e.ID, true)
	}
}

func (c *Coordinator) undo() bool {
	u, ok := c.store.(diagram.Undoer)
	return ok && u.Undo()
}

func (c *Coordinator) redo() bool {
	u, ok := c.store.(diagram.Undoer)
	return ok && u.Redo()
}
