package editor

import (
	"math"

	"golang.org/x/image/math/f64"

	"github.com/example/stickerpad/internal/geom"
	"github.com/example/stickerpad/internal/sticker"
)

// PointerDown handles a press in screen coordinates.
func (s *Session) PointerDown(p geom.Pointer) { s.Press(geom.ScreenToCanvas(p, s.Viewport())) }

// PointerMove handles pointer motion in screen coordinates.
func (s *Session) PointerMove(p geom.Pointer) { s.Drag(geom.ScreenToCanvas(p, s.Viewport())) }

// PointerUp handles a release in screen coordinates.
func (s *Session) PointerUp(p geom.Pointer) { s.Release(geom.ScreenToCanvas(p, s.Viewport())) }

// Press starts a gesture at canvas point p. The pre-gesture state is
// captured here so undo returns to it.
func (s *Session) Press(p f64.Vec2) {
	if s.base == nil {
		return
	}
	s.finishGesture()
	s.pending = s.capture()
	s.changed = false

	if s.active != nil {
		s.mode = modeTool
		s.active.begin(s, p)
		return
	}
	if st, c, ok := s.stickers.HandleHit(p, s.tol); ok {
		b := st.Box()
		s.mode = modeResizing
		s.grab.target = st
		s.grab.corner = c
		s.grab.anchor = geom.CornerPoint(c.Opposite(), b)
		s.grab.centre = b.Center()
		s.grab.origW, s.grab.origH = st.W, st.H
		return
	}
	if st := s.stickers.HitTest(p); st != nil {
		s.stickers.Select(st)
		s.mode = modeDragging
		s.grab.target = st
		s.grab.offset = f64.Vec2{p[0] - st.X, p[1] - st.Y}
		return
	}
	s.stickers.Deselect()
	s.resetGesture()
}

// Drag continues the current gesture.
func (s *Session) Drag(p f64.Vec2) {
	switch s.mode {
	case modeTool:
		s.active.move(s, p)
	case modeDragging:
		st := s.grab.target
		x, y := p[0]-s.grab.offset[0], p[1]-s.grab.offset[1]
		if x != st.X || y != st.Y {
			st.X, st.Y = x, y
			s.changed = true
		}
	case modeResizing:
		st := s.grab.target
		local := unrotate(p, s.grab.centre, st.Rotation)
		if s.stickers.Resize(st, s.grab.corner, s.grab.anchor, s.grab.origW, s.grab.origH, local) {
			s.pinAnchor(st)
			s.changed = true
		}
	}
}

// pinAnchor maps a resized sticker out of the unrotated frame of the
// gesture-start box so its opposite corner stays put on screen.
func (s *Session) pinAnchor(st *sticker.Sticker) {
	if st.Rotation == 0 {
		return
	}
	c := geom.RotateAbout(f64.Vec2{st.X + st.W/2, st.Y + st.H/2}, s.grab.centre, st.Rotation)
	st.X, st.Y = c[0]-st.W/2, c[1]-st.H/2
}

// Release ends the gesture and records it in the history when it changed
// anything.
func (s *Session) Release(p f64.Vec2) {
	if s.mode == modeIdle {
		return
	}
	if s.mode != modeTool {
		s.Drag(p)
	}
	s.commitGesture(p, true)
}

// finishGesture ends a gesture left open, for instance when the tool is
// switched mid-drag.
func (s *Session) finishGesture() {
	if s.mode == modeIdle {
		return
	}
	var last f64.Vec2
	switch g := s.active.(type) {
	case *strokeTool:
		last = g.last
	case *shapeTool:
		last = g.cur
	case *blurTool:
		last = g.cur
	case *cropTool:
		last = f64.Vec2{g.rect.X + g.rect.W, g.rect.Y + g.rect.H}
	}
	s.commitGesture(last, s.mode == modeTool)
}

func (s *Session) commitGesture(p f64.Vec2, runTool bool) {
	label := ""
	switch s.mode {
	case modeDragging:
		label = "move sticker"
	case modeResizing:
		label = "resize sticker"
	case modeTool:
		if runTool {
			l, changed, err := s.active.end(s, p)
			if err != nil {
				s.toastErr(s.tool.String()+" failed", err)
				if s.pending != nil {
					s.restore(s.pending)
				}
				s.resetGesture()
				return
			}
			label = l
			s.changed = s.changed || changed
		}
	}
	if s.changed && label != "" && s.pending != nil {
		s.history.Push(label, *s.pending)
	}
	s.resetGesture()
}

func (s *Session) resetGesture() {
	s.mode = modeIdle
	s.pending = nil
	s.changed = false
	s.grab = grabState{}
}

// unrotate maps p into the unrotated frame of a box centred on c.
func unrotate(p, c f64.Vec2, deg float64) f64.Vec2 {
	if deg == 0 {
		return p
	}
	sin, cos := math.Sincos(-deg * math.Pi / 180)
	dx, dy := p[0]-c[0], p[1]-c[1]
	return f64.Vec2{c[0] + dx*cos - dy*sin, c[1] + dx*sin + dy*cos}
}
