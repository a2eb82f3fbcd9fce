package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Struts are the root edges reserved by dock windows, in pixels.
type Struts struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// RootSize returns the root window's width and height.
func (c *Connection) RootSize() (int, int, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return int(geom.Width), int(geom.Height), nil
}

// DockStruts returns the largest strut each dock reserves on each root edge.
func (c *Connection) DockStruts() (Struts, error) {
	rootWidth, rootHeight, err := c.RootSize()
	if err != nil {
		return Struts{}, err
	}

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return Struts{}, fmt.Errorf("failed to get client list: %w", err)
	}

	var struts Struts
	for _, windowID := range clients {
		if !c.isDock(windowID) {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			accumulateStrut(rootWidth, rootHeight, sp, &struts)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			accumulateStrut(rootWidth, rootHeight, fullStrut(s, rootWidth, rootHeight), &struts)
		}
	}
	return struts, nil
}

func (c *Connection) isDock(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// fullStrut widens a plain strut to cover its whole edge.
func fullStrut(s *ewmh.WmStrut, rootWidth, rootHeight int) *ewmh.WmStrutPartial {
	return &ewmh.WmStrutPartial{
		Left:         s.Left,
		Right:        s.Right,
		Top:          s.Top,
		Bottom:       s.Bottom,
		LeftStartY:   0,
		LeftEndY:     uint(rootHeight - 1),
		RightStartY:  0,
		RightEndY:    uint(rootHeight - 1),
		TopStartX:    0,
		TopEndX:      uint(rootWidth - 1),
		BottomStartX: 0,
		BottomEndX:   uint(rootWidth - 1),
	}
}

// accumulateStrut folds one dock's partial strut into acc. Only the part of
// the strut that lies on the root counts.
func accumulateStrut(rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *Struts) {
	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		isect := intersectRoot(rootWidth, rootHeight, int(sp.TopStartX), 0, int(sp.TopEndX)+1, int(sp.Top))
		acc.Top = max(acc.Top, isect.h)
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
	if sp.Bottom > 0 {
		isect := intersectRoot(rootWidth, rootHeight, int(sp.BottomStartX), rootHeight-int(sp.Bottom), int(sp.BottomEndX)+1, rootHeight)
		acc.Bottom = max(acc.Bottom, isect.h)
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		isect := intersectRoot(rootWidth, rootHeight, 0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)+1)
		acc.Left = max(acc.Left, isect.w)
	}

	// Right strut: x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
	if sp.Right > 0 {
		isect := intersectRoot(rootWidth, rootHeight, rootWidth-int(sp.Right), int(sp.RightStartY), rootWidth, int(sp.RightEndY)+1)
		acc.Right = max(acc.Right, isect.w)
	}
}

type intersection struct {
	w int
	h int
}

func intersectRoot(rootWidth, rootHeight, x1, y1, x2, y2 int) intersection {
	x1 = max(x1, 0)
	y1 = max(y1, 0)
	x2 = min(x2, rootWidth)
	y2 = min(y2, rootHeight)

	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{w: x2 - x1, h: y2 - y1}
}
