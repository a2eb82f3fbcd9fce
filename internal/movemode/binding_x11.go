package movemode

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/1broseidon/framefit/internal/placement"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/charmbracelet/log"
)

// DefaultTimeout is how long keyboard nudge mode waits for a key before
// exiting, in seconds.
const DefaultTimeout = 10

const (
	keysymUp      = 0xff52
	keysymDown    = 0xff54
	keysymLeft    = 0xff51
	keysymRight   = 0xff53
	keysymReturn  = 0xff0d
	keysymEscape  = 0xff1b
	keysymKPEnter = 0xff8d
)

// Binding connects a Session to the X pointer and keyboard: a modifier
// drag on the root window moves the window under the pointer, and a
// hotkey toggles keyboard nudging of the active window.
type Binding struct {
	mu      sync.Mutex
	xu      *xgbutil.XUtil
	root    xproto.Window
	session *Session
	outline *Outline
	readout *hintOverlay
	logger  *log.Logger

	cursor          xproto.Cursor
	timeout         *time.Timer
	timeoutDuration time.Duration

	grabWindow         xproto.Window
	keyHandlerAttached bool
}

// NewBinding creates a binding. timeoutSeconds <= 0 selects DefaultTimeout.
func NewBinding(xu *xgbutil.XUtil, root xproto.Window, session *Session, timeoutSeconds int, logger *log.Logger) *Binding {
	if logger == nil {
		logger = log.Default()
	}
	b := &Binding{
		xu:      xu,
		root:    root,
		session: session,
		outline: NewOutline(xu, root),
		readout: newHintOverlay(xu, root),
		logger:  logger,
	}
	b.SetTimeout(timeoutSeconds)
	return b
}

// SetTimeout updates the keyboard nudge idle timeout.
func (b *Binding) SetTimeout(seconds int) {
	if seconds <= 0 {
		seconds = DefaultTimeout
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timeoutDuration = time.Duration(seconds) * time.Second
}

// BindDrag installs the pointer drag on buttonStr, e.g. "Mod4-1".
func (b *Binding) BindDrag(buttonStr string) error {
	if _, _, err := mousebind.ParseString(b.xu, buttonStr); err != nil {
		return fmt.Errorf("invalid drag button %q: %w", buttonStr, err)
	}
	if b.cursor == 0 {
		cursor, err := xcursor.CreateCursor(b.xu, xcursor.Fleur)
		if err != nil {
			b.logger.Warn("cannot create drag cursor", "err", err)
		} else {
			b.cursor = cursor
		}
	}
	mousebind.Drag(b.xu, b.root, b.root, buttonStr, true, b.dragBegin, b.dragStep, b.dragEnd)
	b.logger.Debug("drag bound", "button", buttonStr)
	return nil
}

// UnbindDrag removes every pointer binding on the root window.
func (b *Binding) UnbindDrag() {
	mousebind.Detach(b.xu, b.root)
}

func (b *Binding) dragBegin(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
	id, ok := b.session.WindowAt(rootX, rootY)
	if !ok {
		return false, 0
	}
	if err := b.session.Begin(id, rootX, rootY); err != nil {
		b.logger.Debug("drag refused", "window", id, "err", err)
		return false, 0
	}
	if f, ok := b.session.Frame(id); ok {
		b.showPosition(f)
	}
	return true, b.cursor
}

func (b *Binding) dragStep(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	f, err := b.session.Step(rootX, rootY)
	if err != nil {
		if !errors.Is(err, ErrNotMoving) {
			b.logger.Warn("drag step failed", "err", err)
		}
		return
	}
	b.showPosition(f)
}

func (b *Binding) dragEnd(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	if _, err := b.session.End(); err != nil && !errors.Is(err, ErrNotMoving) {
		b.logger.Warn("drag end failed", "err", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readout.Hide()
}

// showPosition updates the readout with the resolved origin of f.
func (b *Binding) showPosition(f placement.Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readout.ShowPosition(f.X, f.Y)
}

// Toggle enters keyboard nudge mode for the active window, or leaves it.
func (b *Binding) Toggle() {
	if b.session.Phase() == PhaseNudging {
		b.Exit()
		return
	}
	if err := b.Enter(); err != nil {
		b.logger.Warn("cannot enter nudge mode", "err", err)
	}
}

// Enter starts keyboard nudging of the EWMH active window.
func (b *Binding) Enter() error {
	active, err := ewmh.ActiveWindowGet(b.xu)
	if err != nil {
		return fmt.Errorf("get active window: %w", err)
	}
	id := placement.WindowID(active)
	if err := b.session.BeginNudge(id); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.grabKeyboard(); err != nil {
		_ = b.session.Cancel()
		return err
	}
	b.showOutlineLocked(id, ColorNudging)
	if f, ok := b.session.Frame(id); ok {
		b.readout.ShowPosition(f.X, f.Y)
	}
	b.startTimeoutLocked()
	b.logger.Info("nudge mode entered", "window", id)
	return nil
}

// Exit leaves keyboard nudge mode, keeping the window where it is.
func (b *Binding) Exit() {
	if _, err := b.session.End(); err != nil && !errors.Is(err, ErrNotMoving) {
		b.logger.Warn("nudge end failed", "err", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked()
	b.logger.Info("nudge mode exited")
}

func (b *Binding) cancel() {
	if err := b.session.Cancel(); err != nil && !errors.Is(err, ErrNotMoving) {
		b.logger.Warn("nudge cancel failed", "err", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked()
	b.logger.Info("nudge mode cancelled")
}

func (b *Binding) releaseLocked() {
	if b.timeout != nil {
		b.timeout.Stop()
		b.timeout = nil
	}
	b.outline.Hide()
	b.readout.Hide()
	b.ungrabKeyboard()
}

// Close releases every X resource the binding created.
func (b *Binding) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outline.Destroy()
	b.readout.Destroy()
	if b.grabWindow != 0 {
		xproto.DestroyWindow(b.xu.Conn(), b.grabWindow)
		b.grabWindow = 0
	}
}

func (b *Binding) showOutlineLocked(id placement.WindowID, color uint32) {
	r, ok := b.session.RootRect(id)
	if !ok {
		b.outline.Hide()
		return
	}
	if err := b.outline.Show(r, color); err != nil {
		b.logger.Debug("outline unavailable", "err", err)
	}
}

// startTimeoutLocked starts or resets the auto-exit timeout
func (b *Binding) startTimeoutLocked() {
	if b.timeout != nil {
		b.timeout.Stop()
	}
	b.timeout = time.AfterFunc(b.timeoutDuration, func() {
		if b.session.Phase() == PhaseNudging {
			b.logger.Info("nudge mode timed out")
			b.Exit()
		}
	})
}

// grabKeyboard grabs the keyboard and sets up key event handling
func (b *Binding) grabKeyboard() error {
	xu := b.xu
	if err := b.ensureGrabWindow(); err != nil {
		return err
	}

	grab := func() (*xproto.GrabKeyboardReply, error) {
		return xproto.GrabKeyboard(
			xu.Conn(),
			false,                  // owner_events (report events to grab_window)
			b.root,                 // grab_window (must be viewable)
			xproto.TimeCurrentTime, // time
			xproto.GrabModeAsync,   // pointer_mode
			xproto.GrabModeAsync,   // keyboard_mode
		).Reply()
	}

	reply, err := grab()
	if err != nil {
		return err
	}

	// Entered from a global hotkey, the keyboard may already be grabbed by
	// this client. If so, ungrab and retry.
	if reply.Status == xproto.GrabStatusAlreadyGrabbed {
		xproto.UngrabKeyboard(xu.Conn(), xproto.TimeCurrentTime)
		reply, err = grab()
		if err != nil {
			return err
		}
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("keyboard grab failed with status %d", reply.Status)
	}

	xevent.RedirectKeyEvents(xu, b.grabWindow)
	if !b.keyHandlerAttached {
		xevent.KeyPressFun(b.handleKeyPress).Connect(xu, b.grabWindow)
		b.keyHandlerAttached = true
	}
	return nil
}

// ungrabKeyboard releases the keyboard grab
func (b *Binding) ungrabKeyboard() {
	xu := b.xu
	xproto.UngrabKeyboard(xu.Conn(), xproto.TimeCurrentTime)
	xevent.RedirectKeyEvents(xu, 0)

	if b.keyHandlerAttached && b.grabWindow != 0 {
		xevent.Detach(xu, b.grabWindow)
		b.keyHandlerAttached = false
	}
}

func (b *Binding) ensureGrabWindow() error {
	if b.grabWindow != 0 {
		return nil
	}

	conn := b.xu.Conn()
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return err
	}

	// InputOnly window that never draws; the target for key callbacks
	// while the keyboard is grabbed.
	err = xproto.CreateWindowChecked(
		conn,
		0, // depth (must be 0 for InputOnly)
		wid,
		b.root,
		0, 0, // x, y
		1, 1, // width, height
		0, // border_width
		xproto.WindowClassInputOnly,
		xproto.Visualid(0), // CopyFromParent
		xproto.CwEventMask,
		[]uint32{uint32(xproto.EventMaskKeyPress)},
	).Check()
	if err != nil {
		return err
	}
	xproto.MapWindow(conn, wid)

	b.grabWindow = wid
	return nil
}

// handleKeyPress processes key events while keyboard is grabbed
func (b *Binding) handleKeyPress(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
	keysym := keybind.KeysymGet(xu, ev.Detail, 0)

	if b.session.Phase() != PhaseNudging {
		return
	}

	switch keysym {
	case keysymUp:
		b.nudge(DirUp)
	case keysymDown:
		b.nudge(DirDown)
	case keysymLeft:
		b.nudge(DirLeft)
	case keysymRight:
		b.nudge(DirRight)
	case keysymReturn, keysymKPEnter:
		b.Exit()
	case keysymEscape:
		b.cancel()
	}
}

func (b *Binding) nudge(dir Direction) {
	id := b.session.Current()
	res, err := b.session.Nudge(id, dir)
	color := uint32(ColorNudging)
	if err != nil {
		b.logger.Warn("nudge failed", "window", id, "direction", dir, "err", err)
		if errors.Is(err, ErrUnknownWindow) {
			b.Exit()
			return
		}
	} else if res.From.X == res.To.X && res.From.Y == res.To.Y {
		color = ColorBlocked
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.showOutlineLocked(id, color)
	b.readout.ShowPosition(res.To.X, res.To.Y)
	b.startTimeoutLocked()
}
