package main

import "log"

// EventKind identifies which of the four event sources produced an Event.
type EventKind int

const (
	// EventMenuAction is a tray menu item click, identified by Action.
	EventMenuAction EventKind = iota
	// EventTrayClick is a direct click on the tray icon itself.
	EventTrayClick
	// EventShortcutPressed is a press (not release) of the global hotkey.
	EventShortcutPressed
	// EventCloseRequested is a native close request on a window. The default
	// destroy behavior runs unless Cancel is invoked.
	EventCloseRequested
)

// MouseButton identifies the button of a tray click.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Tray menu action identifiers.
const (
	ActionQuit           = "quit"
	ActionShowHide       = "show_hide"
	ActionToggleLauncher = "toggle_launcher"
)

// Event is the payload delivered to the dispatcher. Only the fields relevant
// to Kind are set.
type Event struct {
	Kind   EventKind
	Action string      // EventMenuAction: one of the Action* identifiers
	Button MouseButton // EventTrayClick
	Window string      // EventCloseRequested: source window name
	Cancel func()      // EventCloseRequested: suppresses the default close
}

// Dispatch is the single entry point for all window-visibility events.
// Tray, hotkey, and host-runtime callbacks arrive on different goroutines;
// the mutex serializes them so no two handlers mutate window state at once.
func (a *App) Dispatch(ev Event) {
	a.dispatchMu.Lock()
	defer a.dispatchMu.Unlock()

	switch ev.Kind {
	case EventMenuAction:
		switch ev.Action {
		case ActionQuit:
			a.quit()
		case ActionShowHide:
			a.toggleMain()
		case ActionToggleLauncher:
			a.toggleLauncher()
		default:
			log.Printf("dispatch: unknown menu action %q", ev.Action)
		}
	case EventTrayClick:
		if ev.Button == MouseButtonLeft {
			a.toggleMain()
		}
	case EventShortcutPressed:
		a.toggleLauncher()
	case EventCloseRequested:
		a.hideOnClose(ev)
	}
}

// toggleMain flips the main window: visible → hide, hidden → show + focus.
// A lookup miss means there is nothing to toggle.
func (a *App) toggleMain() {
	w, ok := a.windows.Lookup(WindowMain)
	if !ok {
		return
	}
	if w.IsVisible() {
		_ = w.Hide()
		return
	}
	_ = w.Show()
	_ = w.Focus()
}

// toggleLauncher flips the launcher: visible → hide, hidden → show +
// unminimize + focus.
func (a *App) toggleLauncher() {
	w, ok := a.windows.Lookup(WindowLauncher)
	if !ok {
		return
	}
	if w.IsVisible() {
		_ = w.Hide()
		return
	}
	_ = w.Show()
	_ = w.Unminimize()
	_ = w.Focus()
}

// hideOnClose converts a close request into a hide. The default close is
// always cancelled — windows are never destroyed while the app runs; the
// only teardown is the quit action.
func (a *App) hideOnClose(ev Event) {
	if w, ok := a.windows.Lookup(ev.Window); ok {
		if err := w.Hide(); err != nil {
			log.Printf("close: failed to hide %q: %v", ev.Window, err)
		}
	}
	if ev.Cancel != nil {
		ev.Cancel()
	}
}
