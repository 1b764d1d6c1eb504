package main

import (
	"context"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Logical window names resolvable through the registry.
const (
	WindowMain     = "main"
	WindowLauncher = "launcher"
)

// Window is a handle to a named, host-managed window. Handles are looked up
// on demand and never owned by the caller. All operations are best-effort:
// handlers swallow individual show/hide/focus failures.
type Window interface {
	Name() string
	IsVisible() bool
	Show() error
	Hide() error
	Focus() error
	Unminimize() error
}

// Registry resolves windows by name. A lookup miss is a normal condition
// (e.g. an event arriving before the host runtime is ready) — callers treat
// it as "nothing to do", not as an error.
type Registry interface {
	Lookup(name string) (Window, bool)
}

// wailsRegistry is the production Registry, backed by the Wails runtime.
// "main" is the native window. "launcher" is a frontend layer driven over the
// Wails event bridge; its visibility state is owned here because the frontend
// has no authoritative copy. Wails v2 exposes no window-visibility query, so
// "main" visibility is tracked on every show/hide as well.
type wailsRegistry struct {
	main     *mainWindow
	launcher *launcherWindow
}

func newWailsRegistry(ctx context.Context, mainVisible bool) *wailsRegistry {
	main := &mainWindow{ctx: ctx, visible: mainVisible}
	return &wailsRegistry{
		main:     main,
		launcher: &launcherWindow{ctx: ctx, host: main},
	}
}

func (r *wailsRegistry) Lookup(name string) (Window, bool) {
	switch name {
	case WindowMain:
		return r.main, true
	case WindowLauncher:
		return r.launcher, true
	}
	return nil, false
}

// mainWindow wraps the single native Wails window.
type mainWindow struct {
	mu      sync.Mutex
	ctx     context.Context
	visible bool
}

func (w *mainWindow) Name() string { return WindowMain }

func (w *mainWindow) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *mainWindow) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	runtime.WindowShow(w.ctx)
	w.visible = true
	return nil
}

func (w *mainWindow) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	runtime.WindowHide(w.ctx)
	w.visible = false
	return nil
}

// Focus brings the window to the front. Wails v2 has no separate focus call;
// WindowShow raises and focuses, which also makes the window visible.
func (w *mainWindow) Focus() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	runtime.WindowShow(w.ctx)
	w.visible = true
	return nil
}

func (w *mainWindow) Unminimize() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	runtime.WindowUnminimise(w.ctx)
	return nil
}

// launcherWindow is the secondary, hide-by-default launcher panel. It lives
// in the frontend; the Go side owns its visibility and drives everything
// else with events. Raising the panel raises its native host window through
// the shared mainWindow handle, so the host's tracked visibility never
// diverges from the screen. Minimized state is write-only from here — the
// frontend holds it.
type launcherWindow struct {
	mu      sync.Mutex
	ctx     context.Context
	host    *mainWindow // native window the panel is rendered in
	visible bool
}

func (w *launcherWindow) Name() string { return WindowLauncher }

func (w *launcherWindow) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *launcherWindow) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	// The panel is only on screen when its host is.
	_ = w.host.Show()
	runtime.EventsEmit(w.ctx, "launcher:show")
	w.visible = true
	return nil
}

func (w *launcherWindow) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	// Hides the panel only; the host window stays as it is.
	runtime.EventsEmit(w.ctx, "launcher:hide")
	w.visible = false
	return nil
}

func (w *launcherWindow) Focus() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.host.Focus()
	runtime.EventsEmit(w.ctx, "launcher:focus")
	return nil
}

func (w *launcherWindow) Unminimize() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	runtime.EventsEmit(w.ctx, "launcher:unminimize")
	return nil
}

// Minimize collapses the launcher panel without hiding it. Reached through
// the bound MinimizeLauncher method.
func (w *launcherWindow) Minimize() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	runtime.EventsEmit(w.ctx, "launcher:minimize")
	return nil
}
