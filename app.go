package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/energye/systray"
)

// hotkeyStarter is the minimal interface the App needs from HotkeyService.
// Using an interface keeps real CGo goroutines out of unit tests.
type hotkeyStarter interface {
	Start(ctx context.Context, combo string, onTrigger func()) error
	Reregister(combo string) error
	IsRegistered() bool
	Stop()
}

// emptyRegistry is installed until the host runtime is ready. Every lookup
// misses, so events arriving before startup are clean no-ops.
type emptyRegistry struct{}

func (emptyRegistry) Lookup(string) (Window, bool) { return nil, false }

// App is the main application struct. It owns the process-wide state: the
// window registry, the single hotkey binding, and the single tray icon.
// ctx is guarded by mu. startupCh is closed once startup() fires so that
// callers that arrive before Wails is ready can wait.
type App struct {
	mu        sync.RWMutex
	ctx       context.Context
	startupCh chan struct{}
	once      sync.Once

	// dispatchMu serializes all Dispatch calls; see events.go.
	dispatchMu sync.Mutex

	windows    Registry
	hotkeys    hotkeyStarter // nil in unit tests; real HotkeyService in production
	hotkeyCtx  context.CancelFunc
	config     *ConfigService
	watcher    *ConfigWatcher
	loginItems *LoginItemService

	// exit terminates the process. Injectable so tests can observe the quit
	// action without dying.
	exit func(code int)
}

// NewApp creates a new App application struct.
// hotkeys is intentionally nil — main.go injects a real HotkeyService
// via SetHotkeyService() before calling wails.Run(), keeping CGo goroutines
// out of unit tests entirely.
func NewApp() *App {
	svc, err := NewLoginItemService()
	if err != nil {
		log.Printf("warning: failed to create LoginItemService: %v", err)
	}
	return &App{
		startupCh:  make(chan struct{}),
		windows:    emptyRegistry{},
		loginItems: svc,
		exit: func(code int) {
			systray.Quit()
			os.Exit(code)
		},
	}
}

// SetHotkeyService injects the hotkey service (called by main.go before wails.Run).
func (a *App) SetHotkeyService(hs hotkeyStarter) {
	a.hotkeys = hs
}

// SetConfigService injects the config service.
func (a *App) SetConfigService(cs *ConfigService) {
	a.config = cs
}

// setWindowRegistry swaps the registry (tests only).
func (a *App) setWindowRegistry(r Registry) {
	a.windows = r
}

// startup is called by Wails when the runtime is ready. It installs the real
// window registry, registers the global hotkey, and starts watching the
// config file; main.go raises the tray icon once startupCh closes. Each of
// these is independent: a hotkey conflict or a watcher error leaves the rest
// of the app fully usable.
func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	cfg := a.loadConfig()
	// Install the real registry under dispatchMu — the hotkey listener and,
	// once startupCh closes, the tray goroutine read it from Dispatch.
	a.dispatchMu.Lock()
	a.windows = newWailsRegistry(ctx, cfg.ShowMainOnStart)
	a.dispatchMu.Unlock()

	// Register the global hotkey — only if a service has been injected.
	// The trigger closure holds the App itself, which lives for the whole
	// process, never a transient handle.
	if a.hotkeys != nil {
		hkCtx, cancel := context.WithCancel(ctx)
		a.hotkeyCtx = cancel
		err := a.hotkeys.Start(hkCtx, cfg.Hotkey, func() {
			a.Dispatch(Event{Kind: EventShortcutPressed})
		})
		if err != nil {
			if errors.Is(err, ErrHotkeyConflict) {
				log.Printf("hotkey: %s is already registered by another app — tray menu still available", cfg.Hotkey)
			} else {
				log.Printf("hotkey: failed to register: %v", err)
			}
		}
	}

	a.watchConfig()

	// Release waiters (the tray goroutine in main.go) only after everything
	// they dispatch into is wired.
	a.once.Do(func() { close(a.startupCh) })
}

// loadConfig returns the persisted config, or defaults when no service is wired.
func (a *App) loadConfig() Config {
	if a.config == nil {
		return defaultConfig()
	}
	return a.config.Load()
}

// watchConfig starts the fsnotify watcher. A combo change in the config file
// rebinds the hotkey at runtime; the old binding stays live if the new one
// cannot be registered.
func (a *App) watchConfig() {
	if a.config == nil || a.hotkeys == nil {
		return
	}
	w, err := NewConfigWatcher(a.config, func(cfg Config) {
		if err := a.hotkeys.Reregister(cfg.Hotkey); err != nil {
			log.Printf("hotkey: keeping previous binding, rebind to %s failed: %v", cfg.Hotkey, err)
		}
	})
	if err != nil {
		log.Printf("config: watcher disabled: %v", err)
		return
	}
	a.watcher = w
}

// beforeClose intercepts the native window close request. Returning true
// cancels the close; the window is hidden instead of destroyed.
func (a *App) beforeClose(ctx context.Context) bool {
	prevented := false
	a.Dispatch(Event{
		Kind:   EventCloseRequested,
		Window: WindowMain,
		Cancel: func() { prevented = true },
	})
	return prevented
}

// waitForStartup blocks until Wails has initialised (startup() has been called).
func (a *App) waitForStartup() context.Context {
	<-a.startupCh
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ctx
}

// quit tears the process down with exit code 0. Only reachable through the
// tray "Quit" action or the bound Quit method.
func (a *App) quit() {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.hotkeyCtx != nil {
		a.hotkeyCtx() // end the listener's context before tearing the binding down
	}
	if a.hotkeys != nil {
		a.hotkeys.Stop() // release the OS-level binding while the event loop is alive
	}
	a.exit(0)
}

// ── Bound methods (callable from the frontend) ──────────────────────────────

// Greet returns a greeting for the given name. Diagnostic hook for the
// frontend bridge.
func (a *App) Greet(name string) string {
	return fmt.Sprintf("Hello %s, greetings from the Go side!", name)
}

// ToggleMainWindow toggles main window visibility, same as the tray
// "Show / Hide" item.
func (a *App) ToggleMainWindow() {
	a.Dispatch(Event{Kind: EventMenuAction, Action: ActionShowHide})
}

// ToggleLauncher toggles the launcher, same as the tray item and the hotkey.
func (a *App) ToggleLauncher() {
	a.Dispatch(Event{Kind: EventMenuAction, Action: ActionToggleLauncher})
}

// CloseLauncher is the launcher panel's close button. Like a native close
// request, it hides rather than destroys.
func (a *App) CloseLauncher() {
	a.Dispatch(Event{Kind: EventCloseRequested, Window: WindowLauncher})
}

// MinimizeLauncher collapses the launcher panel.
func (a *App) MinimizeLauncher() {
	if w, ok := a.windows.Lookup(WindowLauncher); ok {
		if lw, ok := w.(*launcherWindow); ok {
			_ = lw.Minimize()
		}
	}
}

// Quit exits the application.
func (a *App) Quit() {
	a.Dispatch(Event{Kind: EventMenuAction, Action: ActionQuit})
}

// GetHotkeyStatus returns the current hotkey registration status.
func (a *App) GetHotkeyStatus() string {
	if a.hotkeys == nil || !a.hotkeys.IsRegistered() {
		return "unregistered"
	}
	return "registered"
}

// GetLaunchAtLogin reports whether the app is registered as a login item.
func (a *App) GetLaunchAtLogin() bool {
	if a.loginItems == nil {
		return false
	}
	return a.loginItems.IsEnabled()
}

// SetLaunchAtLogin enables or disables the launch-at-login login item.
func (a *App) SetLaunchAtLogin(enabled bool) error {
	if a.loginItems == nil {
		return nil
	}
	if enabled {
		execPath, err := os.Executable()
		if err != nil {
			return err
		}
		return a.loginItems.Enable(execPath)
	}
	return a.loginItems.Disable()
}
