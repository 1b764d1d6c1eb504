package main

import (
	"context"
	"testing"
)

// stubHotkeys satisfies hotkeyStarter without CGo.
type stubHotkeys struct {
	startErr   error
	registered bool
	stopped    bool
	rebinds    []string
	trigger    func()
	ctx        context.Context
}

func (s *stubHotkeys) Start(ctx context.Context, _ string, onTrigger func()) error {
	if s.startErr != nil {
		return s.startErr
	}
	s.registered = true
	s.trigger = onTrigger
	s.ctx = ctx
	return nil
}

func (s *stubHotkeys) Reregister(combo string) error {
	s.rebinds = append(s.rebinds, combo)
	return nil
}

func (s *stubHotkeys) IsRegistered() bool { return s.registered }
func (s *stubHotkeys) Stop()              { s.stopped = true }

func TestNewApp(t *testing.T) {
	app := NewApp()
	if app == nil {
		t.Fatal("NewApp() returned nil")
	}
}

func TestGreet(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{name: "plain name", arg: "World", want: "Hello World, greetings from the Go side!"},
		{name: "empty name", arg: "", want: "Hello , greetings from the Go side!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := NewApp()
			if got := app.Greet(tt.arg); got != tt.want {
				t.Errorf("Greet(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

// TestQuitBeforeStartupIsSafe verifies Quit can fire before startup() — the
// tray goroutine may deliver a click arbitrarily early.
func TestQuitBeforeStartupIsSafe(t *testing.T) {
	app := NewApp()
	code := -1
	app.exit = func(c int) { code = c }

	app.Quit()
	if code != 0 {
		t.Errorf("exit code = %d; want 0", code)
	}
}

// TestHotkeyConflictLeavesAppUsable verifies a failed hotkey registration is
// non-fatal: the tray toggles and the close interceptor keep working.
func TestHotkeyConflictLeavesAppUsable(t *testing.T) {
	app, reg := newTestApp()
	hk := &stubHotkeys{startErr: ErrHotkeyConflict}
	app.SetHotkeyService(hk)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err := hk.Start(ctx, defaultCombo, func() {})
	if err != ErrHotkeyConflict {
		t.Fatalf("stub Start() = %v; want ErrHotkeyConflict", err)
	}

	// Menu toggle still works.
	app.Dispatch(Event{Kind: EventMenuAction, Action: ActionShowHide})
	if !reg.windows[WindowMain].visible {
		t.Error("show_hide broken after hotkey conflict")
	}

	// Close interception still works.
	cancelled := false
	app.Dispatch(Event{Kind: EventCloseRequested, Window: WindowMain, Cancel: func() { cancelled = true }})
	if !cancelled {
		t.Error("close interception broken after hotkey conflict")
	}
}

// TestHotkeyTriggerDispatchesLauncherToggle verifies the wiring startup()
// installs: a press event flows into the launcher toggle.
func TestHotkeyTriggerDispatchesLauncherToggle(t *testing.T) {
	app, reg := newTestApp()
	hk := &stubHotkeys{}
	app.SetHotkeyService(hk)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := hk.Start(ctx, defaultCombo, func() {
		app.Dispatch(Event{Kind: EventShortcutPressed})
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	hk.trigger()
	if !reg.windows[WindowLauncher].visible {
		t.Error("launcher not visible after hotkey trigger")
	}
}

func TestQuitStopsHotkeyService(t *testing.T) {
	app, _ := newTestApp()
	hk := &stubHotkeys{registered: true}
	app.SetHotkeyService(hk)
	app.exit = func(int) {}

	app.Dispatch(Event{Kind: EventMenuAction, Action: ActionQuit})
	if !hk.stopped {
		t.Error("Quit did not stop the hotkey service")
	}
}

// TestStartupReleasesWaitersAfterRegistryInstall verifies the happens-before
// edge startup() provides: a goroutine released by waitForStartup must see
// the real window registry, never the pre-startup empty one. The tray
// goroutine in main.go relies on exactly this ordering.
func TestStartupReleasesWaitersAfterRegistryInstall(t *testing.T) {
	app := NewApp()

	sawMain := make(chan bool, 1)
	go func() {
		app.waitForStartup()
		_, ok := app.windows.Lookup(WindowMain)
		sawMain <- ok
	}()

	app.startup(context.Background())
	if !<-sawMain {
		t.Error("waiter released before the window registry was installed")
	}
}

// TestQuitCancelsHotkeyContext verifies quit ends the listener context that
// startup() handed to the hotkey service, then releases the OS binding.
func TestQuitCancelsHotkeyContext(t *testing.T) {
	app := NewApp()
	hk := &stubHotkeys{}
	app.SetHotkeyService(hk)
	app.exit = func(int) {}

	app.startup(context.Background())
	if hk.ctx == nil {
		t.Fatal("startup did not start the hotkey service")
	}

	app.Dispatch(Event{Kind: EventMenuAction, Action: ActionQuit})
	select {
	case <-hk.ctx.Done():
	default:
		t.Error("quit left the hotkey listener context alive")
	}
	if !hk.stopped {
		t.Error("quit did not stop the hotkey service")
	}
}

func TestGetHotkeyStatus(t *testing.T) {
	app := NewApp()
	if got := app.GetHotkeyStatus(); got != "unregistered" {
		t.Errorf("status with no service = %q; want %q", got, "unregistered")
	}

	app.SetHotkeyService(&stubHotkeys{registered: true})
	if got := app.GetHotkeyStatus(); got != "registered" {
		t.Errorf("status with registered service = %q; want %q", got, "registered")
	}
}
