package main

import (
	"context"
	"testing"
)

func TestWailsRegistryResolvesNamedWindows(t *testing.T) {
	reg := newWailsRegistry(context.Background(), false)

	for _, name := range []string{WindowMain, WindowLauncher} {
		w, ok := reg.Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) missed", name)
		}
		if got := w.Name(); got != name {
			t.Errorf("Lookup(%q).Name() = %q", name, got)
		}
	}
}

func TestWailsRegistryUnknownNameMisses(t *testing.T) {
	reg := newWailsRegistry(context.Background(), false)
	if _, ok := reg.Lookup("settings"); ok {
		t.Error("Lookup of unknown name resolved")
	}
}

func TestMainWindowInitialVisibility(t *testing.T) {
	tests := []struct {
		name            string
		showMainOnStart bool
	}{
		{name: "starts hidden", showMainOnStart: false},
		{name: "starts visible", showMainOnStart: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newWailsRegistry(context.Background(), tt.showMainOnStart)
			w, _ := reg.Lookup(WindowMain)
			if got := w.IsVisible(); got != tt.showMainOnStart {
				t.Errorf("IsVisible() = %v, want %v", got, tt.showMainOnStart)
			}
		})
	}
}

// TestLauncherSharesNativeHost verifies the launcher raises the same native
// window handle the registry serves as "main". Routing the raise through the
// shared handle is what keeps the tracked main-window visibility in sync
// with the screen when a hotkey press shows the launcher while main is
// hidden — a detached raise would leave "main" reported hidden and break
// the next show_hide toggle.
func TestLauncherSharesNativeHost(t *testing.T) {
	reg := newWailsRegistry(context.Background(), false)

	launcher, _ := reg.Lookup(WindowLauncher)
	lw, ok := launcher.(*launcherWindow)
	if !ok {
		t.Fatalf("launcher window is %T; want *launcherWindow", launcher)
	}
	if lw.host == nil {
		t.Fatal("launcher has no native host window")
	}

	main, _ := reg.Lookup(WindowMain)
	if lw.host != main.(*mainWindow) {
		t.Error("launcher host is not the registry's main window handle")
	}
}

func TestLauncherStartsHidden(t *testing.T) {
	reg := newWailsRegistry(context.Background(), true)
	w, _ := reg.Lookup(WindowLauncher)
	if w.IsVisible() {
		t.Error("launcher visible at construction; want hide-by-default")
	}
}

func TestEmptyRegistryAlwaysMisses(t *testing.T) {
	var reg Registry = emptyRegistry{}
	for _, name := range []string{WindowMain, WindowLauncher, ""} {
		if _, ok := reg.Lookup(name); ok {
			t.Errorf("emptyRegistry resolved %q", name)
		}
	}
}
