package main

import (
	_ "embed"
	"log"

	"github.com/energye/systray"
)

//go:embed assets/icon-template.png
var iconBytes []byte

// StartSystray launches the system-tray icon in a background goroutine.
// It must be called AFTER Wails startup() fires so the native run loop is
// already running — calling it earlier causes a deadlock on macOS.
func StartSystray(app *App) {
	go systray.Run(
		func() { onSystrayReady(app) },
		func() { /* onExit — nothing to clean up */ },
	)
}

// onSystrayReady builds the menu and wires both tray event streams (menu
// clicks, icon clicks) into the dispatcher. Menu order is fixed:
// Toggle Launcher, Show / Hide, Quit.
func onSystrayReady(app *App) {
	systray.SetIcon(iconBytes)
	systray.SetTooltip("quicklaunch — click to show")

	mLauncher := systray.AddMenuItem("Toggle Launcher", "Show or hide the launcher")
	mShowHide := systray.AddMenuItem("Show / Hide", "Show or hide the main window")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit quicklaunch")

	// Left click toggles the main window; the menu only opens on right click.
	systray.SetOnClick(func(_ systray.IMenu) {
		app.Dispatch(Event{Kind: EventTrayClick, Button: MouseButtonLeft})
	})
	systray.SetOnRClick(func(menu systray.IMenu) {
		if err := menu.ShowMenu(); err != nil {
			log.Printf("tray: failed to open menu: %v", err)
		}
	})

	mLauncher.Click(func() {
		app.Dispatch(Event{Kind: EventMenuAction, Action: ActionToggleLauncher})
	})
	mShowHide.Click(func() {
		app.Dispatch(Event{Kind: EventMenuAction, Action: ActionShowHide})
	})
	mQuit.Click(func() {
		app.Dispatch(Event{Kind: EventMenuAction, Action: ActionQuit})
	})
}
