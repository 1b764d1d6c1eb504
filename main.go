package main

import (
	"embed"
	"log"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfgSvc := NewConfigService()
	cfg := cfgSvc.Load()

	app := NewApp()
	app.SetConfigService(cfgSvc)
	app.SetHotkeyService(NewHotkeyService())

	// Raise the tray icon once the native run loop exists — starting it
	// before Wails startup() fires deadlocks on macOS.
	go func() {
		app.waitForStartup()
		StartSystray(app)
	}()

	// Application menu — shortcuts while the window is focused. The global
	// hotkey and the tray menu cover the unfocused case.
	appMenu := menu.NewMenu()
	fileMenu := appMenu.AddSubmenu("quicklaunch")
	fileMenu.AddText("Toggle Launcher", keys.CmdOrCtrl("l"), func(_ *menu.CallbackData) {
		app.ToggleLauncher()
	})
	fileMenu.AddText("Show / Hide", keys.CmdOrCtrl(","), func(_ *menu.CallbackData) {
		app.ToggleMainWindow()
	})
	fileMenu.AddSeparator()
	fileMenu.AddText("Quit", keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
		app.Quit()
	})

	err := wails.Run(&options.App{
		Title:  "quicklaunch",
		Width:  480,
		Height: 600,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup:     app.startup,
		OnBeforeClose: app.beforeClose, // close button hides, doesn't quit
		Bind:          []interface{}{app},
		Mac: &mac.Options{
			TitleBar: mac.TitleBarHiddenInset(),
			About: &mac.AboutInfo{
				Title:   "quicklaunch",
				Message: "A tray-resident launcher shell.",
			},
		},
		StartHidden: !cfg.ShowMainOnStart, // tray icon and hotkey reveal it
		Menu:        appMenu,
	})

	if err != nil {
		log.Fatalf("fatal: wails.Run failed: %v", err)
	}
}
