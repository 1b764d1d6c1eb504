//go:build darwin

package main

import "golang.design/x/hotkey"

// modMap translates combo modifier tokens to macOS modifiers.
// "alt" maps to Option, "cmd"/"super" to Command.
var modMap = map[string]hotkey.Modifier{
	"ctrl":    hotkey.ModCtrl,
	"control": hotkey.ModCtrl,
	"alt":     hotkey.ModOption,
	"option":  hotkey.ModOption,
	"shift":   hotkey.ModShift,
	"cmd":     hotkey.ModCmd,
	"command": hotkey.ModCmd,
	"super":   hotkey.ModCmd,
}
