//go:build linux

package main

import "golang.design/x/hotkey"

// modMap translates combo modifier tokens to X11 modifiers.
// Mod1 is Alt, Mod4 is Super on stock keymaps.
var modMap = map[string]hotkey.Modifier{
	"ctrl":    hotkey.ModCtrl,
	"control": hotkey.ModCtrl,
	"alt":     hotkey.Mod1,
	"option":  hotkey.Mod1,
	"shift":   hotkey.ModShift,
	"super":   hotkey.Mod4,
	"win":     hotkey.Mod4,
	"cmd":     hotkey.Mod4,
}
