//go:build windows

package main

import "golang.design/x/hotkey"

// modMap translates combo modifier tokens to Windows modifiers.
var modMap = map[string]hotkey.Modifier{
	"ctrl":    hotkey.ModCtrl,
	"control": hotkey.ModCtrl,
	"alt":     hotkey.ModAlt,
	"option":  hotkey.ModAlt,
	"shift":   hotkey.ModShift,
	"win":     hotkey.ModWin,
	"super":   hotkey.ModWin,
	"cmd":     hotkey.ModWin,
}
