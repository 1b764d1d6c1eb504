package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.design/x/hotkey"
)

// defaultCombo is the launcher toggle shortcut registered at startup.
const defaultCombo = "ctrl+alt+a"

// ErrHotkeyConflict is returned when the hotkey is already registered by another app.
var ErrHotkeyConflict = errors.New("hotkey: key combination already registered by another application")

// ErrHotkeyInvalid is returned when the hotkey string cannot be parsed.
var ErrHotkeyInvalid = errors.New("hotkey: invalid key combination")

// hotkeyBackend abstracts the real hotkey implementation so tests can use a mock.
type hotkeyBackend interface {
	Register() error
	Unregister() error
	Keydown() <-chan struct{}
}

// realHotkeyBackend wraps golang.design/x/hotkey for production use.
// The hotkey.Hotkey is created lazily in Register() to avoid spawning CGo
// goroutines at construction time — which would leak into unit tests.
type realHotkeyBackend struct {
	hk        *hotkey.Hotkey
	mods      []hotkey.Modifier
	key       hotkey.Key
	keyCh     chan struct{} // buffered relay; filled once in Register()
	closeOnce sync.Once     // guards close(keyCh) to prevent double-close panic
}

func newRealBackend(combo string) (*realHotkeyBackend, error) {
	mods, key, err := parseHotkey(combo)
	if err != nil {
		return nil, err
	}
	return &realHotkeyBackend{mods: mods, key: key}, nil
}

func (r *realHotkeyBackend) Register() error {
	r.hk = hotkey.New(r.mods, r.key)
	if err := r.hk.Register(); err != nil {
		// Clean up any CGo/OS-level state created by hotkey.New() to prevent
		// goroutine leaks and panics when the abandoned object is GC'd.
		_ = r.hk.Unregister()
		r.hk = nil
		return ErrHotkeyConflict
	}
	// Relay Keydown through a buffered channel. Only presses are delivered —
	// hotkey.Keydown() never fires on release.
	r.keyCh = make(chan struct{}, 4)
	src := r.hk.Keydown()
	go func() {
		for range src {
			select {
			case r.keyCh <- struct{}{}:
			default: // drop if buffer full (rapid presses)
			}
		}
		r.closeOnce.Do(func() { close(r.keyCh) })
	}()
	return nil
}

func (r *realHotkeyBackend) Unregister() error {
	if r.hk == nil {
		return nil
	}
	return r.hk.Unregister()
}

// Keydown returns the relay channel. No goroutine spawned here.
func (r *realHotkeyBackend) Keydown() <-chan struct{} {
	return r.keyCh
}

// HotkeyService manages the single global hotkey binding. At most one
// binding exists at a time; rebinding registers the new combo before the
// old one is released.
type HotkeyService struct {
	mu           sync.Mutex
	backend      hotkeyBackend
	combo        string // active combo string e.g. "ctrl+alt+a"
	registered   atomic.Bool
	shuttingDown atomic.Bool        // set during app quit; defers skip CGo Unregister
	doneCh       chan struct{}      // closed when the active listen goroutine exits
	parentCtx    context.Context    // root context from Start() — used by Reregister
	cancel       context.CancelFunc // cancels the listen goroutine
	onTrigger    func()
	newBackend   func(string) (hotkeyBackend, error) // factory for new backends
}

// NewHotkeyService creates a HotkeyService backed by the real OS hotkey API.
func NewHotkeyService() *HotkeyService {
	return &HotkeyService{
		combo: defaultCombo,
		newBackend: func(c string) (hotkeyBackend, error) {
			return newRealBackend(c)
		},
	}
}

// newHotkeyServiceWithBackend creates a HotkeyService with a custom backend (for tests).
func newHotkeyServiceWithBackend(b hotkeyBackend) *HotkeyService {
	return &HotkeyService{
		backend: b,
		combo:   defaultCombo,
		newBackend: func(c string) (hotkeyBackend, error) {
			if _, _, err := parseHotkey(c); err != nil {
				return nil, err
			}
			return b, nil
		},
	}
}

// Start registers the hotkey and launches a listener goroutine that calls
// onTrigger on each press. The goroutine exits when ctx is cancelled.
// Registration happens exactly once, synchronously; ErrHotkeyConflict means
// the key is taken by another app and the caller should carry on without it.
func (s *HotkeyService) Start(ctx context.Context, combo string, onTrigger func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if combo == "" {
		combo = s.combo
	}
	if s.backend == nil || combo != s.combo {
		b, err := s.newBackend(combo)
		if err != nil {
			return err
		}
		s.backend = b
		s.combo = combo
	}

	if err := s.backend.Register(); err != nil {
		return err
	}
	s.registered.Store(true)
	s.onTrigger = onTrigger
	s.parentCtx = ctx // saved so Reregister can inherit the right parent
	log.Printf("hotkey: %s registered", s.combo)

	s.listenLocked(ctx, s.backend, s.combo, onTrigger)
	return nil
}

// listenLocked spawns the listener goroutine for backend. Caller holds s.mu.
// Each listener gets a fresh doneCh stored under the lock so Reregister()
// and Stop() always wait on the latest goroutine.
func (s *HotkeyService) listenLocked(parent context.Context, backend hotkeyBackend, combo string, onTrigger func()) {
	listenCtx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	doneCh := make(chan struct{})
	s.doneCh = doneCh
	keydown := backend.Keydown()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("hotkey: recovered panic during listener cleanup (CGo/shutdown race): %v", r)
			}
			// Skip the CGo call during app shutdown — the OS cleans up the
			// event monitor itself.
			if !s.shuttingDown.Load() {
				backend.Unregister() //nolint:errcheck
			}
			// After Reregister the new binding is live; only the latest
			// listener (identified by its doneCh) clears the flag.
			s.mu.Lock()
			if s.doneCh == doneCh {
				s.registered.Store(false)
			}
			s.mu.Unlock()
			log.Printf("hotkey: %s unregistered", combo)
			close(doneCh)
		}()
		for {
			select {
			case <-listenCtx.Done():
				return
			case _, ok := <-keydown:
				if !ok {
					return
				}
				log.Printf("hotkey: %s triggered", combo)
				if onTrigger != nil {
					onTrigger()
				}
			}
		}
	}()
}

// Reregister swaps to a new hotkey combo at runtime without restarting the app.
// Returns ErrHotkeyConflict if the new combo is taken, ErrHotkeyInvalid if
// unparseable. On any error the original binding stays registered.
func (s *HotkeyService) Reregister(newCombo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if newCombo == s.combo {
		return nil
	}
	newBackend, err := s.newBackend(newCombo)
	if err != nil {
		return err
	}
	// Register the new key before unregistering the old one — "at most one
	// binding" is preserved because the old listener's cleanup releases it.
	if err := newBackend.Register(); err != nil {
		return err // conflict — old hotkey still live
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Printf("hotkey: re-registered %s → %s", s.combo, newCombo)

	s.backend = newBackend
	s.combo = newCombo
	s.registered.Store(true)

	// Inherit the parent from Start so the listener dies with the app,
	// not with a context nobody cancels.
	parent := s.parentCtx
	if parent == nil {
		parent = context.Background()
	}
	s.listenLocked(parent, newBackend, newCombo, s.onTrigger)
	return nil
}

// Stop signals that the app is shutting down.
// It explicitly calls backend.Unregister() BEFORE cancelling the goroutine
// context, so the OS-level callback is removed while the native event loop
// is still alive. It then waits up to 200ms for the listener to exit so no
// CGo callbacks are in-flight when the host runtime tears down.
func (s *HotkeyService) Stop() {
	s.shuttingDown.Store(true)

	s.mu.Lock()
	backend := s.backend
	doneCh := s.doneCh
	if s.cancel != nil {
		s.cancel() // unblocks the listener's select
	}
	s.mu.Unlock()

	if backend != nil {
		if err := backend.Unregister(); err != nil {
			log.Printf("hotkey: Unregister in Stop() returned: %v", err)
		}
	}

	if doneCh != nil {
		select {
		case <-doneCh:
			// clean exit
		case <-time.After(200 * time.Millisecond):
			log.Printf("hotkey: Stop() timed out waiting for listener to exit")
		}
	}
}

// IsRegistered reports whether the hotkey is currently registered.
func (s *HotkeyService) IsRegistered() bool {
	return s.registered.Load()
}

// Combo returns the currently active hotkey combo string.
func (s *HotkeyService) Combo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.combo
}

// ── parseHotkey ──────────────────────────────────────────────────────────────
// Parses a combo string like "ctrl+alt+a", "ctrl+shift+space" into
// golang.design/x/hotkey modifiers + key. Modifier tokens are resolved
// through the per-OS modMap (hotkey_mods_*.go).

var keyMap = map[string]hotkey.Key{
	"space":  hotkey.KeySpace,
	"tab":    hotkey.KeyTab,
	"return": hotkey.KeyReturn,
	"enter":  hotkey.KeyReturn,
	"a":      hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}

// parseHotkey parses a combo string into hotkey modifiers and key.
func parseHotkey(combo string) ([]hotkey.Modifier, hotkey.Key, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+")
	if len(parts) < 2 {
		return nil, 0, fmt.Errorf("%w: %q (need at least one modifier)", ErrHotkeyInvalid, combo)
	}
	keyPart := parts[len(parts)-1]
	modParts := parts[:len(parts)-1]

	key, ok := keyMap[keyPart]
	if !ok {
		return nil, 0, fmt.Errorf("%w: unknown key %q", ErrHotkeyInvalid, keyPart)
	}

	var mods []hotkey.Modifier
	seen := map[string]bool{}
	for _, m := range modParts {
		if seen[m] {
			continue
		}
		seen[m] = true
		mod, ok := modMap[m]
		if !ok {
			return nil, 0, fmt.Errorf("%w: unknown modifier %q", ErrHotkeyInvalid, m)
		}
		mods = append(mods, mod)
	}
	if len(mods) == 0 {
		return nil, 0, fmt.Errorf("%w: no valid modifier in %q", ErrHotkeyInvalid, combo)
	}
	return mods, key, nil
}
