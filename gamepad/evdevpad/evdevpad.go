//go:build linux

// Package evdevpad implements the gamepad adapter on top of the Linux evdev
// interface, reading /dev/input/event* devices and watching the directory
// for hotplug.
package evdevpad

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/edaniels/golog"
	"github.com/fsnotify/fsnotify"
	evdev "github.com/holoplot/go-evdev"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/Appracatappra/gamepadkit/gamepad"
)

const inputDir = "/dev/input"

// rescanDelay coalesces the burst of fsnotify events a single hotplug
// produces into one scan.
const rescanDelay = 250 * time.Millisecond

// Adapter scans for one gamepad-capable evdev device and reports it through
// the gamepad.Adapter contract. Single-device by design; additional gamepads
// are ignored until the bound one goes away.
type Adapter struct {
	mu           sync.Mutex
	logger       golog.Logger
	connectFn    func(gamepad.Device)
	disconnectFn func(gamepad.Device)
	device       *device

	watcher *fsnotify.Watcher
	rescan  func()

	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

// NewAdapter starts watching for gamepads. The initial scan happens on the
// first Reconnect, so callers can install connection functions first.
func NewAdapter(logger golog.Logger) (gamepad.Adapter, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "cannot watch for gamepad hotplug")
	}
	if err := watcher.Add(inputDir); err != nil {
		return nil, multierr.Combine(errors.Wrapf(err, "cannot watch %s", inputDir), watcher.Close())
	}

	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	a := &Adapter{
		logger:     logger,
		watcher:    watcher,
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}
	deb := debounce.New(rescanDelay)
	a.rescan = func() { deb(a.scan) }

	a.activeBackgroundWorkers.Add(1)
	utils.PanicCapturingGo(func() {
		defer a.activeBackgroundWorkers.Done()
		for {
			select {
			case <-cancelCtx.Done():
				return
			case _, ok := <-watcher.Events:
				if !ok {
					return
				}
				a.rescan()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Errorw("gamepad hotplug watch error", "error", err)
			}
		}
	})
	return a, nil
}

// SetConnectFunc implements gamepad.Adapter.
func (a *Adapter) SetConnectFunc(fn func(gamepad.Device)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connectFn = fn
}

// SetDisconnectFunc implements gamepad.Adapter.
func (a *Adapter) SetDisconnectFunc(fn func(gamepad.Device)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disconnectFn = fn
}

// Reconnect implements gamepad.Adapter: re-announce the bound device, or
// scan for one.
func (a *Adapter) Reconnect(ctx context.Context) error {
	a.mu.Lock()
	dev, fn := a.device, a.connectFn
	a.mu.Unlock()
	if dev != nil {
		if fn != nil {
			fn(dev)
		}
		return nil
	}
	a.scan()
	return nil
}

// Close implements gamepad.Adapter.
func (a *Adapter) Close(ctx context.Context) error {
	a.cancelFunc()
	err := a.watcher.Close()
	a.mu.Lock()
	dev := a.device
	a.device = nil
	a.mu.Unlock()
	if dev != nil {
		err = multierr.Combine(err, dev.close())
	}
	a.activeBackgroundWorkers.Wait()
	return err
}

// scan looks for the first gamepad-capable event device and binds it. Also
// notices when the bound device's node has gone away.
func (a *Adapter) scan() {
	a.mu.Lock()
	bound := a.device
	a.mu.Unlock()

	if bound != nil {
		if _, err := os.Stat(bound.dev.Path()); err == nil {
			return
		}
		a.dropDevice(bound)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		a.logger.Errorw("cannot scan input devices", "error", err)
		return
	}
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "event") {
			continue
		}
		ed, err := evdev.Open(filepath.Join(inputDir, entry.Name()))
		if err != nil {
			// Usually a permission problem; other nodes may still work.
			continue
		}
		if !looksLikeGamepad(ed) {
			utils.UncheckedError(ed.Close())
			continue
		}
		a.bindDevice(ed)
		return
	}
}

func (a *Adapter) bindDevice(ed *evdev.InputDevice) {
	name, err := ed.Name()
	if err != nil {
		name = "Unknown"
	}
	dev := newDevice(a, ed, name)

	a.mu.Lock()
	if a.device != nil {
		a.mu.Unlock()
		utils.UncheckedError(ed.Close())
		return
	}
	a.device = dev
	fn := a.connectFn
	a.mu.Unlock()

	a.logger.Debugw("gamepad found", "name", name, "path", ed.Path())
	dev.startReadLoop(a.cancelCtx)
	if fn != nil {
		fn(dev)
	}
}

// dropDevice tears a vanished device down and notifies, then rescans in case
// another controller is attached.
func (a *Adapter) dropDevice(dev *device) {
	a.mu.Lock()
	if a.device != dev {
		a.mu.Unlock()
		return
	}
	a.device = nil
	fn := a.disconnectFn
	a.mu.Unlock()

	utils.UncheckedError(dev.close())
	a.logger.Debugw("gamepad lost", "name", dev.name)
	if fn != nil {
		fn(dev)
	}
}

// looksLikeGamepad requires at least one stick axis pair and one known
// gamepad button.
func looksLikeGamepad(ed *evdev.InputDevice) bool {
	hasAbs, hasKey := false, false
	for _, t := range ed.CapableTypes() {
		switch t {
		case evdev.EV_ABS:
			hasAbs = true
		case evdev.EV_KEY:
			hasKey = true
		}
	}
	if !hasAbs || !hasKey {
		return false
	}
	hasStick := false
	for _, code := range ed.CapableEvents(evdev.EV_ABS) {
		if code == evdev.ABS_X || code == evdev.ABS_Y {
			hasStick = true
			break
		}
	}
	if !hasStick {
		return false
	}
	for _, code := range ed.CapableEvents(evdev.EV_KEY) {
		if _, ok := buttonControls[code]; ok {
			return true
		}
	}
	return false
}
