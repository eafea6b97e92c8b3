// Package session owns the camera-bound capture lifecycle. A session
// moves idle → starting → scanning → stopping → idle and is reusable
// for the life of the process; the camera device is opened only on the
// starting→scanning edge and closed only while stopping, so the device
// can never be left open with the session idle.
package session

import (
	"sync"
	"sync/atomic"

	"github.com/example/partscan/internal/camera"
	"github.com/example/partscan/internal/errors"
)

// Status is the capture session state.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusStarting Status = "starting"
	StatusScanning Status = "scanning"
	StatusStopping Status = "stopping"
)

// DecodeEvent is one successful frame decode, delivered in camera order.
type DecodeEvent struct {
	DeviceID string
	Text     string
}

// eventBuffer bounds the decode queue. The camera is a lossy source;
// when the consumer lags, excess frames are dropped, never reordered.
const eventBuffer = 16

// boundState is the externally observable (status, device) pair. It is
// published atomically so camera callbacks can read it without taking
// the transition mutex — a callback may fire while a transition holds
// that mutex and waits on the camera.
type boundState struct {
	status   Status
	deviceID string
}

// Session is the capture state machine. All transitions are serialized
// by one mutex, so a Stop issued while a Start is still opening the
// device waits for the open to resolve instead of racing it.
type Session struct {
	mu     sync.Mutex
	cam    camera.Camera
	params camera.OpenParams
	state  atomic.Value // boundState
	events chan DecodeEvent
}

// New creates an idle session over the given camera capability.
func New(cam camera.Camera, params camera.OpenParams) *Session {
	s := &Session{
		cam:    cam,
		params: params,
		events: make(chan DecodeEvent, eventBuffer),
	}
	s.state.Store(boundState{status: StatusIdle})
	return s
}

// Events is the decode event stream. The channel is never closed; the
// session outlives any one scan.
func (s *Session) Events() <-chan DecodeEvent {
	return s.events
}

// Status returns the current state.
func (s *Session) Status() Status {
	return s.state.Load().(boundState).status
}

// DeviceID returns the bound device id; ok is false when idle.
func (s *Session) DeviceID() (id string, ok bool) {
	st := s.state.Load().(boundState)
	return st.deviceID, st.deviceID != ""
}

// Start opens a device and begins scanning. An empty deviceID selects
// the first enumerated device. Starting an already-active session is a
// no-op: the bound device stays open and no second handle is created.
func (s *Session) Start(deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(deviceID)
}

// Stop closes the device and returns the session to idle. Stopping an
// idle session is a no-op.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

// SwitchDevice stops the current scan and restarts on nextID, as one
// operation: no caller can observe the intermediate idle state. With
// fewer than two enumerated devices the switch is rejected up front and
// nothing changes.
func (s *Session) SwitchDevice(nextID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	devices, err := s.cam.Enumerate()
	if err != nil {
		return errors.NewInternal(err)
	}
	if len(devices) < 2 {
		return errors.NewNoAlternateDevice()
	}

	if err := s.stopLocked(); err != nil {
		return err
	}
	return s.startLocked(nextID)
}

// CycleDevice switches to the next device in enumeration order,
// wrapping to the first after the last. An unbound session cycles to
// the first device.
func (s *Session) CycleDevice() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	devices, err := s.cam.Enumerate()
	if err != nil {
		return errors.NewInternal(err)
	}
	if len(devices) < 2 {
		return errors.NewNoAlternateDevice()
	}

	bound := s.state.Load().(boundState).deviceID
	current := -1
	for i, d := range devices {
		if d.ID == bound {
			current = i
			break
		}
	}
	next := devices[(current+1)%len(devices)].ID

	if err := s.stopLocked(); err != nil {
		return err
	}
	return s.startLocked(next)
}

// startLocked performs the idle → starting → scanning transition.
// Caller holds s.mu.
func (s *Session) startLocked(deviceID string) error {
	if s.state.Load().(boundState).status != StatusIdle {
		return nil
	}

	if deviceID == "" {
		devices, err := s.cam.Enumerate()
		if err != nil {
			return errors.NewInternal(err)
		}
		if len(devices) == 0 {
			// No transition happened; the session is still idle.
			return errors.NewNoDeviceAvailable()
		}
		deviceID = devices[0].ID
	}

	s.state.Store(boundState{status: StatusStarting, deviceID: deviceID})

	if err := s.cam.Open(deviceID, s.params, s.onDecode, s.onMiss); err != nil {
		s.state.Store(boundState{status: StatusIdle})
		return errors.NewDeviceOpenFailed(deviceID, err)
	}

	s.state.Store(boundState{status: StatusScanning, deviceID: deviceID})
	return nil
}

// stopLocked performs the {starting,scanning} → stopping → idle
// transition. Caller holds s.mu.
func (s *Session) stopLocked() error {
	st := s.state.Load().(boundState)
	if st.status == StatusIdle {
		return nil
	}

	s.state.Store(boundState{status: StatusStopping, deviceID: st.deviceID})
	closeErr := s.cam.Close()

	// The session returns to idle even if the close reported an error;
	// the device handle is released either way.
	s.state.Store(boundState{status: StatusIdle})

	if closeErr != nil {
		return errors.NewInternal(closeErr)
	}
	return nil
}

// onDecode forwards a successful decode as an event. Frames arriving
// while the session is not scanning (e.g. during teardown) are dropped,
// as are frames past the buffer when the consumer lags.
func (s *Session) onDecode(text string) {
	st := s.state.Load().(boundState)
	if st.status != StatusScanning {
		return
	}

	select {
	case s.events <- DecodeEvent{DeviceID: st.deviceID, Text: text}:
	default:
	}
}

// onMiss absorbs per-frame decode noise. A frame with no readable code
// is the expected steady state and never surfaces anywhere.
func (s *Session) onMiss(error) {}
