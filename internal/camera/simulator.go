package camera

import (
	"bufio"
	"errors"
	"io"
	"sync"
	"time"
)

// errNoFrame is the per-frame miss reported between scripted payloads.
// It mirrors the steady-state "no code visible" noise of a real camera.
var errNoFrame = errors.New("no code in frame")

// Simulator is a scripted Camera for demos and tests. It reads
// line-delimited payloads from a reader and delivers each line as one
// decode event while open. Blank lines are reported as decode misses.
type Simulator struct {
	mu       sync.Mutex
	devices  []Device
	feed     io.Reader
	interval time.Duration
	openErr  error
	open     bool
	stop     chan struct{}
	done     sync.WaitGroup
}

// NewSimulator creates a simulator exposing the given devices and
// feeding payload lines from feed, one every interval.
func NewSimulator(devices []Device, feed io.Reader, interval time.Duration) *Simulator {
	return &Simulator{
		devices:  devices,
		feed:     feed,
		interval: interval,
	}
}

// FailOpenWith makes every subsequent Open return err. Used to script
// device failures.
func (s *Simulator) FailOpenWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openErr = err
}

// Enumerate returns the scripted device list.
func (s *Simulator) Enumerate() ([]Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Device, len(s.devices))
	copy(out, s.devices)
	return out, nil
}

// Open starts delivering feed lines through onDecode. A second Open
// without an intervening Close fails: the capability holds one device.
func (s *Simulator) Open(deviceID string, _ OpenParams, onDecode func(string), onMiss func(error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openErr != nil {
		return s.openErr
	}
	if s.open {
		return errors.New("device already open")
	}

	known := false
	for _, d := range s.devices {
		if d.ID == deviceID {
			known = true
			break
		}
	}
	if !known {
		return errors.New("unknown device: " + deviceID)
	}

	s.open = true
	s.stop = make(chan struct{})
	stop := s.stop

	s.done.Add(1)
	go func() {
		defer s.done.Done()
		scanner := bufio.NewScanner(s.feed)
		for scanner.Scan() {
			select {
			case <-stop:
				return
			case <-time.After(s.interval):
			}
			line := scanner.Text()
			if line == "" {
				onMiss(errNoFrame)
				continue
			}
			onDecode(line)
		}
	}()

	return nil
}

// Close releases the simulated device and stops the feed goroutine.
func (s *Simulator) Close() error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return nil
	}
	close(s.stop)
	s.open = false
	s.mu.Unlock()

	s.done.Wait()
	return nil
}

// IsOpen reports whether a device is currently held open.
func (s *Simulator) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}
