// Package camera defines the capability contract the capture session
// drives. The engine never sees frame data; a camera implementation
// decodes frames itself and reports decoded text through callbacks.
package camera

// Device identifies one enumerable camera.
type Device struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// OpenParams carries the fixed decode settings requested on open.
type OpenParams struct {
	// FPS is the target decode frame rate.
	FPS int
	// BoxWidth and BoxHeight size the detection region in pixels.
	BoxWidth  int
	BoxHeight int
	// AspectRatio is the requested capture aspect ratio.
	AspectRatio float64
}

// Camera is the injected device capability.
//
// Open binds the device and begins delivering decode results: onDecode
// for every successfully decoded payload, onMiss for frames with no
// readable code. Open returns only after the device is confirmed open
// (or has failed to open). Close releases the currently open device and
// stops both callbacks.
type Camera interface {
	Enumerate() ([]Device, error)
	Open(deviceID string, params OpenParams, onDecode func(text string), onMiss func(err error)) error
	Close() error
}
