package scrub

// HapticHandle is an open feedback device. Impulse may only be called on a
// prepared handle and leaves it unprepared.
type HapticHandle interface {
	Prepare()
	Impulse()
	Release()
}

// HapticDevice opens a handle at the start of a gesture.
type HapticDevice interface {
	Open() HapticHandle
}

// HapticDeviceFunc adapts a function to HapticDevice.
type HapticDeviceFunc func() HapticHandle

func (f HapticDeviceFunc) Open() HapticHandle { return f() }

// feedback owns the haptic handle for the duration of one gesture.
type feedback struct {
	device   HapticDevice
	handle   HapticHandle
	prepared bool
	fired    int
}

// begin acquires and prepares a handle. It is a no-op when disabled or when a
// handle is already held.
func (f *feedback) begin(enabled bool) {
	if !enabled || f.device == nil || f.handle != nil {
		return
	}
	f.handle = f.device.Open()
	if f.handle == nil {
		return
	}
	f.prepare()
}

func (f *feedback) prepare() {
	f.handle.Prepare()
	f.prepared = true
}

// fire emits one impulse and re-arms the handle.
func (f *feedback) fire(enabled bool) {
	if !enabled || f.handle == nil {
		return
	}
	if !f.prepared {
		f.prepare()
	}
	f.handle.Impulse()
	f.prepared = false
	f.fired++
	f.prepare()
}

// end releases the handle if one is held.
func (f *feedback) end() {
	if f.handle == nil {
		return
	}
	f.handle.Release()
	f.handle = nil
	f.prepared = false
}
