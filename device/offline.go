package device

import (
	"io"

	"github.com/gopxl/beep/v2"
)

// Offline is a Sink without hardware. The session is granted immediately and
// the mix is pulled with Context.Stream, for rendering to files and tests.
type Offline struct {
	// Gate, when set, is returned as the ready channel instead of a closed one.
	Gate    chan struct{}
	Fail    error
	opened  bool
	running bool
}

func (o *Offline) Open(rate beep.SampleRate, src io.Reader) (<-chan struct{}, error) {
	if o.Fail != nil {
		return nil, o.Fail
	}
	o.opened = true
	if o.Gate != nil {
		return o.Gate, nil
	}
	ready := make(chan struct{})
	close(ready)
	return ready, nil
}

func (o *Offline) Resume() error {
	o.running = true
	return nil
}

func (o *Offline) Suspend() error {
	o.running = false
	return nil
}

func (o *Offline) Close() error {
	o.opened = false
	o.running = false
	return nil
}

// Running reports whether the device resumed the sink.
func (o *Offline) Running() bool {
	return o.running
}
