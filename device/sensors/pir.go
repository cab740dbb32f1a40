package sensors

import (
	"context"
	"time"
)

// MotionSensor reports presence transitions. Events carries true when motion
// starts and false once no motion has been seen for the timeout window.
type MotionSensor interface {
	Events() <-chan bool
	Run(ctx context.Context)
}

// noMotionTimeout is how long without a trigger before motion is considered over.
const noMotionTimeout = 5 * time.Second

// PIRSensor debounces a raw trigger probe into edge events. The probe reads
// the GPIO pin on real hardware; tests and off-device builds inject their own.
type PIRSensor struct {
	probe  func() bool
	events chan bool
}

func NewPIRSensor(probe func() bool) *PIRSensor {
	if probe == nil {
		probe = func() bool { return false }
	}
	return &PIRSensor{probe: probe, events: make(chan bool, 4)}
}

func (s *PIRSensor) Events() <-chan bool {
	return s.events
}

// Run polls the probe until ctx is cancelled, emitting one event per edge.
func (s *PIRSensor) Run(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	lastMotion := time.Now()
	active := false
	for {
		select {
		case <-ctx.Done():
			close(s.events)
			return
		case <-ticker.C:
		}

		if s.probe() {
			lastMotion = time.Now()
			if !active {
				active = true
				s.emit(true)
			}
			continue
		}
		if active && time.Since(lastMotion) > noMotionTimeout {
			active = false
			s.emit(false)
		}
	}
}

func (s *PIRSensor) emit(motion bool) {
	select {
	case s.events <- motion:
	default:
	}
}
