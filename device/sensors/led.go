package sensors

import "partysense/infrastructure/logger"

// LEDRing is the light output capability. The real rig drives a WS281x strip;
// off-device builds use the logging implementation.
type LEDRing interface {
	SetMode(mode string)
	TurnOff()
}

// LogLEDRing logs mode changes instead of driving hardware.
type LogLEDRing struct{}

func NewLogLEDRing() LEDRing {
	return &LogLEDRing{}
}

func (l *LogLEDRing) SetMode(mode string) {
	logger.GetLogger().WithField("mode", mode).Info("LED ring mode changed")
}

func (l *LogLEDRing) TurnOff() {
	logger.GetLogger().Info("LED ring turned off")
}
