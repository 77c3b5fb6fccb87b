package flow

import (
	"time"

	"tempest2mqtt/pkg/weatherflowudp"

	"go.uber.org/zap"
)

// Prober checks whether any WeatherFlow device broadcasts on the local
// network. It returns (false, nil) when nothing was heard before the timeout
// and a non-nil error only for transport failures.
type Prober func(bindAddress string, timeout time.Duration, logger *zap.Logger) (bool, error)

// DefaultProber runs a transient listener for at most timeout.
func DefaultProber(bindAddress string, timeout time.Duration, logger *zap.Logger) (bool, error) {
	listener := weatherflowudp.NewListener(
		weatherflowudp.WithBindAddress(bindAddress),
		weatherflowudp.WithLogger(logger))

	found := make(chan struct{}, 1)
	release := listener.OnDeviceDiscovered(func(*weatherflowudp.Device) {
		select {
		case found <- struct{}{}:
		default:
		}
	})
	defer release()

	if err := listener.StartListening(); err != nil {
		return false, err
	}
	defer listener.StopListening()

	select {
	case <-found:
		return true, nil
	case <-time.After(timeout):
		return false, nil
	}
}
