package weatherflowudp

import (
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
)

// EventDeviceDiscovered fires once per device serial number, when the first
// message from that device arrives.
const EventDeviceDiscovered = "device_discovered"

// DefaultBindAddress is the broadcast port WeatherFlow hubs transmit on.
const DefaultBindAddress = ":50222"

// ListenerError wraps transport failures (typically a bind conflict when
// another process already listens on the broadcast port).
type ListenerError struct {
	Err error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("weatherflowudp: listener error: %v", e.Err)
}

func (e *ListenerError) Unwrap() error { return e.Err }

// Listener owns the UDP socket and the set of discovered devices.
type Listener struct {
	addr   string
	logger *zap.Logger

	mu         sync.Mutex
	conn       *net.UDPConn
	devices    map[string]*Device
	discovered []func(*Device)
	done       chan struct{}
}

type ListenerOption func(*Listener)

func WithBindAddress(addr string) ListenerOption {
	return func(l *Listener) { l.addr = addr }
}

func WithLogger(logger *zap.Logger) ListenerOption {
	return func(l *Listener) { l.logger = logger }
}

func NewListener(opts ...ListenerOption) *Listener {
	l := &Listener{
		addr:    DefaultBindAddress,
		logger:  zap.NewNop(),
		devices: map[string]*Device{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnDeviceDiscovered registers fn and returns a release func.
func (l *Listener) OnDeviceDiscovered(fn func(*Device)) func() {
	l.mu.Lock()
	l.discovered = append(l.discovered, fn)
	idx := len(l.discovered) - 1
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.discovered[idx] = nil
		})
	}
}

// Devices returns the currently discovered devices.
func (l *Listener) Devices() []*Device {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Device, 0, len(l.devices))
	for _, d := range l.devices {
		out = append(out, d)
	}
	return out
}

// StartListening binds the broadcast port and starts the read loop. A bind
// failure is reported as *ListenerError.
func (l *Listener) StartListening() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		return nil
	}
	udpAddr, err := net.ResolveUDPAddr("udp4", l.addr)
	if err != nil {
		return &ListenerError{Err: err}
	}
	conn, err := net.ListenUDP("udp4", udpAddr)
	if err != nil {
		return &ListenerError{Err: err}
	}
	l.conn = conn
	l.done = make(chan struct{})
	go l.readLoop(conn, l.done)
	l.logger.Info("listening for weatherflow broadcasts", zap.String("addr", l.addr))
	return nil
}

// StopListening closes the socket and stops the read loop. Safe to call when
// not listening and safe to call more than once.
func (l *Listener) StopListening() {
	l.mu.Lock()
	conn := l.conn
	done := l.done
	l.conn = nil
	l.done = nil
	l.mu.Unlock()
	if conn == nil {
		return
	}
	_ = conn.Close()
	<-done
	l.logger.Info("stopped listening for weatherflow broadcasts")
}

func (l *Listener) readLoop(conn *net.UDPConn, done chan struct{}) {
	defer close(done)
	buf := make([]byte, 2048)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		l.Deliver(buf[:n])
	}
}

// Deliver processes one broadcast datagram. Exposed so alternate transports
// and tests can feed captured payloads through the same path as the socket
// read loop.
func (l *Listener) Deliver(data []byte) {
	msg, err := decodeMessage(data)
	if err != nil {
		l.logger.Debug("dropping datagram", zap.Error(err))
		return
	}
	if msg.SerialNumber == "" {
		return
	}

	l.mu.Lock()
	device, known := l.devices[msg.SerialNumber]
	if !known {
		device = newDevice(msg.SerialNumber, msg.HubSerialNumber)
		l.devices[msg.SerialNumber] = device
	}
	callbacks := append([]func(*Device){}, l.discovered...)
	l.mu.Unlock()

	if !known {
		l.logger.Debug("device discovered",
			zap.String("serial", device.SerialNumber()),
			zap.String("model", device.Model()))
		for _, fn := range callbacks {
			if fn != nil {
				fn(device)
			}
		}
	}

	switch msg.Type {
	case msgTypeObservationTempest:
		if rec := msg.observationRecord(); rec != nil {
			device.handleObservation(msg, rec)
		}
	case msgTypeRapidWind:
		device.handleRapidWind(msg)
	case msgTypeDeviceStatus, msgTypeHubStatus:
		device.handleStatus(msg)
	default:
		l.logger.Debug("unhandled message type", zap.String("type", msg.Type))
	}
}
