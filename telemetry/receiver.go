package telemetry

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"movingmap/log"
)

// Receiver owns the UDP socket the simulator sends DATA* packets to and
// publishes the latest decoded snapshot. The render loop polls Latest once
// per frame; the map engine itself stays single-threaded.
type Receiver struct {
	conn *net.UDPConn
	log  *log.Logger

	mu   sync.RWMutex
	snap Snapshot
}

// Listen binds the UDP port. Run must be called (normally on its own
// goroutine) to start receiving.
func Listen(port int, lg *log.Logger) (*Receiver, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, fmt.Errorf("telemetry listen: %w", err)
	}
	lg.Info("telemetry listening", "port", port)
	return &Receiver{conn: conn, log: lg}, nil
}

// Run receives and decodes packets until Close, calling notify after each
// accepted packet so the host can schedule a redraw. notify may be nil.
func (r *Receiver) Run(notify func()) {
	buf := make([]byte, 2048)
	for {
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				r.log.Error("telemetry read", "err", err)
			}
			return
		}

		r.mu.RLock()
		prev := r.snap
		r.mu.RUnlock()

		snap, err := Decode(prev, buf[:n])
		if err != nil {
			r.log.Debug("telemetry packet dropped", "err", err, "bytes", n)
			continue
		}

		r.mu.Lock()
		r.snap = snap
		r.mu.Unlock()

		if notify != nil {
			notify()
		}
	}
}

// Latest returns the most recent snapshot and whether a position fix has
// been received yet.
func (r *Receiver) Latest() (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap, r.snap.HasFix
}

// Close shuts the socket down, ending Run.
func (r *Receiver) Close() error {
	return r.conn.Close()
}
