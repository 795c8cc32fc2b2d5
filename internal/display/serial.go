package display

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.bug.st/serial"
)

// Status is what the display shows on each tick.
type Status struct {
	Name     string
	Version  string
	Hostname string
	Uptime   string
}

type opener func(name string, mode *serial.Mode) (io.WriteCloser, error)

// Serial pushes a short status block to a device on a serial port,
// e.g. a small OLED driven by a microcontroller.
type Serial struct {
	mu sync.Mutex

	portName string
	baud     int
	log      zerolog.Logger

	open opener
	port io.WriteCloser
	last string // last committed payload (normalized)
}

// NewSerial creates the display. portName is something like /dev/ttyUSB0.
func NewSerial(portName string, baud int, log zerolog.Logger) *Serial {
	if baud <= 0 {
		baud = 115200
	}
	return &Serial{
		portName: portName,
		baud:     baud,
		log:      log,
		open:     openPort,
	}
}

func openPort(name string, mode *serial.Mode) (io.WriteCloser, error) {
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Start renders status() every interval until ctx is done, then closes the port.
func (s *Serial) Start(ctx context.Context, status func(ctx context.Context) Status, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	s.update(FormatStatus(status(ctx)))
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-t.C:
			s.update(FormatStatus(status(ctx)))
		}
	}
}

func (s *Serial) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropPort()
}

func (s *Serial) update(payload string) {
	if !s.shouldSend(payload) {
		return
	}
	if err := s.send(payload); err != nil {
		s.log.Warn().Err(err).Str("port", s.portName).Msg("status display: send failed")
		s.mu.Lock()
		s.dropPort()
		// resend on the next tick once the port is back
		s.last = ""
		s.mu.Unlock()
	}
}

func (s *Serial) shouldSend(payload string) bool {
	n := normalizePayload(payload)
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == s.last {
		return false
	}
	s.last = n
	return true
}

func (s *Serial) send(payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		p, err := s.open(s.portName, &serial.Mode{BaudRate: s.baud})
		if err != nil {
			return err
		}
		s.port = p
	}

	_, err := s.port.Write([]byte(payload))
	return err
}

// dropPort expects s.mu held.
func (s *Serial) dropPort() {
	if s.port != nil {
		_ = s.port.Close()
		s.port = nil
	}
}

func normalizePayload(p string) string {
	p = strings.ReplaceAll(p, "\r\n", "\n")
	p = strings.TrimSpace(p)
	return strings.Join(strings.Fields(p), " ")
}

// FormatStatus renders the display lines. A blank line commits the frame.
func FormatStatus(st Status) string {
	var b bytes.Buffer
	line := func(label, v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteByte('\n')
	}

	line("SVC", strings.TrimSpace(st.Name+" "+st.Version))
	line("HOST", st.Hostname)
	line("UP", st.Uptime)
	b.WriteByte('\n')
	return b.String()
}
