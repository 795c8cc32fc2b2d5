package display

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.bug.st/serial"
)

type fakePort struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	writes   int
	closed   bool
	writeErr error
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.writes++
	return p.buf.Write(b)
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePort) snapshot() (string, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.String(), p.writes, p.closed
}

func newTestSerial(port *fakePort, openErr error) (*Serial, *int) {
	s := NewSerial("/dev/null-test", 0, zerolog.Nop())
	opens := 0
	s.open = func(name string, mode *serial.Mode) (io.WriteCloser, error) {
		opens++
		if openErr != nil {
			return nil, openErr
		}
		if mode.BaudRate != 115200 {
			return nil, errors.New("unexpected baud")
		}
		return port, nil
	}
	return s, &opens
}

func TestFormatStatus(t *testing.T) {
	cases := []struct {
		name string
		in   Status
		want string
	}{
		{
			name: "full",
			in:   Status{Name: "devops-info-service", Version: "1.0.0", Hostname: "box-1", Uptime: "2 hours, 3 minutes"},
			want: "SVC: devops-info-service 1.0.0\nHOST: box-1\nUP: 2 hours, 3 minutes\n\n",
		},
		{
			name: "empty fields skipped",
			in:   Status{Name: "svc", Uptime: "0 hours, 1 minutes"},
			want: "SVC: svc\nUP: 0 hours, 1 minutes\n\n",
		},
		{
			name: "nothing",
			want: "\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatStatus(tc.in); got != tc.want {
				t.Fatalf("FormatStatus = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestUpdateSkipsDuplicates(t *testing.T) {
	port := &fakePort{}
	s, opens := newTestSerial(port, nil)

	st := Status{Name: "svc", Version: "1.0.0", Hostname: "box-1", Uptime: "0 hours, 1 minutes"}
	s.update(FormatStatus(st))
	s.update(FormatStatus(st))

	out, writes, _ := port.snapshot()
	if writes != 1 {
		t.Fatalf("writes = %d; want 1", writes)
	}
	if *opens != 1 {
		t.Fatalf("opens = %d; want 1", *opens)
	}
	if out != FormatStatus(st) {
		t.Fatalf("payload = %q", out)
	}

	st.Uptime = "0 hours, 2 minutes"
	s.update(FormatStatus(st))
	if _, writes, _ = port.snapshot(); writes != 2 {
		t.Fatalf("writes = %d; want 2 after change", writes)
	}
}

func TestUpdateRecoversFromOpenFailure(t *testing.T) {
	port := &fakePort{}
	s, opens := newTestSerial(port, errors.New("permission denied"))

	payload := FormatStatus(Status{Name: "svc"})
	s.update(payload)
	if s.port != nil {
		t.Fatalf("port should stay closed after open failure")
	}

	// device comes back
	s.open = func(name string, mode *serial.Mode) (io.WriteCloser, error) {
		*opens++
		return port, nil
	}
	s.update(payload)

	if _, writes, _ := port.snapshot(); writes != 1 {
		t.Fatalf("same payload should be resent after a failure, writes = %d", writes)
	}
	if *opens != 2 {
		t.Fatalf("opens = %d; want 2", *opens)
	}
}

func TestUpdateDropsPortOnWriteError(t *testing.T) {
	port := &fakePort{writeErr: errors.New("device unplugged")}
	s, _ := newTestSerial(port, nil)

	s.update(FormatStatus(Status{Name: "svc"}))

	if _, _, closed := port.snapshot(); !closed {
		t.Fatalf("port should be closed after write error")
	}
	if s.port != nil {
		t.Fatalf("port should be dropped after write error")
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	port := &fakePort{}
	s, _ := newTestSerial(port, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx, func(context.Context) Status { return Status{Name: "svc", Uptime: "0 hours, 0 minutes"} }, time.Hour)
		close(done)
	}()

	// the first frame is written before the first tick
	deadline := time.After(2 * time.Second)
	for {
		if _, writes, _ := port.snapshot(); writes == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("first frame never written")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Start did not return after cancel")
	}
	if _, _, closed := port.snapshot(); !closed {
		t.Fatalf("port not closed on shutdown")
	}
}
