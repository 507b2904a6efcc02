package monitoring

import (
	"errors"
	"testing"
	"time"
)

type fakeMonitor struct {
	captured []error
	flushed  bool
}

func (f *fakeMonitor) CaptureException(err error, _ map[string]string) {
	f.captured = append(f.captured, err)
}
func (f *fakeMonitor) Recover() {}

func (f *fakeMonitor) Flush(time.Duration) { f.flushed = true }

func TestInitRoutesToMonitor(t *testing.T) {
	defer Init(NopMonitor{})

	fake := &fakeMonitor{}
	Init(fake)

	boom := errors.New("boom")
	CaptureException(boom, map[string]string{"phase": "test"})
	Flush(time.Second)

	if len(fake.captured) != 1 || !errors.Is(fake.captured[0], boom) {
		t.Fatalf("captured = %v", fake.captured)
	}
	if !fake.flushed {
		t.Fatal("flush not forwarded")
	}
}

func TestInitIgnoresNil(t *testing.T) {
	defer Init(NopMonitor{})
	fake := &fakeMonitor{}
	Init(fake)
	Init(nil)
	CaptureException(errors.New("x"), nil)
	if len(fake.captured) != 1 {
		t.Fatal("nil Init replaced the monitor")
	}
}
