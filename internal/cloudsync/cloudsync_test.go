package cloudsync

import (
	"context"
	"errors"
	"testing"
)

func TestDecide(t *testing.T) {
	p := func(earned float64, ticks int) Progress { return Progress{TotalEarned: earned, TickCount: ticks} }

	tests := []struct {
		name      string
		local     Progress
		requested Progress
		remote    *Snapshot
		want      Decision
	}{
		{"empty remote", p(10, 5), p(10, 5), nil, Upload},
		{"remote ahead", p(10, 5), p(10, 5), &Snapshot{Progress: p(50, 20)}, Adopt},
		{"local ahead", p(100, 50), p(100, 50), &Snapshot{Progress: p(50, 20)}, Upload},
		{"equal", p(10, 5), p(10, 5), &Snapshot{Progress: p(10, 5)}, KeepLocal},
		{"local advanced in flight", p(12, 6), p(10, 5), &Snapshot{Progress: p(50, 20)}, Upload},
		{"ticks break ties", p(10, 5), p(10, 5), &Snapshot{Progress: p(10, 9)}, Adopt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.local, tt.requested, tt.remote); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSyncerPushPull(t *testing.T) {
	tr := NewMemoryTransport()
	s := NewSyncer(tr, Options{Namespace: "alice"})
	defer s.Close()

	if !s.Push(Snapshot{Progress: Progress{TotalEarned: 42, TickCount: 7}, Data: []byte("blob")}) {
		t.Fatal("Push() should be accepted")
	}
	s.Wait()

	results := s.Drain()
	if len(results) != 1 || results[0].Op != OpPush || results[0].Err != nil {
		t.Fatalf("Unexpected push results: %+v", results)
	}
	if results[0].Revision != 1 {
		t.Errorf("Expected revision 1, got %d", results[0].Revision)
	}

	if !s.Pull(Progress{}) {
		t.Fatal("Pull() should be accepted")
	}
	s.Wait()

	results = s.Drain()
	if len(results) != 1 || results[0].Snapshot == nil {
		t.Fatalf("Expected a pulled snapshot, got %+v", results)
	}
	if string(results[0].Snapshot.Data) != "blob" || results[0].Snapshot.Progress.TotalEarned != 42 {
		t.Errorf("Pulled snapshot mismatch: %+v", results[0].Snapshot)
	}

	if len(s.Drain()) != 0 {
		t.Error("Drain() should be empty after results were taken")
	}
}

func TestSyncerThrottlesUploads(t *testing.T) {
	s := NewSyncer(NewMemoryTransport(), Options{UploadsPerMin: 1})
	defer s.Close()

	if !s.Push(Snapshot{}) {
		t.Fatal("First push should pass the limiter")
	}
	if s.Push(Snapshot{}) {
		t.Error("Second immediate push should be throttled")
	}
}

func TestSyncerClosedRejects(t *testing.T) {
	s := NewSyncer(NewMemoryTransport(), Options{})
	s.Close()

	if s.Push(Snapshot{}) || s.Pull(Progress{}) {
		t.Error("Closed syncer should reject transfers")
	}
}

type failingTransport struct{}

var errOffline = errors.New("offline")

func (failingTransport) Pull(context.Context, string) (*Snapshot, error) { return nil, errOffline }
func (failingTransport) Push(context.Context, string, Snapshot) (int64, error) {
	return 0, errOffline
}

func TestSyncerReportsErrors(t *testing.T) {
	s := NewSyncer(failingTransport{}, Options{})
	defer s.Close()

	s.Pull(Progress{TickCount: 3})
	s.Wait()

	results := s.Drain()
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if !errors.Is(results[0].Err, errOffline) {
		t.Errorf("Expected offline error, got %v", results[0].Err)
	}
	if results[0].Requested.TickCount != 3 {
		t.Error("Result should carry the progress at request time")
	}
}
