package remote_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hearth-home/hearth-core/internal/remote"
	"github.com/hearth-home/hearth-core/internal/state"
)

type fakeFetcher struct {
	devices []remote.Device
	err     error
}

func (f *fakeFetcher) FetchDevices(context.Context) ([]remote.Device, error) {
	return f.devices, f.err
}

type fakeReconciler struct {
	envelopes []state.Envelope
}

func (f *fakeReconciler) Apply(env state.Envelope) (bool, error) {
	f.envelopes = append(f.envelopes, env)
	return true, nil
}

type fakeGuard struct {
	failures  int
	successes int
}

func (f *fakeGuard) ReportFailure(string) { f.failures++ }
func (f *fakeGuard) ReportSuccess()       { f.successes++ }

func TestPoller_PollAppliesEnvelopes(t *testing.T) {
	fetcher := &fakeFetcher{devices: []remote.Device{
		{DeviceID: "light_room1", Kind: "lighting", Attributes: state.Attributes{"power": true}, Timestamp: "2026-03-14T09:00:00Z"},
		{DeviceID: "mystery", Kind: "toaster"},
		{DeviceID: "lock_front", Kind: "lock", Attributes: state.Attributes{"locked": true}},
	}}
	rec := &fakeReconciler{}
	guard := &fakeGuard{}
	p := remote.NewPoller(fetcher, rec, guard, time.Minute)

	p.Poll(context.Background())

	if len(rec.envelopes) != 2 {
		t.Fatalf("reconciler saw %d envelopes, want 2 (unknown kind skipped)", len(rec.envelopes))
	}
	env := rec.envelopes[0]
	if env.Source != state.SourcePoll {
		t.Errorf("Source = %q, want poll", env.Source)
	}
	if env.Kind != state.KindLight {
		t.Errorf("Kind = %q, want light", env.Kind)
	}
	if env.ReceivedAt.Hour() != 9 {
		t.Errorf("ReceivedAt = %v, want wire timestamp", env.ReceivedAt)
	}
	if guard.successes != 1 || guard.failures != 0 {
		t.Errorf("guard saw %d/%d success/failure, want 1/0", guard.successes, guard.failures)
	}
}

func TestPoller_FetchFailureReportsToGuard(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	rec := &fakeReconciler{}
	guard := &fakeGuard{}
	p := remote.NewPoller(fetcher, rec, guard, time.Minute)

	p.Poll(context.Background())

	if guard.failures != 1 || guard.successes != 0 {
		t.Errorf("guard saw %d/%d success/failure, want 0/1", guard.successes, guard.failures)
	}
	if len(rec.envelopes) != 0 {
		t.Error("no envelopes should be applied on fetch failure")
	}
}

func TestPoller_RunPollsImmediately(t *testing.T) {
	fetcher := &fakeFetcher{devices: []remote.Device{
		{DeviceID: "light_room1", Kind: "lighting"},
	}}
	rec := &fakeReconciler{}
	p := remote.NewPoller(fetcher, rec, &fakeGuard{}, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	p.Run(ctx)

	if len(rec.envelopes) == 0 {
		t.Error("Run() must poll once before the first tick")
	}
}
