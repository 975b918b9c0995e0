package connectivity_test

import (
	"testing"
	"time"

	"github.com/hearth-home/hearth-core/internal/connectivity"
)

// fakeClock advances only when told to.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestGuard(cooldown time.Duration) (*connectivity.Guard, *fakeClock, *int) {
	g := connectivity.NewGuard(cooldown)
	clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	g.SetClock(clock.now)

	notifications := 0
	g.OnDegraded(func(string, int) { notifications++ })
	return g, clock, &notifications
}

func TestGuard_FirstFailureNotifiesOnce(t *testing.T) {
	g, _, n := newTestGuard(5 * time.Minute)

	g.ReportFailure("timeout")
	if *n != 1 {
		t.Fatalf("notifications = %d after first failure, want 1", *n)
	}
	if g.Status() != connectivity.StatusDegraded {
		t.Errorf("Status() = %s, want degraded", g.Status())
	}

	// Further failures within cooldown stay silent.
	g.ReportFailure("timeout")
	g.ReportFailure("refused")
	if *n != 1 {
		t.Errorf("notifications = %d after repeated failures, want 1", *n)
	}
	if g.Streak() != 3 {
		t.Errorf("Streak() = %d, want 3", g.Streak())
	}
}

func TestGuard_CooldownReArmsNotification(t *testing.T) {
	g, clock, n := newTestGuard(5 * time.Minute)

	g.ReportFailure("timeout")
	clock.advance(4 * time.Minute)
	g.ReportFailure("timeout")
	if *n != 1 {
		t.Fatalf("notifications = %d before cooldown elapsed, want 1", *n)
	}

	clock.advance(time.Minute) // 5 minutes since the alert
	g.ReportFailure("timeout")
	if *n != 2 {
		t.Errorf("notifications = %d after cooldown elapsed, want 2", *n)
	}

	// And the window restarts from the second alert.
	clock.advance(time.Minute)
	g.ReportFailure("timeout")
	if *n != 2 {
		t.Errorf("notifications = %d inside restarted window, want 2", *n)
	}
}

func TestGuard_SuccessResetsImmediately(t *testing.T) {
	g, _, n := newTestGuard(5 * time.Minute)

	g.ReportFailure("timeout")
	g.ReportSuccess()

	if g.Status() != connectivity.StatusHealthy {
		t.Errorf("Status() = %s after success, want healthy", g.Status())
	}
	if g.Streak() != 0 {
		t.Errorf("Streak() = %d after success, want 0", g.Streak())
	}

	// A fresh failure after recovery notifies again with no cooldown wait.
	g.ReportFailure("timeout")
	if *n != 2 {
		t.Errorf("notifications = %d after recovery and new failure, want 2", *n)
	}
}

func TestGuard_SuccessWhileHealthyIsNoop(t *testing.T) {
	g, _, n := newTestGuard(5 * time.Minute)

	g.ReportSuccess()
	g.ReportSuccess()
	if g.Status() != connectivity.StatusHealthy {
		t.Errorf("Status() = %s, want healthy", g.Status())
	}
	if *n != 0 {
		t.Errorf("notifications = %d, want 0", *n)
	}
}

func TestGuard_ZeroCooldownNeverReNotifies(t *testing.T) {
	g, clock, n := newTestGuard(0)

	g.ReportFailure("timeout")
	clock.advance(24 * time.Hour)
	g.ReportFailure("timeout")

	if *n != 1 {
		t.Errorf("notifications = %d with zero cooldown, want 1", *n)
	}
}

func TestGuard_MultipleCallbacks(t *testing.T) {
	g := connectivity.NewGuard(time.Minute)

	var first, second int
	g.OnDegraded(func(string, int) { first++ })
	g.OnDegraded(func(reason string, streak int) {
		second++
		if reason != "timeout" {
			t.Errorf("reason = %q, want timeout", reason)
		}
		if streak != 1 {
			t.Errorf("streak = %d, want 1", streak)
		}
	})

	g.ReportFailure("timeout")
	if first != 1 || second != 1 {
		t.Errorf("callbacks fired %d/%d times, want 1/1", first, second)
	}
}
