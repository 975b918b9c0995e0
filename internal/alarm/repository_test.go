package alarm_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hearth-home/hearth-core/internal/alarm"
	"github.com/hearth-home/hearth-core/internal/infrastructure/database"
)

func openTestRepo(t *testing.T) *alarm.SQLiteRepository {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo, err := alarm.NewSQLiteRepository(context.Background(), db.DB)
	if err != nil {
		t.Fatalf("creating repository: %v", err)
	}
	return repo
}

func TestSQLiteRepository_SaveAndRecent(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	smoke := 4.2
	events := []alarm.Event{
		{AlarmID: "alarm_hall", EventType: alarm.EventInit, Timestamp: ts(0)},
		{AlarmID: "alarm_hall", EventType: alarm.EventTriggered, Detail: "smoke detected", SmokeLevel: &smoke, Timestamp: ts(5)},
		{AlarmID: "alarm_kitchen", EventType: alarm.EventInit, Timestamp: ts(1)},
	}
	for _, ev := range events {
		if err := repo.Save(ctx, ev); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := repo.Recent(ctx, "alarm_hall", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent() returned %d events, want 2", len(got))
	}
	if got[0].EventType != alarm.EventTriggered {
		t.Errorf("Recent()[0] = %s, want newest first", got[0].EventType)
	}
	if got[0].SmokeLevel == nil || *got[0].SmokeLevel != 4.2 {
		t.Errorf("SmokeLevel = %v, want 4.2", got[0].SmokeLevel)
	}
	if got[0].Detail != "smoke detected" {
		t.Errorf("Detail = %q, want %q", got[0].Detail, "smoke detected")
	}
	if got[1].SmokeLevel != nil {
		t.Errorf("SmokeLevel = %v for INIT event, want nil", got[1].SmokeLevel)
	}
	if !got[0].Timestamp.Equal(ts(5)) {
		t.Errorf("Timestamp = %v, want %v", got[0].Timestamp, ts(5))
	}
}

func TestSQLiteRepository_DuplicateIgnored(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	ev := alarm.Event{AlarmID: "alarm_hall", EventType: alarm.EventTriggered, Timestamp: ts(5)}

	if err := repo.Save(ctx, ev); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := repo.Save(ctx, ev); err != nil {
		t.Fatalf("duplicate Save() error = %v, want nil", err)
	}

	got, err := repo.Recent(ctx, "alarm_hall", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Recent() returned %d events after duplicate save, want 1", len(got))
	}
}

func TestSQLiteRepository_Restore(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Save(ctx, alarm.Event{
			AlarmID:   "alarm_hall",
			EventType: alarm.EventTestStarted,
			Timestamp: ts(i),
		}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	l := alarm.NewLog()
	if err := repo.Restore(ctx, l); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if l.Count("alarm_hall") != 3 {
		t.Errorf("restored %d events, want 3", l.Count("alarm_hall"))
	}
	latest, ok := l.Latest("alarm_hall")
	if !ok || !latest.Timestamp.Equal(ts(2)) {
		t.Errorf("Latest() = %v/%v, want newest restored event", latest.Timestamp, ok)
	}
}

func TestSQLiteRepository_SaveMissingAlarmID(t *testing.T) {
	repo := openTestRepo(t)

	err := repo.Save(context.Background(), alarm.Event{EventType: alarm.EventInit, Timestamp: time.Now()})
	if err == nil {
		t.Fatal("Save() should reject events without alarm_id")
	}
}
