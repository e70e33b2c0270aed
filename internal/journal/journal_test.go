package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dokzlo13/stripd/internal/db"
)

func openJournal(t *testing.T) *Journal {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	return New(database.DB)
}

func TestJournal_AppendAndRecent(t *testing.T) {
	j := openJournal(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	entries := []Entry{
		{RequestID: "a", Command: "ledOn", Source: "http", Args: map[string]string{"r": "1"}, Outcome: OutcomeOK, Timestamp: base},
		{RequestID: "b", Command: "animation", Source: "lua", Outcome: OutcomeInvalid, Error: "missing argument", Timestamp: base.Add(time.Second)},
		{RequestID: "c", Command: "ledOn", Source: "http", Outcome: OutcomeOK, Timestamp: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		if err := j.Append(e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := j.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].RequestID != "c" || got[1].RequestID != "b" {
		t.Fatalf("Recent(2) = %+v", got)
	}
	if got[1].Error != "missing argument" || got[1].Source != "lua" {
		t.Errorf("entry b = %+v", got[1])
	}

	byCmd, err := j.ByCommand("ledOn", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(byCmd) != 2 {
		t.Fatalf("ByCommand() len = %d, want 2", len(byCmd))
	}
	if byCmd[1].Args["r"] != "1" {
		t.Errorf("args = %v", byCmd[1].Args)
	}
}

func TestJournal_DeleteOlderThan(t *testing.T) {
	j := openJournal(t)
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return now }

	_ = j.Append(Entry{RequestID: "old", Command: "ledOff", Outcome: OutcomeOK, Timestamp: now.Add(-72 * time.Hour)})
	_ = j.Append(Entry{RequestID: "new", Command: "ledOff", Outcome: OutcomeOK, Timestamp: now.Add(-time.Hour)})

	n, err := j.DeleteOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	rest, _ := j.Recent(10)
	if len(rest) != 1 || rest[0].RequestID != "new" {
		t.Errorf("remaining = %+v", rest)
	}
}
