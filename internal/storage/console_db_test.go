package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/nirarg/esxi-console/internal/console"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *ConsoleDB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying database: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	store, err := NewConsoleDB(db, log)
	if err != nil {
		t.Fatalf("NewConsoleDB() error = %v", err)
	}
	return store
}

func TestPreferences(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()

	pref, err := store.GetPreference(ctx, console.ViewVMs)
	if err != nil || pref != nil {
		t.Fatalf("GetPreference() on empty db = %v, %v", pref, err)
	}

	if err := store.SavePreference(ctx, ViewPreference{View: console.ViewVMs, RefreshMinutes: 30, PageSize: 20}); err != nil {
		t.Fatalf("SavePreference() error = %v", err)
	}
	// zero page size keeps the stored one
	if err := store.SavePreference(ctx, ViewPreference{View: console.ViewVMs, RefreshMinutes: 60}); err != nil {
		t.Fatalf("SavePreference() error = %v", err)
	}

	pref, err = store.GetPreference(ctx, console.ViewVMs)
	if err != nil {
		t.Fatalf("GetPreference() error = %v", err)
	}
	if pref.RefreshMinutes != 60 || pref.PageSize != 20 {
		t.Fatalf("preference = %+v", pref)
	}

	var count int64
	store.db.Model(&ViewPreference{}).Count(&count)
	if count != 1 {
		t.Fatalf("preference rows = %d, want 1", count)
	}
}

func TestJournalClosed(t *testing.T) {
	store := newTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	j := NewJournal(store, log)

	j.ActionSubmitted(console.Submission{View: console.ViewVMs, Action: "power", Target: "vm-1", At: time.Now()})
	j.Close()
	j.Close()
	j.ActionSubmitted(console.Submission{View: console.ViewVMs, Action: "power", Target: "vm-2", At: time.Now()})

	all, err := store.ListSubmissions(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("ListSubmissions() error = %v", err)
	}
	if len(all) != 1 || all[0].Target != "vm-1" {
		t.Fatalf("journal = %+v, want only the record queued before Close", all)
	}
}

func TestJournal(t *testing.T) {
	store := newTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	j := NewJournal(store, log)

	base := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	j.ActionSubmitted(console.Submission{View: console.ViewVMs, Action: "power", Target: "vm-1", TaskID: "t1", Message: "submitted", At: base})
	j.ActionSubmitted(console.Submission{View: console.ViewHosts, Action: "sync", Target: "all", At: base.Add(time.Second)})
	j.ActionSubmitted(console.Submission{View: console.ViewVMs, Action: "clone", Target: "vm-2", Err: errors.New("VM is powered on"), At: base.Add(2 * time.Second)})
	j.Close()

	ctx := context.Background()
	all, err := store.ListSubmissions(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListSubmissions() error = %v", err)
	}
	if len(all) != 3 || all[0].Action != "clone" || all[2].Action != "power" {
		t.Fatalf("journal order = %+v", all)
	}
	if all[0].Success || all[0].Error != "VM is powered on" {
		t.Fatalf("failed submission = %+v", all[0])
	}
	if !all[2].Success || all[2].TaskID != "t1" {
		t.Fatalf("submission = %+v", all[2])
	}

	vms, err := store.ListSubmissions(ctx, console.ViewVMs, 1)
	if err != nil {
		t.Fatalf("ListSubmissions() error = %v", err)
	}
	if len(vms) != 1 || vms[0].Action != "clone" {
		t.Fatalf("filtered journal = %+v", vms)
	}
}
