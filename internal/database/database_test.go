package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rajasatyajit/roadside/config"
	"github.com/rajasatyajit/roadside/internal/logger"
)

func TestNew_NoDatabase(t *testing.T) {
	logger.Init("error", "text")

	db, err := New(context.Background(), config.DatabaseConfig{URL: ""})
	if err != nil {
		t.Fatalf("Expected no error for empty database URL, got %v", err)
	}

	if db.pool != nil {
		t.Error("Expected pool to be nil when no database URL provided")
	}

	if db.IsConfigured() {
		t.Error("Expected IsConfigured to return false when no database")
	}
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(context.Background(), config.DatabaseConfig{URL: "invalid-url"})
	if err == nil {
		t.Error("Expected error for invalid database URL, got nil")
	}
}

func TestDB_Operations_NoPool(t *testing.T) {
	db := &DB{cfg: config.DatabaseConfig{}}
	ctx := context.Background()

	if err := db.Exec(ctx, "SELECT 1"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured for Exec, got %v", err)
	}

	if _, err := db.Query(ctx, "SELECT 1"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured for Query, got %v", err)
	}

	if err := db.Health(ctx); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured for Health, got %v", err)
	}
}

func TestDB_Close_NoPool(t *testing.T) {
	db := &DB{}
	// Should not panic when closing with no pool
	db.Close()
}

func TestDB_CollectMetrics_NoPool(t *testing.T) {
	db := &DB{}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		db.CollectMetrics(ctx, time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("CollectMetrics should return immediately without a pool")
	}
}

func BenchmarkDB_Health(b *testing.B) {
	db := &DB{}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		db.Health(ctx)
	}
}
