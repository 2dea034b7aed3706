package store

import (
	"context"
	"testing"

	"github.com/starford/lifeflow/internal/models"
)

func TestSearch_TasksAndEntries(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	task := &models.Task{ID: "t1", Title: "Morning run", Content: "5km", CreatedAt: baseTime, UpdatedAt: baseTime}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	entry := &models.LifeEntry{ID: "e1", Content: "great run today", CreatedAt: baseTime, UpdatedAt: baseTime}
	if err := db.CreateEntry(ctx, entry); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	hidden := &models.LifeEntry{ID: "e2", Content: "deleted run", CreatedAt: baseTime, UpdatedAt: baseTime, IsDeleted: true}
	_ = db.CreateEntry(ctx, hidden)

	hits, err := db.Search(ctx, "run", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %+v, want 2", hits)
	}
	kinds := map[string]string{}
	for _, h := range hits {
		kinds[h.Kind] = h.ID
	}
	if kinds["task"] != "t1" || kinds["life_entry"] != "e1" {
		t.Errorf("hits by kind = %v", kinds)
	}
}
