package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/ain/models"
)

func TestSoftDeletedCommentKeepsRow(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	users := NewUserRepo(gdb)
	comments := NewCommentRepo(gdb)

	owner := newUser(t, users, "owner@example.com", "Owner")
	report := newReport(t, NewReportRepo(gdb), owner, "Pothole", time.Now().UTC())

	kept := &models.Comment{ID: uuid.New(), ReportID: report.ID, UserID: owner.ID, Content: "still here"}
	gone := &models.Comment{ID: uuid.New(), ReportID: report.ID, UserID: owner.ID, Content: "oops"}
	for _, c := range []*models.Comment{kept, gone} {
		if err := comments.CreateComment(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	found, err := comments.FindCommentByID(ctx, gone.ID)
	if err != nil {
		t.Fatal(err)
	}
	if found.User == nil || found.User.DisplayName != "Owner" {
		t.Errorf("author not preloaded: %+v", found.User)
	}

	found.IsDeleted = true
	found.UpdatedAt = time.Now().UTC()
	if err := comments.UpdateComment(ctx, found); err != nil {
		t.Fatal(err)
	}

	var row models.Comment
	if err := gdb.DB.Where("id = ?", gone.ID).First(&row).Error; err != nil {
		t.Fatalf("soft-deleted row missing: %v", err)
	}
	if !row.IsDeleted || row.Content != "oops" {
		t.Errorf("row = %+v, want deleted flag with content kept", row)
	}

	if _, err := comments.FindCommentByID(ctx, gone.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("find deleted = %v, want ErrNotFound", err)
	}
	list, err := comments.ListCommentsByReport(ctx, report.ID, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != kept.ID {
		t.Errorf("list = %v, want only the kept comment", list)
	}
	count, err := comments.CountCommentsByReport(ctx, report.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
