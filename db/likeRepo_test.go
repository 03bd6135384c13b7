package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/ain/models"
)

func TestToggleLikeParity(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	users := NewUserRepo(gdb)
	likes := NewLikeRepo(gdb)

	owner := newUser(t, users, "owner@example.com", "Owner")
	fan := newUser(t, users, "fan@example.com", "Fan")
	report := newReport(t, NewReportRepo(gdb), owner, "Pothole", time.Now().UTC())

	// owner's like is the baseline the fan toggles against
	if liked, err := likes.ToggleLike(ctx, report.ID, owner.ID); err != nil || !liked {
		t.Fatalf("baseline like = %v, %v", liked, err)
	}

	for n := 1; n <= 5; n++ {
		liked, err := likes.ToggleLike(ctx, report.ID, fan.ID)
		if err != nil {
			t.Fatalf("toggle %d: %v", n, err)
		}
		if liked != (n%2 == 1) {
			t.Errorf("toggle %d liked = %v", n, liked)
		}

		count, err := likes.CountLikes(ctx, report.ID)
		if err != nil {
			t.Fatal(err)
		}
		if want := int64(1 + n%2); count != want {
			t.Errorf("after %d toggles count = %d, want %d", n, count, want)
		}
		has, err := likes.HasLiked(ctx, report.ID, fan.ID)
		if err != nil {
			t.Fatal(err)
		}
		if has != liked {
			t.Errorf("HasLiked = %v, toggle said %v", has, liked)
		}
	}
}

func TestLikeIsUniquePerUserAndReport(t *testing.T) {
	gdb := newTestDB(t)
	users := NewUserRepo(gdb)
	owner := newUser(t, users, "owner@example.com", "Owner")
	report := newReport(t, NewReportRepo(gdb), owner, "Pothole", time.Now().UTC())

	first := models.Like{ID: uuid.New(), ReportID: report.ID, UserID: owner.ID}
	if err := gdb.DB.Create(&first).Error; err != nil {
		t.Fatal(err)
	}
	dup := models.Like{ID: uuid.New(), ReportID: report.ID, UserID: owner.ID}
	if err := translate(gdb.DB.Create(&dup).Error, "create like"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate like = %v, want ErrDuplicate", err)
	}
}
