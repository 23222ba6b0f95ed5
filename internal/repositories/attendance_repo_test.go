package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"telegram-class-bot/internal/models"
)

func newTestRepo(t *testing.T) AttendanceRepo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Attendance{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return NewAttendanceRepo(db)
}

func classDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func mustCreate(t *testing.T, repo AttendanceRepo, userID int64, username, date string) *models.Attendance {
	t.Helper()
	rec := &models.Attendance{UserID: userID, Username: username, ClassDate: classDate(t, date)}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("create record: %v", err)
	}
	return rec
}

func TestCreateAndCount(t *testing.T) {
	repo := newTestRepo(t)

	total, err := repo.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected empty table, got %d rows", total)
	}

	mustCreate(t, repo, 1, "alice", "2024-03-01")
	mustCreate(t, repo, 2, "bob", "2024-03-02")

	total, err = repo.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 rows, got %d", total)
	}
}

func TestListAllOrdersByDateThenID(t *testing.T) {
	repo := newTestRepo(t)

	// inserted out of date order, plus a same-date tie
	mustCreate(t, repo, 1, "alice", "2024-03-05")
	mustCreate(t, repo, 2, "bob", "2024-03-01")
	mustCreate(t, repo, 3, "carol", "2024-03-05")

	list, err := repo.ListAll()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(list))
	}

	want := []string{"bob", "alice", "carol"}
	for i, name := range want {
		if list[i].Username != name {
			t.Errorf("position %d: expected %s, got %s", i, name, list[i].Username)
		}
	}
}

func TestLatestForUserOnDate(t *testing.T) {
	repo := newTestRepo(t)

	first := mustCreate(t, repo, 1, "alice", "2024-03-01")
	second := mustCreate(t, repo, 1, "alice", "2024-03-01")
	mustCreate(t, repo, 2, "bob", "2024-03-01")

	rec, err := repo.LatestForUserOnDate(1, classDate(t, "2024-03-01"))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if rec.ID != second.ID {
		t.Errorf("expected latest id %d, got %d", second.ID, rec.ID)
	}
	if rec.ID == first.ID {
		t.Errorf("returned earliest duplicate instead of latest")
	}
}

func TestLatestForUserOnDateNotFound(t *testing.T) {
	repo := newTestRepo(t)

	mustCreate(t, repo, 1, "alice", "2024-03-01")

	// wrong date
	if _, err := repo.LatestForUserOnDate(1, classDate(t, "2024-03-02")); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for wrong date, got %v", err)
	}

	// wrong user
	if _, err := repo.LatestForUserOnDate(2, classDate(t, "2024-03-01")); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for wrong user, got %v", err)
	}
}

func TestDeleteByIDRemovesSingleRow(t *testing.T) {
	repo := newTestRepo(t)

	keep := mustCreate(t, repo, 1, "alice", "2024-03-01")
	gone := mustCreate(t, repo, 1, "alice", "2024-03-01")

	if err := repo.DeleteByID(gone.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	total, err := repo.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 row after delete, got %d", total)
	}

	rec, err := repo.LatestForUserOnDate(1, classDate(t, "2024-03-01"))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if rec.ID != keep.ID {
		t.Errorf("wrong row deleted: expected %d to remain, found %d", keep.ID, rec.ID)
	}
}
