package repositories

import (
	"time"

	"gorm.io/gorm"

	"telegram-class-bot/internal/models"
)

type AttendanceRepo interface {
	Create(rec *models.Attendance) error
	Count() (int64, error)
	ListAll() ([]models.Attendance, error)
	LatestForUserOnDate(userID int64, classDate time.Time) (*models.Attendance, error)
	DeleteByID(id uint) error
}

type attendanceRepo struct {
	db *gorm.DB
}

func NewAttendanceRepo(db *gorm.DB) AttendanceRepo {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(rec *models.Attendance) error {
	return r.db.Create(rec).Error
}

func (r *attendanceRepo) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.Attendance{}).Count(&total).Error
	return total, err
}

// ListAll returns every record ordered by class date, insertion order
// breaking ties
func (r *attendanceRepo) ListAll() ([]models.Attendance, error) {
	var list []models.Attendance
	err := r.db.Order("class_date ASC, id ASC").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// LatestForUserOnDate returns the most recently created record matching
// user and date. Returns gorm.ErrRecordNotFound when none match.
func (r *attendanceRepo) LatestForUserOnDate(userID int64, classDate time.Time) (*models.Attendance, error) {
	var rec models.Attendance
	err := r.db.Where("user_id = ? AND class_date = ?", userID, classDate).
		Order("id DESC").First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *attendanceRepo) DeleteByID(id uint) error {
	return r.db.Delete(&models.Attendance{}, id).Error
}
