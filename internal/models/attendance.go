package models

import "time"

// PackageSize is the number of class credits in the shared package.
const PackageSize = 100

// Attendance represents one class session consumed by one user on one date
type Attendance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_class_attendance_user_date" json:"user_id"`
	Username  string    `gorm:"not null" json:"username"`
	ClassDate time.Time `gorm:"type:date;not null;index:idx_class_attendance_user_date" json:"class_date"`
}

// TableName specifies the table name
func (Attendance) TableName() string {
	return "class_attendance"
}

// CreditsLeft returns the credits remaining after total recorded classes.
// It is not clamped; overdrawn packages go negative.
func CreditsLeft(total int64) int64 {
	return PackageSize - total
}
