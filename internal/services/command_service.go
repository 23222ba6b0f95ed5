package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"telegram-class-bot/internal/models"
	"telegram-class-bot/internal/repositories"
)

const dateLayout = "2006-01-02"

const helpMessage = "Commands:\n" +
	"/today - Record today's class\n" +
	"/record - Record a class with date (YYYY-MM-DD)\n" +
	"/remove - Remove your record for a date (YYYY-MM-DD)\n" +
	"/check - See all recorded classes and credits left"

const usageMessage = "Please provide a date in YYYY-MM-DD format\n" +
	"Example: /record 2024-11-27"

const failureMessage = "Something went wrong, please try again."

// CommandService turns bot commands into store operations and reply text.
// Every method returns the text to send back to the chat; store failures
// are logged here and folded into a generic reply.
type CommandService struct {
	repo repositories.AttendanceRepo
}

func NewCommandService(repo repositories.AttendanceRepo) *CommandService {
	return &CommandService{repo: repo}
}

// Start returns the static command list.
func (s *CommandService) Start() string {
	return helpMessage
}

// RecordToday records a class for the server-local calendar date.
func (s *CommandService) RecordToday(userID int64, username string) string {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.record(userID, username, today)
}

// RecordDate records a class for an explicit YYYY-MM-DD date.
func (s *CommandService) RecordDate(userID int64, username, arg string) string {
	classDate, err := parseClassDate(arg)
	if err != nil {
		return usageMessage
	}
	return s.record(userID, username, classDate)
}

func (s *CommandService) record(userID int64, username string, classDate time.Time) string {
	rec := &models.Attendance{
		UserID:    userID,
		Username:  username,
		ClassDate: classDate,
	}
	if err := s.repo.Create(rec); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to insert attendance")
		return failureMessage
	}

	total, err := s.repo.Count()
	if err != nil {
		log.Error().Err(err).Msg("Failed to count attendance")
		return failureMessage
	}

	return fmt.Sprintf("Recorded class for %s. %d credits left.",
		classDate.Format(dateLayout), models.CreditsLeft(total))
}

// Remove deletes the caller's most recently created record for the given
// date. When the same user recorded the same date twice, one invocation
// removes one row.
func (s *CommandService) Remove(userID int64, arg string) string {
	classDate, err := parseClassDate(arg)
	if err != nil {
		return usageMessage
	}

	rec, err := s.repo.LatestForUserOnDate(userID, classDate)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Sprintf("No record found for %s.", classDate.Format(dateLayout))
	}
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to look up attendance")
		return failureMessage
	}

	if err := s.repo.DeleteByID(rec.ID); err != nil {
		log.Error().Err(err).Uint("id", rec.ID).Msg("Failed to delete attendance")
		return failureMessage
	}

	total, err := s.repo.Count()
	if err != nil {
		log.Error().Err(err).Msg("Failed to count attendance")
		return failureMessage
	}

	return fmt.Sprintf("Removed class for %s. %d credits left.",
		classDate.Format(dateLayout), models.CreditsLeft(total))
}

// Check lists every record across all users plus a credit summary.
func (s *CommandService) Check() string {
	list, err := s.repo.ListAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list attendance")
		return failureMessage
	}

	if len(list) == 0 {
		return fmt.Sprintf("No classes recorded yet. %d credits left.", models.PackageSize)
	}

	var b strings.Builder
	for _, rec := range list {
		fmt.Fprintf(&b, "%s - %s\n", rec.Username, rec.ClassDate.Format(dateLayout))
	}
	fmt.Fprintf(&b, "Total: %d classes taken, %d credits left.",
		len(list), models.CreditsLeft(int64(len(list))))
	return b.String()
}

// parseClassDate validates a YYYY-MM-DD argument and normalizes it to
// midnight UTC so date equality in the store is exact.
func parseClassDate(arg string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(arg))
}
