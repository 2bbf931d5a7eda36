package services

import (
	"time"

	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/utils/apperror"
)

// Transitions of the progress state machine. None of them leaves "completed"
// except start, which only changes the visible status.

func startProgress(p *model.UserProgress, now time.Time) {
	p.Status = model.ProgressInProgress
	if p.StartedAt == nil {
		p.StartedAt = timePtr(now)
	}
}

func logListening(p *model.UserProgress, seconds int, now time.Time) error {
	if err := checkListenedSeconds(seconds); err != nil {
		return err
	}
	p.TotalListenedSeconds += seconds
	if p.Status == model.ProgressNotStarted || p.Status == "" {
		p.Status = model.ProgressInProgress
		if p.StartedAt == nil {
			p.StartedAt = timePtr(now)
		}
	}
	return nil
}

func completeProgress(p *model.UserProgress, seconds *int, now time.Time) error {
	if seconds != nil {
		if err := checkListenedSeconds(*seconds); err != nil {
			return err
		}
		p.TotalListenedSeconds += *seconds
	}
	p.Status = model.ProgressCompleted
	if p.StartedAt == nil {
		p.StartedAt = timePtr(now)
	}
	p.CompletedAt = timePtr(now)
	return nil
}

func checkListenedSeconds(seconds int) error {
	if seconds <= 0 {
		return apperror.Validation("listened_seconds must be greater than 0")
	}
	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
