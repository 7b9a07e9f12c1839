package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookstore/internal/models"
	"bookstore/internal/repository"
)

// LogFilter narrows an activity listing. Zero times mean unbounded.
type LogFilter struct {
	From time.Time
	To   time.Time
	Type string
}

type ActivityService struct {
	activityRepo repository.ActivityRepo
}

func NewActivityService(activityRepo repository.ActivityRepo) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: from must be <= to")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeActivityType trims spaces and uppercases the type filter.
func normalizeActivityType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		verr := &ValidationError{}
		verr.add("from", "%v", errInvalidTimeRange)
		return time.Time{}, time.Time{}, "", errors.Join(verr, errInvalidTimeRange)
	}

	return from, to, normalizeActivityType(f.Type), nil
}

// List returns the owner's activity entries, oldest first.
func (s *ActivityService) List(ctx context.Context, ownerID string, f LogFilter) ([]models.BookActivity, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.activityRepo.List(ctx, ownerID, from, to, typ)
}
