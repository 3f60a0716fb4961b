package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrReminderNotFound     = errors.New("reminder not found")
	ErrReminderAccessDenied = errors.New("access denied to this reminder")
)

// ReminderInput holds the editable fields of a reminder.
type ReminderInput struct {
	Time       string
	DaysOfWeek []int
	PlanID     *primitive.ObjectID
	Enabled    bool
}

type ReminderService interface {
	CreateReminder(ctx context.Context, userID primitive.ObjectID, input ReminderInput) (*domain.Reminder, error)
	ListReminders(ctx context.Context, userID primitive.ObjectID) ([]domain.Reminder, error)
	UpdateReminder(ctx context.Context, userID, reminderID primitive.ObjectID, input ReminderInput) (*domain.Reminder, error)
	DeleteReminder(ctx context.Context, userID, reminderID primitive.ObjectID) error
}

// reminderService implements the ReminderService interface.
type reminderService struct {
	reminderRepo repository.ReminderRepository
	planRepo     repository.WorkoutPlanRepository
}

// NewReminderService creates a new instance of reminderService.
func NewReminderService(reminderRepo repository.ReminderRepository, planRepo repository.WorkoutPlanRepository) ReminderService {
	return &reminderService{
		reminderRepo: reminderRepo,
		planRepo:     planRepo,
	}
}

func (s *reminderService) CreateReminder(ctx context.Context, userID primitive.ObjectID, input ReminderInput) (*domain.Reminder, error) {
	days, err := s.validate(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	reminder := &domain.Reminder{
		UserID:     userID,
		Time:       input.Time,
		DaysOfWeek: days,
		PlanID:     input.PlanID,
		Enabled:    input.Enabled,
	}
	if _, err = s.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *reminderService) ListReminders(ctx context.Context, userID primitive.ObjectID) ([]domain.Reminder, error) {
	return s.reminderRepo.GetByUserID(ctx, userID)
}

func (s *reminderService) UpdateReminder(ctx context.Context, userID, reminderID primitive.ObjectID, input ReminderInput) (*domain.Reminder, error) {
	days, err := s.validate(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	reminder, err := s.owned(ctx, userID, reminderID)
	if err != nil {
		return nil, err
	}

	reminder.Time = input.Time
	reminder.DaysOfWeek = days
	reminder.PlanID = input.PlanID
	reminder.Enabled = input.Enabled
	if err = s.reminderRepo.Update(ctx, reminder); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, err
	}
	return reminder, nil
}

func (s *reminderService) DeleteReminder(ctx context.Context, userID, reminderID primitive.ObjectID) error {
	if _, err := s.owned(ctx, userID, reminderID); err != nil {
		return err
	}
	err := s.reminderRepo.Delete(ctx, reminderID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrReminderNotFound
	}
	return err
}

func (s *reminderService) owned(ctx context.Context, userID, reminderID primitive.ObjectID) (*domain.Reminder, error) {
	reminder, err := s.reminderRepo.GetByID(ctx, reminderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, err
	}
	if reminder.UserID != userID {
		return nil, ErrReminderAccessDenied
	}
	return reminder, nil
}

// validate checks the input and returns the weekdays sorted and deduplicated.
func (s *reminderService) validate(ctx context.Context, userID primitive.ObjectID, input ReminderInput) ([]int, error) {
	if _, err := time.Parse("15:04", input.Time); err != nil || len(input.Time) != len("15:04") {
		return nil, fmt.Errorf("%w: time must be HH:MM", ErrValidationFailed)
	}
	if len(input.DaysOfWeek) == 0 {
		return nil, fmt.Errorf("%w: at least one day is required", ErrValidationFailed)
	}
	days := slices.Clone(input.DaysOfWeek)
	for _, d := range days {
		if d < 1 || d > 7 {
			return nil, fmt.Errorf("%w: days must be between 1 (Monday) and 7 (Sunday)", ErrValidationFailed)
		}
	}
	slices.Sort(days)
	days = slices.Compact(days)

	if input.PlanID != nil {
		plan, err := s.planRepo.GetByID(ctx, *input.PlanID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrPlanNotFound
			}
			return nil, err
		}
		if plan.UserID != userID {
			return nil, ErrPlanAccessDenied
		}
	}
	return days, nil
}
