package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("current password is incorrect")
)

type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, name, email string) (*domain.User, error)
	UpdateGoal(ctx context.Context, userID primitive.ObjectID, goal string) (*domain.User, error)
	UpdateWeight(ctx context.Context, userID primitive.ObjectID, weight float64) (*domain.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error
}

// userService implements the UserService interface.
type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name, email string) (*domain.User, error) {
	name, email = strings.TrimSpace(name), normalizeEmail(email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email cannot be empty", ErrValidationFailed)
	}

	err := s.userRepo.UpdateProfile(ctx, userID, name, email)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *userService) UpdateGoal(ctx context.Context, userID primitive.ObjectID, goal string) (*domain.User, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, fmt.Errorf("%w: goal cannot be empty", ErrValidationFailed)
	}
	if err := s.userRepo.UpdateGoal(ctx, userID, goal); err != nil {
		return nil, s.mapErr(err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *userService) UpdateWeight(ctx context.Context, userID primitive.ObjectID, weight float64) (*domain.User, error) {
	if weight <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrValidationFailed)
	}
	if err := s.userRepo.UpdateWeight(ctx, userID, weight); err != nil {
		return nil, s.mapErr(err)
	}
	return s.GetProfile(ctx, userID)
}

// ChangePassword replaces the password after verifying the current one.
func (s *userService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return s.mapErr(err)
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}
	return s.mapErr(s.userRepo.UpdatePasswordHash(ctx, userID, string(hashed)))
}

func (s *userService) mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrUserAlreadyExists
	default:
		return err
	}
}
