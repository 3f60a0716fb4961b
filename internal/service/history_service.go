package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strconv"
	"time"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/repository"
	"alcyxob/workout-coach/internal/storage"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	badgeCacheSize   = 8 * 1024 * 1024
	badgeCacheExpire = 5 * 60 // seconds
)

// --- Error Definitions ---
var (
	ErrHistoryNotFound     = errors.New("workout history not found")
	ErrHistoryAccessDenied = errors.New("access denied to this workout history")
	ErrHistoryExists       = errors.New("workout history with this id already exists")
	ErrPerformanceExists   = errors.New("performance record with this id already exists")
	ErrExportFailed        = errors.New("failed to export workout")
)

// HistoryInput describes a finished workout. Empty ID and nil CompletedAt are
// filled in; an empty PlanName is looked up from the plan.
type HistoryInput struct {
	ID          string
	PlanID      primitive.ObjectID
	PlanName    string
	CompletedAt *time.Time
}

// PerformanceInput describes one logged set. An empty ID is generated.
type PerformanceInput struct {
	ID            string
	HistoryID     string
	ExerciseID    primitive.ObjectID
	SetsCompleted int
	RepsCompleted int
	WeightUsed    *float64
}

// ExportResponse points at an exported CSV file.
type ExportResponse struct {
	DownloadURL string    `json:"downloadUrl"`
	ObjectKey   string    `json:"objectKey"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type HistoryService interface {
	RecordWorkout(ctx context.Context, userID primitive.ObjectID, input HistoryInput) (*domain.WorkoutHistory, error)
	GetHistory(ctx context.Context, userID primitive.ObjectID, historyID string) (*domain.WorkoutHistory, error)
	ListHistory(ctx context.Context, userID primitive.ObjectID, newestFirst bool) ([]domain.WorkoutHistory, error)

	RecordPerformance(ctx context.Context, userID primitive.ObjectID, input PerformanceInput) (*domain.WorkoutPerformance, error)
	ListPerformance(ctx context.Context, userID primitive.ObjectID, historyID string) ([]domain.WorkoutPerformance, error)
	ExercisePerformance(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.WorkoutPerformance, error)

	Badges(ctx context.Context, userID primitive.ObjectID) ([]domain.Badge, error)
	ExportCSV(ctx context.Context, userID primitive.ObjectID, historyID string) (*ExportResponse, error)
}

// --- Service Implementation ---

// historyService implements the HistoryService interface.
type historyService struct {
	historyRepo     repository.HistoryRepository
	performanceRepo repository.PerformanceRepository
	planRepo        repository.WorkoutPlanRepository
	exerciseRepo    repository.ExerciseRepository
	fileStorage     storage.FileStorage
	badgeCache      *freecache.Cache
	now             func() time.Time
}

// NewHistoryService creates a new instance of historyService.
func NewHistoryService(
	historyRepo repository.HistoryRepository,
	performanceRepo repository.PerformanceRepository,
	planRepo repository.WorkoutPlanRepository,
	exerciseRepo repository.ExerciseRepository,
	fileStorage storage.FileStorage,
) HistoryService {
	return &historyService{
		historyRepo:     historyRepo,
		performanceRepo: performanceRepo,
		planRepo:        planRepo,
		exerciseRepo:    exerciseRepo,
		fileStorage:     fileStorage,
		badgeCache:      freecache.NewCache(badgeCacheSize),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// === History ===

// RecordWorkout stores a finished workout with the plan name denormalised.
func (s *historyService) RecordWorkout(ctx context.Context, userID primitive.ObjectID, input HistoryInput) (*domain.WorkoutHistory, error) {
	id, err := recordID(input.ID)
	if err != nil {
		return nil, err
	}

	planName := input.PlanName
	if planName == "" {
		plan, err := s.planRepo.GetByID(ctx, input.PlanID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrPlanNotFound
			}
			return nil, err
		}
		if plan.UserID != userID {
			return nil, ErrPlanAccessDenied
		}
		planName = plan.Name
	}

	history := &domain.WorkoutHistory{
		ID:          id,
		UserID:      userID,
		PlanID:      input.PlanID,
		PlanName:    planName,
		CompletedAt: s.now(),
	}
	if input.CompletedAt != nil {
		history.CompletedAt = input.CompletedAt.UTC()
	}

	if err = s.historyRepo.Create(ctx, history); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrHistoryExists
		}
		return nil, err
	}

	s.invalidateBadges(userID)
	return history, nil
}

func (s *historyService) GetHistory(ctx context.Context, userID primitive.ObjectID, historyID string) (*domain.WorkoutHistory, error) {
	history, err := s.historyRepo.GetByID(ctx, historyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHistoryNotFound
		}
		return nil, err
	}
	if history.UserID != userID {
		return nil, ErrHistoryAccessDenied
	}
	return history, nil
}

func (s *historyService) ListHistory(ctx context.Context, userID primitive.ObjectID, newestFirst bool) ([]domain.WorkoutHistory, error) {
	return s.historyRepo.GetByUserID(ctx, userID, newestFirst)
}

// === Performance ===

// RecordPerformance stores one set against a workout owned by the user.
func (s *historyService) RecordPerformance(ctx context.Context, userID primitive.ObjectID, input PerformanceInput) (*domain.WorkoutPerformance, error) {
	switch {
	case input.ExerciseID == primitive.NilObjectID:
		return nil, fmt.Errorf("%w: exerciseId is required", ErrValidationFailed)
	case input.SetsCompleted < 0 || input.RepsCompleted < 0:
		return nil, fmt.Errorf("%w: sets and reps cannot be negative", ErrValidationFailed)
	case input.WeightUsed != nil && *input.WeightUsed < 0:
		return nil, fmt.Errorf("%w: weight cannot be negative", ErrValidationFailed)
	}
	id, err := recordID(input.ID)
	if err != nil {
		return nil, err
	}
	if _, err = s.GetHistory(ctx, userID, input.HistoryID); err != nil {
		return nil, err
	}

	perf := &domain.WorkoutPerformance{
		ID:            id,
		HistoryID:     input.HistoryID,
		UserID:        userID,
		ExerciseID:    input.ExerciseID,
		SetsCompleted: input.SetsCompleted,
		RepsCompleted: input.RepsCompleted,
		WeightUsed:    input.WeightUsed,
		RecordedAt:    s.now(),
	}
	if err = s.performanceRepo.Create(ctx, perf); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPerformanceExists
		}
		return nil, err
	}

	s.invalidateBadges(userID)
	return perf, nil
}

func (s *historyService) ListPerformance(ctx context.Context, userID primitive.ObjectID, historyID string) ([]domain.WorkoutPerformance, error) {
	if _, err := s.GetHistory(ctx, userID, historyID); err != nil {
		return nil, err
	}
	return s.performanceRepo.GetByHistoryID(ctx, historyID)
}

func (s *historyService) ExercisePerformance(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.WorkoutPerformance, error) {
	return s.performanceRepo.GetByUserAndExercise(ctx, userID, exerciseID)
}

// === Badges ===

// Badges returns the achievements earned so far. Results are cached per user
// until the next recorded workout or set.
func (s *historyService) Badges(ctx context.Context, userID primitive.ObjectID) ([]domain.Badge, error) {
	key := badgeCacheKey(userID)
	if cached, err := s.badgeCache.Get(key); err == nil {
		var badges []domain.Badge
		if err = json.Unmarshal(cached, &badges); err == nil {
			return badges, nil
		}
		log.WithError(err).Warn("failed to unmarshal cached badges")
	}

	history, err := s.historyRepo.GetByUserID(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	var performance []domain.WorkoutPerformance
	totalSets, err := s.performanceRepo.CountSetsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if totalSets >= setsBadgeThreshold {
		if performance, err = s.performanceRepo.GetByUserID(ctx, userID); err != nil {
			return nil, err
		}
	}

	badges := computeBadges(history, performance)
	if data, err := json.Marshal(badges); err == nil {
		if err = s.badgeCache.Set(key, data, badgeCacheExpire); err != nil {
			log.WithError(err).Warn("failed to cache badges")
		}
	}
	return badges, nil
}

func (s *historyService) invalidateBadges(userID primitive.ObjectID) {
	s.badgeCache.Del(badgeCacheKey(userID))
}

func badgeCacheKey(userID primitive.ObjectID) []byte {
	return []byte("badges::" + userID.Hex())
}

// === Export ===

// ExportCSV writes the sets of one workout to a CSV file in object storage and
// returns a temporary download link.
func (s *historyService) ExportCSV(ctx context.Context, userID primitive.ObjectID, historyID string) (*ExportResponse, error) {
	history, err := s.GetHistory(ctx, userID, historyID)
	if err != nil {
		return nil, err
	}
	records, err := s.performanceRepo.GetByHistoryID(ctx, historyID)
	if err != nil {
		return nil, err
	}

	names := make(map[primitive.ObjectID]string)
	for _, rec := range records {
		if _, ok := names[rec.ExerciseID]; ok {
			continue
		}
		names[rec.ExerciseID] = "Exercise"
		if exercise, err := s.exerciseRepo.GetByID(ctx, rec.ExerciseID); err == nil {
			names[rec.ExerciseID] = exercise.Name
		}
	}

	data, err := performanceCSV(records, names)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	objectKey := path.Join("exports", userID.Hex(), history.ID+".csv")
	if err = s.fileStorage.PutObject(ctx, objectKey, "text/csv", bytes.NewReader(data)); err != nil {
		return nil, ErrExportFailed
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrExportFailed
	}

	return &ExportResponse{
		DownloadURL: url,
		ObjectKey:   objectKey,
		ExpiresAt:   s.now().Add(storage.DefaultPresignedURLExpiry),
	}, nil
}

// performanceCSV renders one row per record; total is sets x reps x weight.
func performanceCSV(records []domain.WorkoutPerformance, names map[primitive.ObjectID]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Exercise", "Sets", "Reps", "Weight (kg)", "Total (kg)"}); err != nil {
		return nil, err
	}
	for _, rec := range records {
		weight := 0.0
		if rec.WeightUsed != nil {
			weight = *rec.WeightUsed
		}
		total := float64(rec.SetsCompleted*rec.RepsCompleted) * weight
		row := []string{
			names[rec.ExerciseID],
			strconv.Itoa(rec.SetsCompleted),
			strconv.Itoa(rec.RepsCompleted),
			strconv.FormatFloat(weight, 'f', -1, 64),
			strconv.FormatFloat(total, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// recordID returns id, or a new UUID when id is empty.
func recordID(id string) (string, error) {
	if id == "" {
		return uuid.NewString(), nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: id must be a UUID", ErrValidationFailed)
	}
	return id, nil
}
