package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/repository"
	"alcyxob/workout-coach/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxImageSize bounds confirmed exercise image uploads.
const MaxImageSize = 10 << 20

// --- Error Definitions ---
var (
	ErrExerciseNotFound         = errors.New("exercise not found")
	ErrExerciseAccessDenied     = errors.New("access denied to modify or delete this exercise")
	ErrValidationFailed         = errors.New("validation failed")
	ErrUploadURLError           = errors.New("failed to generate upload URL")
	ErrUploadConfirmationFailed = errors.New("failed to confirm upload")
	ErrUploadMissing            = errors.New("uploaded object not found in storage")
)

// UploadURLResponse carries the presigned URL and the key the client reports back on confirm.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// ExerciseInput holds the editable fields of an exercise.
type ExerciseInput struct {
	Name        string
	Description string
	MuscleGroup string
	Difficulty  string
	ImageURL    string
}

type ExerciseService interface {
	CreateExercise(ctx context.Context, ownerID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, ownerID, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, ownerID, exerciseID primitive.ObjectID) error

	// Image upload process
	RequestImageUploadURL(ctx context.Context, ownerID, exerciseID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmImageUpload(ctx context.Context, ownerID, exerciseID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.Exercise, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	uploadRepo   repository.UploadRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, uploadRepo repository.UploadRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		uploadRepo:   uploadRepo,
		fileStorage:  fileStorage,
	}
}

// CreateExercise adds an exercise to the catalog, owned by its creator.
func (s *exerciseService) CreateExercise(ctx context.Context, ownerID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: exercise name is required", ErrValidationFailed)
	}
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required to create an exercise")
	}

	exercise := &domain.Exercise{CreatedBy: ownerID}
	input.apply(exercise)

	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

// GetExerciseByID retrieves a single exercise. An uploaded image replaces
// ImageURL with a presigned download link.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	s.resolveImage(ctx, exercise)
	return exercise, nil
}

// ListExercises returns the whole catalog.
func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range exercises {
		s.resolveImage(ctx, &exercises[i])
	}
	return exercises, nil
}

// UpdateExercise handles updating an existing exercise, ensuring ownership.
func (s *exerciseService) UpdateExercise(ctx context.Context, ownerID, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: exercise name is required", ErrValidationFailed)
	}

	existing, err := s.owned(ctx, ownerID, exerciseID)
	if err != nil {
		return nil, err
	}
	input.apply(existing)

	if err = s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	s.resolveImage(ctx, existing)
	return existing, nil
}

// DeleteExercise handles deleting an exercise, ensuring ownership.
func (s *exerciseService) DeleteExercise(ctx context.Context, ownerID, exerciseID primitive.ObjectID) error {
	// Look up first so "not yours" and "not there" map to different errors.
	if _, err := s.owned(ctx, ownerID, exerciseID); err != nil {
		return err
	}

	err := s.exerciseRepo.Delete(ctx, exerciseID, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExerciseNotFound
	}
	return err
}

// === Image Upload Process ===

// RequestImageUploadURL generates a presigned URL the owner can PUT an image to.
func (s *exerciseService) RequestImageUploadURL(ctx context.Context, ownerID, exerciseID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, fmt.Errorf("%w: invalid or missing image content type", ErrValidationFailed)
	}
	if _, err := s.owned(ctx, ownerID, exerciseID); err != nil {
		return nil, err
	}

	_, ext, _ := strings.Cut(contentType, "/")
	objectKey := path.Join("exercises", exerciseID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), ext))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmImageUpload records the upload metadata and links it to the exercise.
// It is called after the client has PUT the file to the presigned URL.
func (s *exerciseService) ConfirmImageUpload(ctx context.Context, ownerID, exerciseID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.Exercise, error) {
	// The key must be one we handed out for this exercise.
	if !strings.HasPrefix(objectKey, path.Join("exercises", exerciseID.Hex())+"/") {
		return nil, fmt.Errorf("%w: object key does not belong to this exercise", ErrValidationFailed)
	}
	if fileSize <= 0 || fileSize > MaxImageSize {
		return nil, fmt.Errorf("%w: image size must be between 1 byte and %d bytes", ErrValidationFailed, MaxImageSize)
	}

	exercise, err := s.owned(ctx, ownerID, exerciseID)
	if err != nil {
		return nil, err
	}

	if _, err = s.fileStorage.StatObject(ctx, objectKey); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrUploadMissing
		}
		return nil, ErrUploadConfirmationFailed
	}

	upload := &domain.Upload{
		ExerciseID:  exerciseID,
		UserID:      ownerID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        fileSize,
	}
	uploadID, err := s.uploadRepo.Create(ctx, upload)
	if err != nil {
		log.WithError(err).WithField("exercise_id", exerciseID.Hex()).Error("failed to save upload metadata")
		return nil, ErrUploadConfirmationFailed
	}

	if err = s.exerciseRepo.SetImageUpload(ctx, exerciseID, uploadID); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"exercise_id": exerciseID.Hex(),
			"upload_id":   uploadID.Hex(),
		}).Error("failed to link upload to exercise")
		return nil, ErrUploadConfirmationFailed
	}

	exercise.ImageUpload = &uploadID
	s.resolveImage(ctx, exercise)
	return exercise, nil
}

// --- Helpers ---

func (s *exerciseService) owned(ctx context.Context, ownerID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.CreatedBy != ownerID {
		return nil, ErrExerciseAccessDenied
	}
	return exercise, nil
}

// resolveImage swaps in a download link for an uploaded image. Failures keep
// the stored ImageURL.
func (s *exerciseService) resolveImage(ctx context.Context, exercise *domain.Exercise) {
	if exercise.ImageUpload == nil {
		return
	}
	upload, err := s.uploadRepo.GetByID(ctx, *exercise.ImageUpload)
	if err != nil {
		log.WithError(err).WithField("exercise_id", exercise.ID.Hex()).Warn("linked image upload not found")
		return
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, upload.S3ObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return
	}
	exercise.ImageURL = url
}

func (in ExerciseInput) apply(e *domain.Exercise) {
	e.Name = strings.TrimSpace(in.Name)
	e.Description = in.Description
	e.MuscleGroup = in.MuscleGroup
	e.Difficulty = in.Difficulty
	e.ImageURL = in.ImageURL
}
