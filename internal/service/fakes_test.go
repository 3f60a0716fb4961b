package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/repository"
	"alcyxob/workout-coach/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories. Each keeps copies so callers cannot alias stored rows.

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) update(id primitive.ObjectID, f func(u *domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	f(&u)
	r.users[id] = u
	return nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, name, email string) error {
	r.mu.Lock()
	for _, u := range r.users {
		if u.ID != id && u.Email == email {
			r.mu.Unlock()
			return repository.ErrDuplicate
		}
	}
	r.mu.Unlock()
	return r.update(id, func(u *domain.User) { u.Name, u.Email = name, email })
}

func (r *memUserRepo) UpdateGoal(_ context.Context, id primitive.ObjectID, goal string) error {
	return r.update(id, func(u *domain.User) { u.Goal = goal })
}

func (r *memUserRepo) UpdateWeight(_ context.Context, id primitive.ObjectID, weight float64) error {
	return r.update(id, func(u *domain.User) { u.Weight = &weight })
}

func (r *memUserRepo) UpdatePasswordHash(_ context.Context, id primitive.ObjectID, hash string) error {
	return r.update(id, func(u *domain.User) { u.PasswordHash = hash })
}

type memExerciseRepo struct {
	mu        sync.Mutex
	exercises map[primitive.ObjectID]domain.Exercise
}

func newMemExerciseRepo() *memExerciseRepo {
	return &memExerciseRepo{exercises: map[primitive.ObjectID]domain.Exercise{}}
}

func (r *memExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exercise.ID = primitive.NewObjectID()
	r.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (r *memExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *memExerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]domain.Exercise, 0, len(r.exercises))
	for _, e := range r.exercises {
		list = append(list, e)
	}
	return list, nil
}

func (r *memExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	r.exercises[exercise.ID] = *exercise
	return nil
}

func (r *memExerciseRepo) SetImageUpload(_ context.Context, id, uploadID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.ImageUpload = &uploadID
	r.exercises[id] = e
	return nil
}

func (r *memExerciseRepo) Delete(_ context.Context, id, ownerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok || e.CreatedBy != ownerID {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

type memUploadRepo struct {
	mu      sync.Mutex
	uploads []domain.Upload
}

func (r *memUploadRepo) Create(_ context.Context, upload *domain.Upload) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	upload.ID = primitive.NewObjectID()
	r.uploads = append(r.uploads, *upload)
	return upload.ID, nil
}

func (r *memUploadRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.uploads {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUploadRepo) GetByExerciseID(_ context.Context, exerciseID primitive.ObjectID) (*domain.Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.uploads) - 1; i >= 0; i-- {
		if r.uploads[i].ExerciseID == exerciseID {
			u := r.uploads[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memPlanRepo struct {
	mu    sync.Mutex
	plans map[primitive.ObjectID]domain.WorkoutPlan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: map[primitive.ObjectID]domain.WorkoutPlan{}}
}

func (r *memPlanRepo) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	r.plans[plan.ID] = *plan
	return plan.ID, nil
}

func (r *memPlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *memPlanRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var plans []domain.WorkoutPlan
	for _, p := range r.plans {
		if p.UserID == userID {
			plans = append(plans, p)
		}
	}
	return plans, nil
}

func (r *memPlanRepo) Update(_ context.Context, plan *domain.WorkoutPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	r.plans[plan.ID] = *plan
	return nil
}

func (r *memPlanRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

type memEntryRepo struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]domain.WorkoutExercise
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{entries: map[primitive.ObjectID]domain.WorkoutExercise{}}
}

func (r *memEntryRepo) Create(_ context.Context, entry *domain.WorkoutExercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = primitive.NewObjectID()
	r.entries[entry.ID] = *entry
	return entry.ID, nil
}

func (r *memEntryRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *memEntryRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []domain.WorkoutExercise
	for _, e := range r.entries {
		if e.PlanID == planID {
			entries = append(entries, e)
		}
	}
	slices.SortFunc(entries, func(a, b domain.WorkoutExercise) int { return a.OrderIndex - b.OrderIndex })
	return entries, nil
}

func (r *memEntryRepo) Update(_ context.Context, entry *domain.WorkoutExercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[entry.ID]; !ok {
		return repository.ErrNotFound
	}
	r.entries[entry.ID] = *entry
	return nil
}

func (r *memEntryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *memEntryRepo) DeleteByPlanID(_ context.Context, planID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, e := range r.entries {
		if e.PlanID == planID {
			delete(r.entries, id)
			n++
		}
	}
	return n, nil
}

type memHistoryRepo struct {
	mu        sync.Mutex
	histories []domain.WorkoutHistory
	createErr error
}

func (r *memHistoryRepo) Create(_ context.Context, history *domain.WorkoutHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, h := range r.histories {
		if h.ID == history.ID {
			return repository.ErrDuplicate
		}
	}
	r.histories = append(r.histories, *history)
	return nil
}

func (r *memHistoryRepo) GetByID(_ context.Context, id string) (*domain.WorkoutHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.histories {
		if h.ID == id {
			return &h, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memHistoryRepo) GetByUserID(_ context.Context, userID primitive.ObjectID, newestFirst bool) ([]domain.WorkoutHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []domain.WorkoutHistory
	for _, h := range r.histories {
		if h.UserID == userID {
			list = append(list, h)
		}
	}
	slices.SortStableFunc(list, func(a, b domain.WorkoutHistory) int {
		if newestFirst {
			return b.CompletedAt.Compare(a.CompletedAt)
		}
		return a.CompletedAt.Compare(b.CompletedAt)
	})
	return list, nil
}

type memPerformanceRepo struct {
	mu      sync.Mutex
	records []domain.WorkoutPerformance
	counts  int
}

func (r *memPerformanceRepo) Create(_ context.Context, perf *domain.WorkoutPerformance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.records {
		if p.ID == perf.ID {
			return repository.ErrDuplicate
		}
	}
	r.records = append(r.records, *perf)
	return nil
}

func (r *memPerformanceRepo) filter(keep func(p domain.WorkoutPerformance) bool) []domain.WorkoutPerformance {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []domain.WorkoutPerformance
	for _, p := range r.records {
		if keep(p) {
			list = append(list, p)
		}
	}
	return list
}

func (r *memPerformanceRepo) GetByHistoryID(_ context.Context, historyID string) ([]domain.WorkoutPerformance, error) {
	return r.filter(func(p domain.WorkoutPerformance) bool { return p.HistoryID == historyID }), nil
}

func (r *memPerformanceRepo) GetByUserAndExercise(_ context.Context, userID, exerciseID primitive.ObjectID) ([]domain.WorkoutPerformance, error) {
	return r.filter(func(p domain.WorkoutPerformance) bool {
		return p.UserID == userID && p.ExerciseID == exerciseID
	}), nil
}

func (r *memPerformanceRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutPerformance, error) {
	return r.filter(func(p domain.WorkoutPerformance) bool { return p.UserID == userID }), nil
}

func (r *memPerformanceRepo) CountSetsByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var total int64
	for _, p := range r.filter(func(p domain.WorkoutPerformance) bool { return p.UserID == userID }) {
		total += int64(p.SetsCompleted)
	}
	r.mu.Lock()
	r.counts++
	r.mu.Unlock()
	return total, nil
}

func (r *memPerformanceRepo) CountCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts
}

type memReminderRepo struct {
	mu        sync.Mutex
	reminders map[primitive.ObjectID]domain.Reminder
}

func newMemReminderRepo() *memReminderRepo {
	return &memReminderRepo{reminders: map[primitive.ObjectID]domain.Reminder{}}
}

func (r *memReminderRepo) Create(_ context.Context, reminder *domain.Reminder) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reminder.ID = primitive.NewObjectID()
	r.reminders[reminder.ID] = *reminder
	return reminder.ID, nil
}

func (r *memReminderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.reminders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rem, nil
}

func (r *memReminderRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []domain.Reminder
	for _, rem := range r.reminders {
		if rem.UserID == userID {
			list = append(list, rem)
		}
	}
	return list, nil
}

func (r *memReminderRepo) Update(_ context.Context, reminder *domain.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reminders[reminder.ID]; !ok {
		return repository.ErrNotFound
	}
	r.reminders[reminder.ID] = *reminder
	return nil
}

func (r *memReminderRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reminders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.reminders, id)
	return nil
}

// memStorage keeps object bodies in memory and hands out fake URLs.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/put/" + objectKey, nil
}

func (s *memStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/get/" + objectKey, nil
}

func (s *memStorage) PutObject(_ context.Context, objectKey, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = data
	s.types[objectKey] = contentType
	return nil
}

func (s *memStorage) StatObject(_ context.Context, objectKey string) (*storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objectKey]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.ObjectInfo{Size: int64(len(data)), ContentType: s.types[objectKey]}, nil
}

func (s *memStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey)
	return nil
}

func (s *memStorage) Object(objectKey string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objectKey]
	return data, ok
}

// --- Test world ---

type world struct {
	users       *memUserRepo
	exercises   *memExerciseRepo
	uploads     *memUploadRepo
	plans       *memPlanRepo
	entries     *memEntryRepo
	histories   *memHistoryRepo
	performance *memPerformanceRepo
	reminders   *memReminderRepo
	storage     *memStorage

	exerciseSvc ExerciseService
	planSvc     WorkoutPlanService
	historySvc  HistoryService
}

func newWorld() *world {
	w := &world{
		users:       newMemUserRepo(),
		exercises:   newMemExerciseRepo(),
		uploads:     &memUploadRepo{},
		plans:       newMemPlanRepo(),
		entries:     newMemEntryRepo(),
		histories:   &memHistoryRepo{},
		performance: &memPerformanceRepo{},
		reminders:   newMemReminderRepo(),
		storage:     newMemStorage(),
	}
	w.exerciseSvc = NewExerciseService(w.exercises, w.uploads, w.storage)
	w.planSvc = NewWorkoutPlanService(w.plans, w.entries, w.exercises)
	w.historySvc = NewHistoryService(w.histories, w.performance, w.plans, w.exercises, w.storage)
	return w
}

// seedPlan stores a plan for userID with one entry per (sets, reps) pair.
func (w *world) seedPlan(userID primitive.ObjectID, name string, targets ...[2]int) (*domain.WorkoutPlan, []domain.Exercise) {
	ctx := context.Background()
	plan := &domain.WorkoutPlan{UserID: userID, Name: name}
	_, _ = w.plans.Create(ctx, plan)

	var exercises []domain.Exercise
	for i, t := range targets {
		ex := &domain.Exercise{CreatedBy: userID, Name: fmt.Sprintf("Exercise %d", i+1)}
		_, _ = w.exercises.Create(ctx, ex)
		exercises = append(exercises, *ex)
		_, _ = w.entries.Create(ctx, &domain.WorkoutExercise{
			PlanID:      plan.ID,
			ExerciseID:  ex.ID,
			Sets:        t[0],
			Reps:        t[1],
			OrderIndex:  i,
			RestSeconds: domain.DefaultRestSeconds,
		})
	}
	return plan, exercises
}
