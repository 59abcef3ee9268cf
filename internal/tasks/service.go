package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pomodorotasks/internal/core/model"
)

var ErrInvalidTask = errors.New("invalid task")

// Repository persists tasks. storage.TaskDB implements it.
type Repository interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	Insert(ctx context.Context, task model.Task) error
	Update(ctx context.Context, task model.Task) error
	Delete(ctx context.Context, id string) error
}

// ChangeType describes a task mutation.
type ChangeType string

const (
	ChangeCreated   ChangeType = "created"
	ChangeUpdated   ChangeType = "updated"
	ChangeDeleted   ChangeType = "deleted"
	ChangeCompleted ChangeType = "completed"
	ChangeImported  ChangeType = "imported"
)

// Change is published after every successful mutation.
type Change struct {
	Type   ChangeType
	TaskID string
}

// Patch lists the fields Update changes. Nil fields are kept.
type Patch struct {
	Name               *string
	Description        *string
	EstimatedPomodoros *int
}

// Service owns the task list.
type Service struct {
	repo Repository
	now  func() time.Time

	// writeMu serializes mutations so a read-modify-write never loses a
	// concurrent change to the same row.
	writeMu sync.Mutex

	mu          sync.Mutex
	subscribers []chan Change
}

// NewService creates a service over repo.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Subscribe registers a change observer. Slow observers miss changes.
func (service *Service) Subscribe(buffer int) <-chan Change {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Change, buffer)
	service.mu.Lock()
	service.subscribers = append(service.subscribers, ch)
	service.mu.Unlock()
	return ch
}

// Create validates and stores a new task.
func (service *Service) Create(ctx context.Context, name, description string, estimated int) (model.Task, error) {
	service.writeMu.Lock()
	defer service.writeMu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, fmt.Errorf("%w: name is required", ErrInvalidTask)
	}
	if estimated <= 0 {
		return model.Task{}, fmt.Errorf("%w: estimated pomodoros must be positive", ErrInvalidTask)
	}

	task := model.Task{
		ID:                 uuid.NewString(),
		Name:               name,
		Description:        strings.TrimSpace(description),
		EstimatedPomodoros: estimated,
		CreatedAt:          service.now(),
	}
	if err := service.repo.Insert(ctx, task); err != nil {
		return model.Task{}, err
	}
	service.publish(Change{Type: ChangeCreated, TaskID: task.ID})
	return task, nil
}

// CreateFromName stores a one-pomodoro task, used by quick-add surfaces.
func (service *Service) CreateFromName(ctx context.Context, name string) (model.Task, error) {
	return service.Create(ctx, name, "", 1)
}

// Update applies patch to the task with id.
func (service *Service) Update(ctx context.Context, id string, patch Patch) (model.Task, error) {
	service.writeMu.Lock()
	defer service.writeMu.Unlock()

	task, err := service.repo.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return model.Task{}, fmt.Errorf("%w: name is required", ErrInvalidTask)
		}
		task.Name = name
	}
	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.EstimatedPomodoros != nil {
		if *patch.EstimatedPomodoros <= 0 {
			return model.Task{}, fmt.Errorf("%w: estimated pomodoros must be positive", ErrInvalidTask)
		}
		task.EstimatedPomodoros = *patch.EstimatedPomodoros
	}

	if err := service.repo.Update(ctx, task); err != nil {
		return model.Task{}, err
	}
	service.publish(Change{Type: ChangeUpdated, TaskID: id})
	return task, nil
}

// Delete removes the task with id.
func (service *Service) Delete(ctx context.Context, id string) error {
	service.writeMu.Lock()
	defer service.writeMu.Unlock()

	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}
	service.publish(Change{Type: ChangeDeleted, TaskID: id})
	return nil
}

// Complete marks the task done.
func (service *Service) Complete(ctx context.Context, id string) (model.Task, error) {
	service.writeMu.Lock()
	defer service.writeMu.Unlock()

	task, err := service.repo.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if task.IsCompleted {
		return task, nil
	}

	now := service.now()
	task.IsCompleted = true
	task.CompletedAt = &now
	if err := service.repo.Update(ctx, task); err != nil {
		return model.Task{}, err
	}
	service.publish(Change{Type: ChangeCompleted, TaskID: id})
	return task, nil
}

// IncrementPomodoroCount adds one finished pomodoro to the task.
func (service *Service) IncrementPomodoroCount(ctx context.Context, id string) (model.Task, error) {
	service.writeMu.Lock()
	defer service.writeMu.Unlock()

	task, err := service.repo.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	task.CompletedPomodoros++
	if err := service.repo.Update(ctx, task); err != nil {
		return model.Task{}, err
	}
	service.publish(Change{Type: ChangeUpdated, TaskID: id})
	return task, nil
}

// RecordPomodoro counts a finished work session for the timer.
func (service *Service) RecordPomodoro(ctx context.Context, taskID string) error {
	_, err := service.IncrementPomodoroCount(ctx, taskID)
	return err
}

// Get returns the task with id.
func (service *Service) Get(ctx context.Context, id string) (model.Task, error) {
	return service.repo.Get(ctx, id)
}

// All returns every task in creation order.
func (service *Service) All(ctx context.Context) ([]model.Task, error) {
	return service.repo.List(ctx)
}

// FirstPending returns the oldest task not yet completed, or nil.
func (service *Service) FirstPending(ctx context.Context) (*model.Task, error) {
	all, err := service.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if !all[i].IsCompleted {
			return &all[i], nil
		}
	}
	return nil, nil
}

// ImportBookmarks stores bookmark tasks whose ids are not present yet and
// returns how many were added.
func (service *Service) ImportBookmarks(ctx context.Context, bookmarks []model.Task) (int, error) {
	service.writeMu.Lock()
	defer service.writeMu.Unlock()

	all, err := service.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[string]struct{}, len(all))
	for _, task := range all {
		known[task.ID] = struct{}{}
	}

	added := 0
	for _, task := range bookmarks {
		if _, ok := known[task.ID]; ok {
			continue
		}
		if task.CreatedAt.IsZero() {
			task.CreatedAt = service.now()
		}
		if err := service.repo.Insert(ctx, task); err != nil {
			return added, err
		}
		known[task.ID] = struct{}{}
		added++
	}

	if added > 0 {
		log.Printf("tasks: imported %d bookmarks", added)
		service.publish(Change{Type: ChangeImported})
	}
	return added, nil
}

func (service *Service) publish(change Change) {
	service.mu.Lock()
	defer service.mu.Unlock()
	for _, ch := range service.subscribers {
		select {
		case ch <- change:
		default:
		}
	}
}
