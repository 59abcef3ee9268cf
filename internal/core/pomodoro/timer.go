package pomodoro

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"pomodorotasks/internal/core/model"
)

var (
	ErrAlreadyRunning  = errors.New("a pomodoro is already running")
	ErrNothingToPause  = errors.New("no running pomodoro to pause")
	ErrNothingToResume = errors.New("no paused pomodoro to resume")
	ErrNoTaskAvailable = errors.New("no tasks available, create a task first")
	ErrDecisionPending = errors.New("waiting for a decision on the finished session")
	ErrDisposed        = errors.New("timer disposed")
)

// Choices offered when a session expires.
const (
	ChoiceStartBreak = "Start break"
	ChoiceContinue   = "Continue"
	ChoiceStop       = "Stop"
)

// Notifier shows messages to the user and asks binary questions.
type Notifier interface {
	Info(message string)
	Warn(message string)
	// Choose blocks until one of options is picked. An empty choice means
	// the prompt was dismissed.
	Choose(ctx context.Context, message string, options ...string) (string, error)
}

// TaskStore supplies tasks to work on and counts finished pomodoros.
type TaskStore interface {
	FirstPending(ctx context.Context) (*model.Task, error)
	RecordPomodoro(ctx context.Context, taskID string) error
}

// SessionLog receives a record for every completed work session.
type SessionLog interface {
	Append(record model.SessionRecord) error
}

// Options contains runtime options for Timer.
type Options struct {
	TickInterval time.Duration
	Now          func() time.Time
}

// Timer is the pomodoro session state machine.
type Timer struct {
	mu       sync.Mutex
	config   model.TimerConfig
	options  Options
	notifier Notifier
	tasks    TaskStore
	history  SessionLog

	state     model.TimerState
	kind      model.SessionKind
	task      *model.Task
	remaining int
	total     int
	completed int
	// session is the config captured when the current session started.
	session model.TimerConfig
	// pendingResumeTask keeps the work task across a break.
	pendingResumeTask *model.Task

	generation uint64
	stopCh     chan struct{}

	awaiting       bool
	decisionID     uint64
	decisionCancel context.CancelFunc

	disposed bool
	events   []chan Event
}

// New creates an idle Timer with the provided configuration.
func New(config model.TimerConfig, options Options) *Timer {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	return &Timer{
		config:  config.Normalized(),
		options: options,
		state:   model.StateIdle,
		kind:    model.SessionWork,
	}
}

// SetNotifier injects the notification sink.
func (timer *Timer) SetNotifier(notifier Notifier) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.notifier = notifier
}

// SetTaskStore injects the task store.
func (timer *Timer) SetTaskStore(tasks TaskStore) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.tasks = tasks
}

// SetSessionLog injects the session history.
func (timer *Timer) SetSessionLog(history SessionLog) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.history = history
}

// Subscribe registers a new observer channel. Delivery never blocks the
// timer: an event, work_complete included, is dropped for a subscriber whose
// buffer is full. Subscribers that must not miss a completed session need a
// buffer larger than the events they can fall behind by and must drain it.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	if timer.disposed {
		close(ch)
	} else {
		timer.events = append(timer.events, ch)
	}
	timer.mu.Unlock()
	return ch
}

// UpdateConfig replaces the configuration used by sessions started from now on.
func (timer *Timer) UpdateConfig(config model.TimerConfig) {
	timer.mu.Lock()
	timer.config = config.Normalized()
	timer.mu.Unlock()
}

// Status returns a snapshot of the timer.
func (timer *Timer) Status() model.Status {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.statusLocked()
}

// Start runs the start command: it resumes a paused session, otherwise it
// starts a work session on task or, when task is nil, on the first pending task.
func (timer *Timer) Start(ctx context.Context, task *model.Task) error {
	timer.mu.Lock()
	state, awaiting, disposed, store := timer.state, timer.awaiting, timer.disposed, timer.tasks
	timer.mu.Unlock()

	switch {
	case disposed:
		return ErrDisposed
	case awaiting:
		return timer.reject(ErrDecisionPending)
	case state == model.StatePaused && task == nil:
		return timer.Resume()
	case state == model.StateRunning:
		return timer.reject(ErrAlreadyRunning)
	}

	if task == nil {
		if store == nil {
			return timer.reject(ErrNoTaskAvailable)
		}
		pending, err := store.FirstPending(ctx)
		if err != nil {
			log.Printf("pomodoro: first pending task: %v", err)
			return fmt.Errorf("first pending task: %w", err)
		}
		if pending == nil {
			return timer.reject(ErrNoTaskAvailable)
		}
		task = pending
	}

	return timer.StartWork(ctx, task)
}

// StartWork begins a work session on task.
func (timer *Timer) StartWork(ctx context.Context, task *model.Task) error {
	if task == nil {
		return timer.reject(ErrNoTaskAvailable)
	}

	timer.mu.Lock()
	if err := timer.commandErrLocked(); err != nil {
		timer.mu.Unlock()
		return timer.reject(err)
	}
	if timer.state == model.StateRunning {
		timer.mu.Unlock()
		return timer.reject(ErrAlreadyRunning)
	}
	timer.startWorkLocked(task)
	timer.emitStateLocked()
	timer.mu.Unlock()

	timer.info(fmt.Sprintf("Pomodoro started for: %s", task.Name))
	return nil
}

// Pause freezes the running session.
func (timer *Timer) Pause() error {
	timer.mu.Lock()
	if err := timer.commandErrLocked(); err != nil {
		timer.mu.Unlock()
		return timer.reject(err)
	}
	if timer.state != model.StateRunning {
		timer.mu.Unlock()
		return timer.reject(ErrNothingToPause)
	}
	timer.disarmLocked()
	timer.state = model.StatePaused
	timer.emitStateLocked()
	timer.mu.Unlock()

	timer.info("Pomodoro paused")
	return nil
}

// Resume continues a paused session from the frozen remaining time.
func (timer *Timer) Resume() error {
	timer.mu.Lock()
	if err := timer.commandErrLocked(); err != nil {
		timer.mu.Unlock()
		return timer.reject(err)
	}
	if timer.state != model.StatePaused {
		timer.mu.Unlock()
		return timer.reject(ErrNothingToResume)
	}
	timer.state = model.StateRunning
	timer.armLocked()
	timer.emitStateLocked()
	timer.mu.Unlock()

	timer.info("Pomodoro resumed")
	return nil
}

// Stop returns the timer to idle. A pending decision is abandoned.
func (timer *Timer) Stop() {
	timer.mu.Lock()
	if timer.disposed {
		timer.mu.Unlock()
		return
	}
	timer.stopLocked()
	timer.emitStateLocked()
	timer.mu.Unlock()

	timer.info("Pomodoro stopped")
}

// Dispose disarms the ticker, abandons any pending decision and closes observers.
func (timer *Timer) Dispose() {
	timer.mu.Lock()
	if timer.disposed {
		timer.mu.Unlock()
		return
	}
	timer.disarmLocked()
	timer.cancelDecisionLocked()
	timer.disposed = true
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (timer *Timer) run(generation uint64, stopCh <-chan struct{}) {
	ticker := time.NewTicker(timer.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			timer.tick(generation)
		}
	}
}

func (timer *Timer) tick(generation uint64) {
	timer.mu.Lock()
	if timer.disposed || generation != timer.generation || timer.state != model.StateRunning || timer.awaiting {
		state := timer.state
		timer.mu.Unlock()
		log.Printf("pomodoro: ignoring tick (generation %d, state %s)", generation, state)
		return
	}

	timer.remaining--
	if timer.remaining > 0 {
		warning := timer.warningLocked()
		status := timer.statusLocked()
		status.PlaySound = warning != ""
		timer.emitLocked(Event{Type: EventTick, Status: status, At: timer.options.Now()})
		if warning != "" {
			timer.emitLocked(Event{Type: EventWarning, Status: status, Message: warning, At: timer.options.Now()})
		}
		timer.mu.Unlock()

		if warning != "" {
			timer.notify(warning)
		}
		return
	}

	timer.remaining = 0
	timer.disarmLocked()
	timer.awaiting = true
	timer.decisionID++
	expired := timer.kind
	token := timer.decisionID

	var record *model.SessionRecord
	var finished *model.Task
	if expired == model.SessionWork {
		timer.completed++
		if timer.task != nil {
			finished = copyTask(timer.task)
			record = timer.recordLocked(finished)
		}
	}
	notifications := timer.config.Notifications && timer.notifier != nil
	store, history := timer.tasks, timer.history
	timer.emitStateLocked()
	timer.mu.Unlock()

	if finished != nil {
		timer.recordCompletion(store, history, finished, record)
	}
	timer.decide(token, expired, notifications)
}

// recordCompletion persists a finished work session outside the lock.
func (timer *Timer) recordCompletion(store TaskStore, history SessionLog, task *model.Task, record *model.SessionRecord) {
	if history != nil {
		if err := history.Append(*record); err != nil {
			log.Printf("pomodoro: append session history: %v", err)
		}
	}
	if store != nil {
		if err := store.RecordPomodoro(context.Background(), task.ID); err != nil {
			log.Printf("pomodoro: record pomodoro for %s: %v", task.ID, err)
		}
	}

	timer.mu.Lock()
	timer.emitLocked(Event{
		Type:   EventWorkComplete,
		Status: timer.statusLocked(),
		Task:   task,
		At:     timer.options.Now(),
	})
	timer.mu.Unlock()
}

func (timer *Timer) decide(token uint64, expired model.SessionKind, notifications bool) {
	if !notifications {
		if expired == model.SessionWork {
			timer.resolve(token, expired, ChoiceStartBreak)
		} else {
			timer.resolve(token, expired, ChoiceStop)
		}
		return
	}

	message := "Pomodoro complete! Time for a break."
	options := []string{ChoiceStartBreak, ChoiceStop}
	if expired.IsBreak() {
		message = "Break is over! Ready for the next pomodoro?"
		options = []string{ChoiceContinue, ChoiceStop}
	}

	ctx, cancel := context.WithCancel(context.Background())
	timer.mu.Lock()
	if token != timer.decisionID || !timer.awaiting {
		timer.mu.Unlock()
		cancel()
		return
	}
	timer.decisionCancel = cancel
	notifier := timer.notifier
	timer.emitLocked(Event{Type: EventDecision, Status: timer.statusLocked(), Message: message, At: timer.options.Now()})
	timer.mu.Unlock()

	choice, err := notifier.Choose(ctx, message, options...)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("pomodoro: decision prompt: %v", err)
	}
	timer.resolve(token, expired, choice)
}

func (timer *Timer) resolve(token uint64, expired model.SessionKind, choice string) {
	timer.mu.Lock()
	if token != timer.decisionID || !timer.awaiting || timer.disposed {
		timer.mu.Unlock()
		log.Printf("pomodoro: ignoring stale decision %q", choice)
		return
	}
	timer.cancelDecisionLocked()

	var message string
	switch {
	case expired == model.SessionWork && choice == ChoiceStartBreak:
		kind, duration := timer.startBreakLocked()
		message = fmt.Sprintf("%s started (%d min)", breakName(kind), int(duration/time.Minute))
	case expired.IsBreak() && choice == ChoiceContinue && timer.pendingResumeTask != nil:
		task := timer.pendingResumeTask
		timer.startWorkLocked(task)
		message = fmt.Sprintf("Pomodoro started for: %s", task.Name)
	default:
		timer.stopLocked()
		message = "Pomodoro stopped"
	}
	timer.emitStateLocked()
	timer.mu.Unlock()

	timer.info(message)
}

func (timer *Timer) startWorkLocked(task *model.Task) {
	timer.disarmLocked()
	timer.session = timer.config
	timer.state = model.StateRunning
	timer.kind = model.SessionWork
	timer.task = copyTask(task)
	timer.pendingResumeTask = copyTask(task)
	timer.remaining = int(timer.session.WorkDuration / time.Second)
	timer.total = timer.remaining
	timer.armLocked()
}

func (timer *Timer) startBreakLocked() (model.SessionKind, time.Duration) {
	timer.disarmLocked()
	timer.session = timer.config

	kind := model.SessionShortBreak
	duration := timer.session.ShortBreakDuration
	if timer.completed%timer.session.LongBreakInterval == 0 {
		kind = model.SessionLongBreak
		duration = timer.session.LongBreakDuration
	}

	timer.state = model.StateRunning
	timer.kind = kind
	timer.task = nil
	timer.remaining = int(duration / time.Second)
	timer.total = timer.remaining
	timer.armLocked()
	return kind, duration
}

func (timer *Timer) stopLocked() {
	timer.disarmLocked()
	timer.cancelDecisionLocked()
	timer.state = model.StateIdle
	timer.kind = model.SessionWork
	timer.task = nil
	timer.pendingResumeTask = nil
	timer.remaining = 0
	timer.total = 0
}

func (timer *Timer) armLocked() {
	timer.disarmLocked()
	if timer.disposed {
		return
	}
	stopCh := make(chan struct{})
	timer.stopCh = stopCh
	go timer.run(timer.generation, stopCh)
}

// disarmLocked stops the ticking goroutine. Bumping the generation makes any
// tick already waiting on the lock a no-op.
func (timer *Timer) disarmLocked() {
	if timer.stopCh != nil {
		close(timer.stopCh)
		timer.stopCh = nil
	}
	timer.generation++
}

func (timer *Timer) cancelDecisionLocked() {
	if timer.decisionCancel != nil {
		timer.decisionCancel()
		timer.decisionCancel = nil
	}
	if timer.awaiting {
		timer.awaiting = false
		timer.decisionID++
	}
}

func (timer *Timer) commandErrLocked() error {
	if timer.disposed {
		return ErrDisposed
	}
	if timer.awaiting {
		return ErrDecisionPending
	}
	return nil
}

func (timer *Timer) warningLocked() string {
	if timer.kind != model.SessionWork {
		return ""
	}
	for _, minutes := range timer.session.WarningMinutes {
		if timer.remaining == minutes*60 {
			if minutes == 1 {
				return "1 minute left in this pomodoro"
			}
			return fmt.Sprintf("%d minutes left in this pomodoro", minutes)
		}
	}
	return ""
}

func (timer *Timer) recordLocked(task *model.Task) *model.SessionRecord {
	now := timer.options.Now()
	duration := timer.session.WorkDuration
	return &model.SessionRecord{
		TaskID:          task.ID,
		StartTime:       now.Add(-duration),
		EndTime:         now,
		DurationMinutes: int(duration / time.Minute),
		Kind:            model.SessionWork,
		Completed:       true,
	}
}

func (timer *Timer) statusLocked() model.Status {
	status := model.Status{
		State:                 timer.state,
		RemainingTime:         timer.remaining,
		TotalTime:             timer.total,
		SessionKind:           timer.kind,
		CompletedWorkSessions: timer.completed,
		AwaitingDecision:      timer.awaiting,
	}
	if timer.kind == model.SessionWork && timer.state != model.StateIdle {
		status.CurrentTask = copyTask(timer.task)
	}
	return status
}

// reject reports err as a warning. Status is never touched.
func (timer *Timer) reject(err error) error {
	if errors.Is(err, ErrDisposed) {
		return err
	}
	timer.mu.Lock()
	notifier := timer.notifier
	timer.mu.Unlock()
	if notifier != nil {
		notifier.Warn(err.Error())
	}
	return err
}

// info shows a message for a direct action unless actions are silent.
func (timer *Timer) info(message string) {
	timer.mu.Lock()
	notifier, silent := timer.notifier, timer.config.SilentActions
	timer.mu.Unlock()
	if notifier != nil && !silent {
		notifier.Info(message)
	}
}

// notify shows a message regardless of the silent actions setting.
func (timer *Timer) notify(message string) {
	timer.mu.Lock()
	notifier := timer.notifier
	timer.mu.Unlock()
	if notifier != nil {
		notifier.Info(message)
	}
}

func (timer *Timer) emitStateLocked() {
	timer.emitLocked(Event{
		Type:   EventStateChange,
		Status: timer.statusLocked(),
		At:     timer.options.Now(),
	})
}

func (timer *Timer) emitLocked(event Event) {
	for _, ch := range timer.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func breakName(kind model.SessionKind) string {
	if kind == model.SessionLongBreak {
		return "Long break"
	}
	return "Short break"
}

func copyTask(task *model.Task) *model.Task {
	if task == nil {
		return nil
	}
	clone := *task
	return &clone
}
