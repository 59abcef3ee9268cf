package pomodoro

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"

	"pomodorotasks/internal/core/model"
	"pomodorotasks/internal/core/pomodoro/mocks"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type fakeNotifier struct {
	mu      sync.Mutex
	infos   []string
	warns   []string
	prompts []string
	choices []string
}

func (notifier *fakeNotifier) Info(message string) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.infos = append(notifier.infos, message)
}

func (notifier *fakeNotifier) Warn(message string) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.warns = append(notifier.warns, message)
}

func (notifier *fakeNotifier) Choose(_ context.Context, message string, _ ...string) (string, error) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.prompts = append(notifier.prompts, message)
	if len(notifier.choices) == 0 {
		return "", nil
	}
	choice := notifier.choices[0]
	notifier.choices = notifier.choices[1:]
	return choice, nil
}

func (notifier *fakeNotifier) warnings() []string {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return append([]string(nil), notifier.warns...)
}

type fakeStore struct {
	mu       sync.Mutex
	tasks    []*model.Task
	recorded []string
}

func (store *fakeStore) FirstPending(context.Context) (*model.Task, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, task := range store.tasks {
		if !task.IsCompleted {
			clone := *task
			return &clone, nil
		}
	}
	return nil, nil
}

func (store *fakeStore) RecordPomodoro(_ context.Context, taskID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.recorded = append(store.recorded, taskID)
	return nil
}

type memoryLog struct {
	mu      sync.Mutex
	records []model.SessionRecord
}

func (history *memoryLog) Append(record model.SessionRecord) error {
	history.mu.Lock()
	defer history.mu.Unlock()
	history.records = append(history.records, record)
	return nil
}

func testConfig() model.TimerConfig {
	config := model.DefaultTimerConfig()
	config.WorkDuration = time.Minute
	config.Notifications = false
	config.WarningMinutes = nil
	return config
}

// newTestTimer returns a timer whose ticker never fires on its own; tests
// drive it with advance.
func newTestTimer(t *testing.T, config model.TimerConfig) (*Timer, *fakeNotifier) {
	t.Helper()
	timer := New(config, Options{
		TickInterval: time.Hour,
		Now:          func() time.Time { return testNow },
	})
	notifier := &fakeNotifier{}
	timer.SetNotifier(notifier)
	t.Cleanup(timer.Dispose)
	return timer, notifier
}

func advance(timer *Timer, ticks int) {
	for i := 0; i < ticks; i++ {
		timer.mu.Lock()
		generation := timer.generation
		timer.mu.Unlock()
		timer.tick(generation)
	}
}

func taskA() *model.Task {
	return &model.Task{ID: "a", Name: "A", EstimatedPomodoros: 2}
}

func TestStartWorkThenStop(t *testing.T) {
	for _, task := range []*model.Task{taskA(), {ID: "b", Name: "B"}} {
		timer, _ := newTestTimer(t, model.DefaultTimerConfig())
		if err := timer.StartWork(context.Background(), task); err != nil {
			t.Fatalf("StartWork() error: %v", err)
		}
		running := timer.Status()
		if running.State != model.StateRunning || running.RemainingTime != 25*60 {
			t.Fatalf("after start: state=%s remaining=%d", running.State, running.RemainingTime)
		}
		if running.CurrentTask == nil || running.CurrentTask.ID != task.ID {
			t.Fatalf("CurrentTask = %+v, want %s", running.CurrentTask, task.ID)
		}

		timer.Stop()
		want := model.Status{State: model.StateIdle, SessionKind: model.SessionWork}
		if diff := cmp.Diff(want, timer.Status()); diff != "" {
			t.Errorf("status after stop mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestStartWorkWhileRunning(t *testing.T) {
	timer, notifier := newTestTimer(t, model.DefaultTimerConfig())
	if err := timer.StartWork(context.Background(), taskA()); err != nil {
		t.Fatalf("StartWork() error: %v", err)
	}
	advance(timer, 3)
	before := timer.Status()

	err := timer.StartWork(context.Background(), &model.Task{ID: "b", Name: "B"})
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("StartWork() error = %v, want ErrAlreadyRunning", err)
	}
	if diff := cmp.Diff(before, timer.Status()); diff != "" {
		t.Errorf("rejected start changed status (-before +after):\n%s", diff)
	}
	if got := notifier.warnings(); len(got) != 1 || got[0] != ErrAlreadyRunning.Error() {
		t.Errorf("warnings = %v", got)
	}
}

func TestStartWorkWithoutTask(t *testing.T) {
	timer, _ := newTestTimer(t, model.DefaultTimerConfig())
	if err := timer.StartWork(context.Background(), nil); !errors.Is(err, ErrNoTaskAvailable) {
		t.Fatalf("StartWork(nil) error = %v, want ErrNoTaskAvailable", err)
	}
	if timer.Status().State != model.StateIdle {
		t.Errorf("state = %s, want idle", timer.Status().State)
	}
}

func TestPauseResumePreservesSession(t *testing.T) {
	timer, _ := newTestTimer(t, model.DefaultTimerConfig())
	if err := timer.StartWork(context.Background(), taskA()); err != nil {
		t.Fatalf("StartWork() error: %v", err)
	}
	advance(timer, 10)
	before := timer.Status()

	if err := timer.Pause(); err != nil {
		t.Fatalf("Pause() error: %v", err)
	}
	paused := timer.Status()
	if paused.State != model.StatePaused {
		t.Fatalf("state = %s, want paused", paused.State)
	}

	advance(timer, 5)
	if got := timer.Status().RemainingTime; got != before.RemainingTime {
		t.Fatalf("remaining changed while paused: %d, want %d", got, before.RemainingTime)
	}

	if err := timer.Resume(); err != nil {
		t.Fatalf("Resume() error: %v", err)
	}
	if diff := cmp.Diff(before, timer.Status()); diff != "" {
		t.Errorf("pause/resume changed status (-before +after):\n%s", diff)
	}
}

func TestPauseTwiceIsNoop(t *testing.T) {
	timer, _ := newTestTimer(t, model.DefaultTimerConfig())
	if err := timer.StartWork(context.Background(), taskA()); err != nil {
		t.Fatalf("StartWork() error: %v", err)
	}
	if err := timer.Pause(); err != nil {
		t.Fatalf("Pause() error: %v", err)
	}
	first := timer.Status()

	if err := timer.Pause(); !errors.Is(err, ErrNothingToPause) {
		t.Fatalf("second Pause() error = %v, want ErrNothingToPause", err)
	}
	if diff := cmp.Diff(first, timer.Status()); diff != "" {
		t.Errorf("second pause changed status (-first +second):\n%s", diff)
	}
}

func TestResumeWhenNotPaused(t *testing.T) {
	timer, _ := newTestTimer(t, model.DefaultTimerConfig())
	if err := timer.Resume(); !errors.Is(err, ErrNothingToResume) {
		t.Fatalf("Resume() error = %v, want ErrNothingToResume", err)
	}
}

func TestWorkExpiryStartsShortBreak(t *testing.T) {
	timer, _ := newTestTimer(t, testConfig())
	store := &fakeStore{}
	history := &memoryLog{}
	timer.SetTaskStore(store)
	timer.SetSessionLog(history)

	if err := timer.StartWork(context.Background(), taskA()); err != nil {
		t.Fatalf("StartWork() error: %v", err)
	}
	advance(timer, 60)

	status := timer.Status()
	if status.CompletedWorkSessions != 1 {
		t.Errorf("CompletedWorkSessions = %d, want 1", status.CompletedWorkSessions)
	}
	if status.SessionKind != model.SessionShortBreak {
		t.Errorf("SessionKind = %s, want shortBreak", status.SessionKind)
	}
	if status.RemainingTime != 5*60 {
		t.Errorf("RemainingTime = %d, want 300", status.RemainingTime)
	}
	if status.State != model.StateRunning || status.CurrentTask != nil {
		t.Errorf("break status = %+v", status)
	}

	wantRecord := []model.SessionRecord{{
		TaskID:          "a",
		StartTime:       testNow.Add(-time.Minute),
		EndTime:         testNow,
		DurationMinutes: 1,
		Kind:            model.SessionWork,
		Completed:       true,
	}}
	if diff := cmp.Diff(wantRecord, history.records); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, store.recorded); diff != "" {
		t.Errorf("recorded pomodoros mismatch (-want +got):\n%s", diff)
	}

	// The break runs out without notifications: the timer stops and the
	// counter survives.
	advance(timer, 5*60)
	status = timer.Status()
	if status.State != model.StateIdle || status.CompletedWorkSessions != 1 {
		t.Errorf("after break: state=%s completed=%d", status.State, status.CompletedWorkSessions)
	}
	if len(history.records) != 1 {
		t.Errorf("break added a history record: %d", len(history.records))
	}
}

func TestLongBreakCadence(t *testing.T) {
	timer, _ := newTestTimer(t, testConfig())
	want := []model.SessionKind{
		model.SessionShortBreak,
		model.SessionShortBreak,
		model.SessionShortBreak,
		model.SessionLongBreak,
		model.SessionShortBreak,
	}

	for i, kind := range want {
		if err := timer.StartWork(context.Background(), taskA()); err != nil {
			t.Fatalf("session %d: StartWork() error: %v", i+1, err)
		}
		advance(timer, 60)
		status := timer.Status()
		if status.CompletedWorkSessions != i+1 {
			t.Fatalf("session %d: CompletedWorkSessions = %d", i+1, status.CompletedWorkSessions)
		}
		if status.SessionKind != kind {
			t.Errorf("session %d: SessionKind = %s, want %s", i+1, status.SessionKind, kind)
		}
		if kind == model.SessionLongBreak && status.RemainingTime != 15*60 {
			t.Errorf("long break RemainingTime = %d, want 900", status.RemainingTime)
		}
		timer.Stop()
	}
}

func TestWorkExpiryPrompt(t *testing.T) {
	tests := []struct {
		name      string
		choice    string
		wantState model.TimerState
		wantKind  model.SessionKind
	}{
		{"StartBreak", ChoiceStartBreak, model.StateRunning, model.SessionShortBreak},
		{"Stop", ChoiceStop, model.StateIdle, model.SessionWork},
		{"Dismissed", "", model.StateIdle, model.SessionWork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			notifier := mocks.NewMockNotifier(ctrl)
			notifier.EXPECT().Info(gomock.Any()).AnyTimes()
			notifier.EXPECT().
				Choose(gomock.Any(), "Pomodoro complete! Time for a break.", ChoiceStartBreak, ChoiceStop).
				Return(tt.choice, nil).
				Times(1)

			config := testConfig()
			config.Notifications = true
			timer, _ := newTestTimer(t, config)
			timer.SetNotifier(notifier)

			if err := timer.StartWork(context.Background(), taskA()); err != nil {
				t.Fatalf("StartWork() error: %v", err)
			}
			advance(timer, 60)

			status := timer.Status()
			if status.State != tt.wantState || status.SessionKind != tt.wantKind {
				t.Errorf("state=%s kind=%s, want %s/%s", status.State, status.SessionKind, tt.wantState, tt.wantKind)
			}
			if status.CompletedWorkSessions != 1 || status.AwaitingDecision {
				t.Errorf("completed=%d awaiting=%v", status.CompletedWorkSessions, status.AwaitingDecision)
			}
		})
	}
}

func TestBreakContinueResumesTask(t *testing.T) {
	config := testConfig()
	config.Notifications = true
	config.ShortBreakDuration = time.Minute
	timer, notifier := newTestTimer(t, config)
	notifier.choices = []string{ChoiceStartBreak, ChoiceContinue}

	if err := timer.StartWork(context.Background(), taskA()); err != nil {
		t.Fatalf("StartWork() error: %v", err)
	}
	advance(timer, 60)
	if got := timer.Status(); got.SessionKind != model.SessionShortBreak || got.CurrentTask != nil {
		t.Fatalf("break status = %+v", got)
	}

	advance(timer, 60)
	status := timer.Status()
	if status.SessionKind != model.SessionWork || status.State != model.StateRunning {
		t.Fatalf("after continue: kind=%s state=%s", status.SessionKind, status.State)
	}
	if status.CurrentTask == nil || status.CurrentTask.ID != "a" {
		t.Errorf("CurrentTask = %+v, want task a", status.CurrentTask)
	}
	if status.RemainingTime != 60 || status.CompletedWorkSessions != 1 {
		t.Errorf("remaining=%d completed=%d", status.RemainingTime, status.CompletedWorkSessions)
	}
	if len(notifier.prompts) != 2 || notifier.prompts[1] != "Break is over! Ready for the next pomodoro?" {
		t.Errorf("prompts = %v", notifier.prompts)
	}
}

type blockingNotifier struct {
	fakeNotifier
	cancelled chan struct{}
}

func (notifier *blockingNotifier) Choose(ctx context.Context, _ string, _ ...string) (string, error) {
	<-ctx.Done()
	close(notifier.cancelled)
	return ChoiceStartBreak, ctx.Err()
}

func TestPendingDecisionBlocksCommands(t *testing.T) {
	config := testConfig()
	config.Notifications = true
	timer, _ := newTestTimer(t, config)
	notifier := &blockingNotifier{cancelled: make(chan struct{})}
	timer.SetNotifier(notifier)
	events := timer.Subscribe(256)

	if err := timer.StartWork(context.Background(), taskA()); err != nil {
		t.Fatalf("StartWork() error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		advance(timer, 60)
	}()
	waitForEvent(t, events, EventDecision)

	pending := timer.Status()
	if !pending.AwaitingDecision || pending.RemainingTime != 0 {
		t.Fatalf("pending status = %+v", pending)
	}
	if err := timer.Pause(); !errors.Is(err, ErrDecisionPending) {
		t.Errorf("Pause() error = %v, want ErrDecisionPending", err)
	}
	if err := timer.Start(context.Background(), nil); !errors.Is(err, ErrDecisionPending) {
		t.Errorf("Start() error = %v, want ErrDecisionPending", err)
	}
	advance(timer, 1)
	if diff := cmp.Diff(pending, timer.Status()); diff != "" {
		t.Errorf("pending status changed (-want +got):\n%s", diff)
	}

	timer.Stop()
	select {
	case <-notifier.cancelled:
	case <-time.After(time.Second):
		t.Fatal("prompt was not cancelled by Stop")
	}
	<-done

	// The late answer from the cancelled prompt is ignored.
	want := model.Status{State: model.StateIdle, SessionKind: model.SessionWork, CompletedWorkSessions: 1}
	if diff := cmp.Diff(want, timer.Status()); diff != "" {
		t.Errorf("status after stop mismatch (-want +got):\n%s", diff)
	}
}

func TestStartCommand(t *testing.T) {
	t.Run("FirstPendingTask", func(t *testing.T) {
		timer, _ := newTestTimer(t, model.DefaultTimerConfig())
		timer.SetTaskStore(&fakeStore{tasks: []*model.Task{
			{ID: "done", Name: "Done", IsCompleted: true},
			{ID: "next", Name: "Next"},
		}})
		if err := timer.Start(context.Background(), nil); err != nil {
			t.Fatalf("Start() error: %v", err)
		}
		if task := timer.Status().CurrentTask; task == nil || task.ID != "next" {
			t.Errorf("CurrentTask = %+v, want next", task)
		}
	})

	t.Run("NoTasks", func(t *testing.T) {
		timer, notifier := newTestTimer(t, model.DefaultTimerConfig())
		timer.SetTaskStore(&fakeStore{})
		if err := timer.Start(context.Background(), nil); !errors.Is(err, ErrNoTaskAvailable) {
			t.Fatalf("Start() error = %v, want ErrNoTaskAvailable", err)
		}
		if len(notifier.warnings()) != 1 {
			t.Errorf("warnings = %v", notifier.warnings())
		}
	})

	t.Run("ResumesPaused", func(t *testing.T) {
		timer, _ := newTestTimer(t, model.DefaultTimerConfig())
		if err := timer.StartWork(context.Background(), taskA()); err != nil {
			t.Fatalf("StartWork() error: %v", err)
		}
		advance(timer, 7)
		if err := timer.Pause(); err != nil {
			t.Fatalf("Pause() error: %v", err)
		}
		if err := timer.Start(context.Background(), nil); err != nil {
			t.Fatalf("Start() error: %v", err)
		}
		status := timer.Status()
		if status.State != model.StateRunning || status.RemainingTime != 25*60-7 {
			t.Errorf("state=%s remaining=%d", status.State, status.RemainingTime)
		}
	})
}

func TestUpdateConfigAppliesToNextSession(t *testing.T) {
	timer, _ := newTestTimer(t, model.DefaultTimerConfig())
	if err := timer.StartWork(context.Background(), taskA()); err != nil {
		t.Fatalf("StartWork() error: %v", err)
	}

	updated := model.DefaultTimerConfig()
	updated.WorkDuration = 50 * time.Minute
	timer.UpdateConfig(updated)

	if status := timer.Status(); status.RemainingTime != 25*60 || status.TotalTime != 25*60 {
		t.Fatalf("running session changed: remaining=%d total=%d", status.RemainingTime, status.TotalTime)
	}

	timer.Stop()
	if err := timer.StartWork(context.Background(), taskA()); err != nil {
		t.Fatalf("StartWork() error: %v", err)
	}
	if got := timer.Status().RemainingTime; got != 50*60 {
		t.Errorf("RemainingTime = %d, want 3000", got)
	}
}

func TestWarningThreshold(t *testing.T) {
	config := testConfig()
	config.WorkDuration = 2 * time.Minute
	config.WarningMinutes = []int{1}
	config.SilentActions = true
	timer, notifier := newTestTimer(t, config)
	events := timer.Subscribe(256)

	if err := timer.StartWork(context.Background(), taskA()); err != nil {
		t.Fatalf("StartWork() error: %v", err)
	}
	advance(timer, 60)

	event := waitForEvent(t, events, EventWarning)
	if !event.Status.PlaySound || event.Status.RemainingTime != 60 {
		t.Errorf("warning status = %+v", event.Status)
	}
	if diff := cmp.Diff([]string{"1 minute left in this pomodoro"}, notifier.infos); diff != "" {
		t.Errorf("infos mismatch (-want +got):\n%s", diff)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	timer, _ := newTestTimer(t, model.DefaultTimerConfig())
	events := timer.Subscribe(16)

	if err := timer.StartWork(context.Background(), taskA()); err != nil {
		t.Fatalf("StartWork() error: %v", err)
	}
	advance(timer, 2)

	want := []struct {
		eventType EventType
		remaining int
	}{
		{EventStateChange, 1500},
		{EventTick, 1499},
		{EventTick, 1498},
	}
	for i, w := range want {
		event := <-events
		if event.Type != w.eventType || event.Status.RemainingTime != w.remaining {
			t.Errorf("event %d = %s/%d, want %s/%d", i, event.Type, event.Status.RemainingTime, w.eventType, w.remaining)
		}
	}
}

func TestFullSubscriberDoesNotBlockTimer(t *testing.T) {
	timer, _ := newTestTimer(t, testConfig())
	stuck := timer.Subscribe(1)
	events := timer.Subscribe(256)

	if err := timer.StartWork(context.Background(), taskA()); err != nil {
		t.Fatalf("StartWork() error: %v", err)
	}
	advance(timer, 60)

	if status := timer.Status(); status.SessionKind != model.SessionShortBreak {
		t.Fatalf("session kind = %s, want short break", status.SessionKind)
	}
	if len(stuck) != 1 {
		t.Errorf("stuck subscriber holds %d events, want 1", len(stuck))
	}

	completions := 0
	for len(events) > 0 {
		if event := <-events; event.Type == EventWorkComplete {
			completions++
		}
	}
	if completions != 1 {
		t.Errorf("work_complete delivered %d times, want 1", completions)
	}
}

func TestDispose(t *testing.T) {
	timer, _ := newTestTimer(t, model.DefaultTimerConfig())
	events := timer.Subscribe(16)
	if err := timer.StartWork(context.Background(), taskA()); err != nil {
		t.Fatalf("StartWork() error: %v", err)
	}
	before := timer.Status()

	timer.Dispose()
	advance(timer, 3)

	if got := timer.Status().RemainingTime; got != before.RemainingTime {
		t.Errorf("tick after dispose: remaining=%d, want %d", got, before.RemainingTime)
	}
	for range events {
	}
	if err := timer.Pause(); !errors.Is(err, ErrDisposed) {
		t.Errorf("Pause() after dispose error = %v, want ErrDisposed", err)
	}
}

func TestTickerDrivesSession(t *testing.T) {
	timer := New(model.DefaultTimerConfig(), Options{TickInterval: 5 * time.Millisecond})
	defer timer.Dispose()
	events := timer.Subscribe(64)

	if err := timer.StartWork(context.Background(), taskA()); err != nil {
		t.Fatalf("StartWork() error: %v", err)
	}
	event := waitForEvent(t, events, EventTick)
	if event.Status.RemainingTime >= 25*60 {
		t.Errorf("tick did not decrement: %d", event.Status.RemainingTime)
	}
}

func waitForEvent(t *testing.T, events <-chan Event, eventType EventType) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				t.Fatalf("events closed while waiting for %s", eventType)
			}
			if event.Type == eventType {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", eventType)
		}
	}
}
