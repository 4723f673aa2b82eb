package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
)

func TestAddTaskWithValidSchedule(t *testing.T) {
	scheduler := NewScheduler(logr.Discard())
	taskKey := "test-task"
	schedule := "* * * * *" // Every minute
	action := func() {}
	err := scheduler.AddTask(taskKey, schedule, action)
	if err != nil {
		t.Errorf("Expected no error when adding a task with a valid schedule but got: %v", err)
	}

	if _, exists := scheduler.tasks[taskKey]; !exists {
		t.Errorf("Task was not added to the tasks map")
	}
}

func TestAddTaskWithInvalidSchedule(t *testing.T) {
	scheduler := NewScheduler(logr.Discard())
	err := scheduler.AddTask("test-task", "invalid-cron-expression", func() {})
	if err == nil {
		t.Errorf("Expected an error when adding a task with an invalid schedule but got none")
	}
}

func TestAddExistingTaskWithNewSchedule(t *testing.T) {
	scheduler := NewScheduler(logr.Discard())
	taskKey := "test-task"
	schedule1 := "* * * * *" // Every minute
	schedule2 := "0 0 * * *" // Midnight every day
	action := func() {}

	if err := scheduler.AddTask(taskKey, schedule1, action); err != nil {
		t.Errorf("Expected no error when adding a task with a valid schedule but got: %v", err)
	}
	if err := scheduler.AddTask(taskKey, schedule2, action); err != nil {
		t.Errorf("Expected no error when updating an existing task with a new schedule but got: %v", err)
	}

	task := scheduler.tasks[taskKey]
	if task.Schedule != schedule2 {
		t.Errorf("Task schedule was not updated correctly. Expected %v, got %v", schedule2, task.Schedule)
	}
	if len(scheduler.cron.Entries()) != 1 {
		t.Errorf("Expected a single cron entry after update, got %d", len(scheduler.cron.Entries()))
	}
}

func TestRemoveTask(t *testing.T) {
	scheduler := NewScheduler(logr.Discard())
	taskKey := "test-task"

	if err := scheduler.AddTask(taskKey, "* * * * *", func() {}); err != nil {
		t.Fatalf("Expected no error adding task: %v", err)
	}
	scheduler.RemoveTask(taskKey)

	if _, exists := scheduler.tasks[taskKey]; exists {
		t.Errorf("Task was not removed from the tasks map")
	}
	if len(scheduler.cron.Entries()) != 0 {
		t.Errorf("Expected no cron entries after removal, got %d", len(scheduler.cron.Entries()))
	}
}

func TestScheduledActionRuns(t *testing.T) {
	scheduler := NewScheduler(logr.Discard())

	var mu sync.Mutex
	ran := false
	err := scheduler.AddTask("test-task", "@every 100ms", func() {
		mu.Lock()
		ran = true
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Expected no error adding task: %v", err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	deadline := time.After(3 * time.Second)
	for {
		mu.Lock()
		done := ran
		mu.Unlock()
		if done {
			return
		}
		select {
		case <-deadline:
			t.Fatal("Scheduled action did not run in time")
		case <-time.After(50 * time.Millisecond):
		}
	}
}
