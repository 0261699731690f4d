// Package engine wires the task stores, workflow rules, and event bus into
// the services commands and the HTTP API consume.
package engine

import (
	"context"

	"github.com/studioops/reelflow/internal/core/config"
	"github.com/studioops/reelflow/internal/core/eventbus"
	"github.com/studioops/reelflow/internal/core/logging"
	"github.com/studioops/reelflow/internal/core/task"
	"github.com/studioops/reelflow/internal/data/db"
)

// App is the central entry point for all reelflow operations.
// Commands and the HTTP server consume App instead of cherry-picking raw
// dependencies.
type App struct {
	Tasks     *TaskService
	Snapshots *SnapshotService

	Config *config.Config
	Bus    *eventbus.EventBus
	DB     *db.DB
}

// NewApp constructs an App from explicit dependencies. The snapshot service
// subscribes to task mutation events so views refresh after every store
// write.
func NewApp(
	cfg *config.Config,
	bus *eventbus.EventBus,
	database *db.DB,
	tasks task.Store,
	clients task.ClientStore,
	employees task.EmployeeStore,
) *App {
	snapshots := NewSnapshotService(cfg.Rules(), cfg.Operator, bus, tasks, clients, employees)

	// Every store mutation re-enters the pipeline through a fresh snapshot.
	log := logging.Component("engine")
	refresh := func() {
		if err := snapshots.Reload(context.Background()); err != nil {
			log.Error().Err(err).Msg("snapshot reload after mutation")
		}
	}
	bus.SubscribeTaskCreated(func(eventbus.TaskCreatedPayload) { refresh() })
	bus.SubscribeTaskTransitioned(func(eventbus.TaskTransitionedPayload) { refresh() })
	bus.SubscribeTaskAssigned(func(eventbus.TaskAssignedPayload) { refresh() })
	bus.SubscribeTaskRouted(func(eventbus.TaskRoutedPayload) { refresh() })
	bus.SubscribeTaskRevision(func(eventbus.TaskRevisionPayload) { refresh() })

	return &App{
		Tasks:     NewTaskService(tasks, cfg.Rules(), bus),
		Snapshots: snapshots,
		Config:    cfg,
		Bus:       bus,
		DB:        database,
	}
}
