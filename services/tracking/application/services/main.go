package services

import (
	"github.com/ghuser/signalbridge/pkg/app"
	"github.com/ghuser/signalbridge/pkg/cache"
	"github.com/ghuser/signalbridge/pkg/config"
	"github.com/ghuser/signalbridge/services/tracking/infrastructure/capi"
	"github.com/ghuser/signalbridge/services/tracking/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Pipeline   *PipelineService
	Connection *ConnectionService
}

// New wires all tracking application services with infrastructure from the
// Application container.
func New(a *app.Application, cfg *config.Config) *Services {
	repo := postgres.NewConnectionRepository(a.Db)
	connCache := cache.NewConnectionCache(a.Redis)
	transport := capi.NewClient(cfg)
	return &Services{
		Pipeline:   NewPipelineService(repo, connCache, transport, a.EventBus, a.Logger),
		Connection: NewConnectionService(repo, connCache),
	}
}
