package command

import (
	"context"
	"fmt"

	"github.com/funmud/funmud/internal/gateway"
	"github.com/funmud/funmud/internal/listener"
	"github.com/funmud/funmud/internal/messaging"
	"github.com/funmud/funmud/internal/scene"
	"github.com/funmud/funmud/internal/session"
	"github.com/funmud/funmud/internal/store"
	"github.com/funmud/funmud/internal/worldgen"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Embedded NATS server carrying per-user output subjects
	natsServer, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Static content: item templates, roster, sprites, font
	catalog, err := cfg.Assets.BuildCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading asset catalog: %w", err)
	}

	// Durable world state
	st, err := cfg.Store.BuildStore(context.Background())
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	sessions := session.NewManager(
		st,
		catalog,
		worldgen.New(catalog),
		scene.NewComposer(catalog),
		messaging.NewUserPublisher(natsServer),
	)

	cm := listener.NewConnectionManager(sessions, natsServer)

	// Create Listeners
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lst, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = lst
	}

	workers := service.WorkerList{
		"nats":      natsServer,
		"store":     &storeWorker{store: st},
		"listeners": &listeners,
	}

	if cfg.Gateway != nil {
		workers["gateway"] = gateway.NewServer(cfg.Gateway.Port, sessions, natsServer)
	}

	return workers, nil
}

// storeWorker ties the store's lifetime to the application: it holds the
// store open until shutdown, then closes it.
type storeWorker struct {
	store store.Store
}

func (w *storeWorker) Start(ctx context.Context) error {
	<-ctx.Done()
	return w.store.Close(context.Background())
}
