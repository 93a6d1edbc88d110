package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Tandera-io/integracao-lia-teams/auth"
	"github.com/Tandera-io/integracao-lia-teams/dispatcher"
	"github.com/Tandera-io/integracao-lia-teams/graph"
	"github.com/Tandera-io/integracao-lia-teams/pkg/log"
	"github.com/Tandera-io/integracao-lia-teams/pkg/security/jwt"
	"github.com/Tandera-io/integracao-lia-teams/pkg/security/oauth/manager"
	"github.com/Tandera-io/integracao-lia-teams/pkg/sync/queue"
	"github.com/Tandera-io/integracao-lia-teams/store"
	"github.com/Tandera-io/integracao-lia-teams/subscription"
	"go.uber.org/zap"
)

// Service watches the provider for new meeting recordings and forwards them
// to the transcription API.
type Service struct {
	server     *http.Server
	oauth      *manager.Manager
	graph      *graph.Client
	dispatcher *dispatcher.Dispatcher
	taskQueue  *queue.Queue
	renewer    *subscription.Renewer
}

// New creates the service and wires its components together.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Set(logger)

	oauth := manager.New(cfg.Clients.OAuth)
	graphClient := graph.New(cfg.Clients.Graph, oauth)
	states := store.NewClientStates()

	disp := dispatcher.New(cfg.Clients.TranscriptionAPI, graphClient)
	taskQueue, err := queue.New(cfg.TaskQueue)
	if err != nil {
		oauth.Close()
		graphClient.Close()
		disp.Close()
		return nil, fmt.Errorf("cannot create task queue: %w", err)
	}

	subManager := subscription.NewManager(cfg.Subscription, graphClient, states)
	if err := subManager.Resync(ctx); err != nil {
		// Not fatal: subscriptions created after startup still verify.
		log.Warnf("%v", err)
	}
	renewer, err := subscription.NewRenewer(cfg.Subscription.Renewal, subManager)
	if err != nil {
		oauth.Close()
		graphClient.Close()
		disp.Close()
		taskQueue.Release()
		return nil, fmt.Errorf("cannot create renewer: %w", err)
	}

	var validator auth.TokenValidator
	if cfg.APIs.HTTP.Authorization.JWKSURL != "" {
		validator = jwt.NewValidator(cfg.APIs.HTTP.Authorization.JWKSURL, nil)
	}
	gate := auth.NewGate(cfg.APIs.HTTP.Authorization.SharedKey, validator)

	requestHandler := NewRequestHandler(subManager, states, taskQueue, func(resource string) {
		if err := disp.Dispatch(context.Background(), resource); err != nil {
			log.Errorf("dispatch of %v failed: %v", resource, err)
		}
	})

	return &Service{
		server: &http.Server{
			Addr:              cfg.APIs.HTTP.Addr,
			Handler:           NewHTTP(requestHandler, gate),
			ReadHeaderTimeout: time.Second * 4,
		},
		oauth:      oauth,
		graph:      graphClient,
		dispatcher: disp,
		taskQueue:  taskQueue,
		renewer:    renewer,
	}, nil
}

// Serve starts the HTTP server and blocks until Close.
func (s *Service) Serve() error {
	err := s.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server ends with error: %w", err)
	}
	return nil
}

// Close shuts down the server and releases all components.
func (s *Service) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.renewer.Close()
	s.taskQueue.Release()
	s.dispatcher.Close()
	s.graph.Close()
	s.oauth.Close()
	return err
}
