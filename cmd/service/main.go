package main

import (
	"context"

	"github.com/Tandera-io/integracao-lia-teams/pkg/config"
	"github.com/Tandera-io/integracao-lia-teams/pkg/log"
	"github.com/Tandera-io/integracao-lia-teams/service"
)

func main() {
	var cfg service.Config
	if err := config.LoadAndValidateConfig(&cfg); err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	logger, err := log.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("cannot create logger: %v", err)
	}
	log.Set(logger)
	log.Infof("config: %v", cfg.String())
	s, err := service.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("cannot create service: %v", err)
	}
	if err = s.Serve(); err != nil {
		log.Fatalf("cannot serve service: %v", err)
	}
}
