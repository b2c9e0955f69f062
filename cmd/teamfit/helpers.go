package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	service "github.com/okian/teamfit/internal/app"
	"github.com/okian/teamfit/pkg/logger"
)

// startService builds and starts the engine from the resolved configuration.
// A non-empty profilesPath replaces the configured profile seed.
func startService(ctx context.Context, o *rootOptions, profilesPath string) (*service.Service, error) {
	opts := append(service.OptionsFromConfig(o.cfg), service.WithLogger(logger.Named("service")))
	if profilesPath != "" {
		opts = append(opts, service.WithProfilesPath(profilesPath))
	}
	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}
	return svc, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
