package main

import (
	"context"
	"os"

	echolib "github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/app"
	"github.com/soldatov-s/go-contacts/config"
	"github.com/soldatov-s/go-contacts/domains/contacts"
	v1 "github.com/soldatov-s/go-contacts/domains/contacts/v1"
	"github.com/soldatov-s/go-contacts/providers/echo"
	"github.com/spf13/cobra"
)

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Parse()
	if err != nil {
		return errors.Wrap(err, "parse config")
	}

	ctx, manager, err := newManager(cmd.Context(), cfg, echo.ProviderName+"_"+httpEnityName, os.Stdout)
	if err != nil {
		return errors.Wrap(err, "new manager")
	}

	service, err := buildService(ctx, cfg, manager, true)
	if err != nil {
		return errors.Wrap(err, "build service")
	}

	if _, err := buildHTTP(ctx, cfg, manager, service); err != nil {
		return errors.Wrap(err, "build http")
	}

	if err := manager.Start(ctx); err != nil {
		return errors.Wrap(err, "start")
	}

	if err := manager.OSSignalWaiter(ctx); err != nil {
		return errors.Wrap(err, "os signal waiter")
	}

	return manager.Loop(ctx)
}

// buildHTTP creates public HTTP server with viewer API and, when admin
// password hash is configured, admin API behind basic auth.
func buildHTTP(ctx context.Context, cfg *config.Config, manager *app.Manager, service *contacts.Service) (*echo.Enity, error) {
	srv, err := echo.NewEnity(ctx, httpEnityName, cfg.HTTP, echo.DefaultMiddlewares(ctx)...)
	if err != nil {
		return nil, errors.Wrap(err, "new echo enity")
	}

	api, err := srv.APIGroup(ctx, v1.Version, manager.Meta().BuildInfo(), v1.GetSwagger)
	if err != nil {
		return nil, errors.Wrap(err, "api group")
	}

	var admin *echolib.Group
	if cfg.Admin.Enabled() {
		admin = api.Group("/admin", echo.BasicAuth(cfg.Admin.User, cfg.Admin.PasswordHash))
	} else {
		srv.GetLogger(ctx).Warn().Msg("admin password hash is empty, admin API is disabled")
	}

	handler := v1.NewHandler(service,
		v1.WithTheme(cfg.Theme),
		v1.WithFileName(cfg.Export.FileName),
	)
	handler.Register(api, admin)

	if err := manager.Add(ctx, srv); err != nil {
		return nil, errors.Wrap(err, "add echo enity")
	}

	return srv, nil
}
