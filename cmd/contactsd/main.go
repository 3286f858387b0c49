package main

import (
	"context"
	"os"

	"github.com/soldatov-s/go-contacts/app"
	"github.com/spf13/cobra"
)

const description = "Contact viewer and admin service"

// Filled by ldflags on build.
var (
	appName = "contactsd"
	builded = "unknown"
	hash    = "unknown"
	version = "0.0.0"
)

func metaDeps() *app.MetaDeps {
	return &app.MetaDeps{
		Name:        appName,
		Builded:     builded,
		Hash:        hash,
		Version:     version,
		Description: description,
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        description,
		Version:      app.NewMeta(metaDeps()).BuildInfo(),
		SilenceUsage: true,
	}

	root.AddCommand(
		app.CreateServeCmd(serve),
		app.CreatePingCmd(),
		createExportCmd(),
		createAuditCmd(),
		createHashPasswordCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
