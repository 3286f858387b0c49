package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/config"
	"github.com/soldatov-s/go-contacts/domains/contacts"
	"github.com/spf13/cobra"
)

func createExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [names...]",
		Short: "command for exporting contacts to vCard, every contact when no names given",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return errors.Wrap(err, "parse config")
			}

			// stdout may hold the vCard
			ctx, manager, err := newManager(cmd.Context(), cfg, "", cmd.ErrOrStderr())
			if err != nil {
				return errors.Wrap(err, "new manager")
			}

			service, err := buildService(ctx, cfg, manager, false)
			if err != nil {
				return errors.Wrap(err, "build service")
			}

			if err := manager.Start(ctx); err != nil {
				return errors.Wrap(err, "start")
			}
			defer func() {
				if err := manager.Shutdown(ctx); err != nil {
					cmd.PrintErrln(err)
				}
			}()

			if out != "" {
				return exportToFile(ctx, service, args, out)
			}

			return writeExport(ctx, service, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")

	return cmd
}

func exportToFile(ctx context.Context, service *contacts.Service, names []string, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = errors.Wrap(cErr, "close output file")
		}
	}()

	return writeExport(ctx, service, names, f)
}

func writeExport(ctx context.Context, service *contacts.Service, names []string, w io.Writer) error {
	if len(names) == 0 {
		names = nil
	}

	data, err := service.Export(ctx, names)
	if err != nil {
		return errors.Wrap(err, "export contacts")
	}

	if _, err := io.WriteString(w, data); err != nil {
		return errors.Wrap(err, "write vcard")
	}

	return nil
}
