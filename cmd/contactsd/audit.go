package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/config"
	"github.com/soldatov-s/go-contacts/domains/contacts/events"
	"github.com/soldatov-s/go-contacts/providers/rabbitmq"
	"github.com/spf13/cobra"
)

func createAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "command for logging contact change events from rabbitmq",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return errors.Wrap(err, "parse config")
			}

			ctx, manager, err := newManager(cmd.Context(), cfg, "", os.Stdout)
			if err != nil {
				return errors.Wrap(err, "new manager")
			}

			rabbitEnity, err := rabbitmq.NewEnity(ctx, brokerEnityName, cfg.RabbitMQ)
			if err != nil {
				return errors.Wrap(err, "new rabbitmq enity")
			}

			consumer, err := rabbitEnity.AddConsumer(ctx, cfg.Consumer)
			if err != nil {
				return errors.Wrap(err, "add consumer")
			}

			if err := manager.Add(ctx, rabbitEnity); err != nil {
				return errors.Wrap(err, "add rabbitmq enity")
			}

			if err := manager.Start(ctx); err != nil {
				return errors.Wrap(err, "start")
			}

			if err := consumer.Subscribe(ctx, manager.ErrorGroup(), events.NewAuditor()); err != nil {
				return errors.Wrap(err, "subscribe")
			}

			if err := manager.OSSignalWaiter(ctx); err != nil {
				return errors.Wrap(err, "os signal waiter")
			}

			return manager.Loop(ctx)
		},
	}
}
