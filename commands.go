package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aladdinbruv/docproche-sub000/config"
	"github.com/aladdinbruv/docproche-sub000/database"
	"github.com/aladdinbruv/docproche-sub000/events"
	"github.com/aladdinbruv/docproche-sub000/repository"
	"github.com/aladdinbruv/docproche-sub000/services"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, closeDB, err := newMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			count, err := migrator.Up(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, closeDB, err := newMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-8s %-30s %-8s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status, appliedAt := "pending", ""
				if s.Applied {
					status = "applied"
					appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(out, "%03d      %-30s %-8s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	})

	return cmd
}

func newMigrator(cmd *cobra.Command) (*database.Migrator, func(), error) {
	cfg, log, err := setup()
	if err != nil {
		return nil, nil, err
	}

	migrations, err := database.Load()
	if err != nil {
		return nil, nil, err
	}

	pool, err := database.NewPool(cmd.Context(), cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	return database.NewMigrator(pool, migrations, log), pool.Close, nil
}

func notifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Consume domain events and send notification e-mails",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			if !cfg.RabbitMQ.Enabled {
				return errors.New("notify needs RABBITMQ_ENABLED=true")
			}

			client, err := config.NewSupabaseClient(cfg)
			if err != nil {
				return err
			}

			notifier := services.NewNotifier(
				repository.NewUserRepository(client),
				repository.NewPrescriptionRepository(client),
				services.NewSMTPMailer(cfg),
				log,
			)

			consumer, err := events.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue, notifier, log)
			if err != nil {
				return fmt.Errorf("connect rabbitmq: %w", err)
			}
			defer consumer.Close()

			return consumer.Run(cmd.Context())
		},
	}
}
