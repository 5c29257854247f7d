// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the car
// marketplace web project. Commands are organized using the cobra
// library. The root command starts the web server itself (with its
// background jobs) while the "db" sub-command can be used for the
// database management actions. The financial estimator may be used
// offline by the "estimate" sub-command and development tokens may be
// issued by the "token" sub-command.
//
//	./cmweb [-c /path/of/main/config.yaml]           # start web server
//	./cmweb db init [-c /path/of/main/config.yaml]
//	./cmweb db migrate up|down [N] [-c /path/of/main/config.yaml]
//	./cmweb db migrate version [-c /path/of/main/config.yaml]
//	./cmweb estimate emi --price 900000 --down 100000
//	./cmweb token --role dealer --email d@example.com
//	./cmweb config show
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momeni/car-market/pkg/adapter/config"
	"github.com/momeni/car-market/pkg/adapter/config/cfg1"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/migration"
	"github.com/momeni/car-market/pkg/adapter/jobs"
	"github.com/momeni/car-market/pkg/adapter/metrics"
	"github.com/momeni/car-market/pkg/adapter/realtime/wshub"
	"github.com/momeni/car-market/pkg/adapter/restful/gin"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/routes"
	"github.com/momeni/car-market/pkg/core/log"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/usecase/dbuc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds the graceful shutdown of the server and jobs.
const shutdownTimeout = 15 * time.Second

var (
	cfgPath  string
	envFiles []string
)

var rootCmd = &cobra.Command{
	Use:   "cmweb",
	Short: "Car marketplace web server",
	Long: `Car marketplace web server which lets approved dealers list
their cars, lets customers search and compare them, book test drives,
chat with dealers, and set price alerts, and lets administrators
moderate dealers and subscriptions.
The financial estimator computes loan installments, trade-in values,
loan eligibility, and on-road price breakdowns. It is available both
by the REST API and offline by the estimate sub-command.
Background jobs evaluate the price alerts and prune old notifications
on their cron schedules.`,
	RunE:         serve,
	SilenceUsage: true,
}

// loadConfig loads the configuration file and installs the configured
// structured logger as the default slog logger.
func loadConfig() (*cfg1.Config, error) {
	path := config.Path(cfgPath, "configs/sample-config.yaml")
	c, err := config.Load(path, envFiles...)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", path, err)
	}
	h, err := c.Logger.NewHandler(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("creating log handler: %w", err)
	}
	slog.SetDefault(slog.New(h))
	return c, nil
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(
		cmd.Context(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	v, dirty, err := dbuc.New(c.DBSettings()).Version(ctx)
	if err != nil {
		return fmt.Errorf("checking DB version: %w", err)
	}
	if dirty || v != migration.Latest {
		return fmt.Errorf(
			"DB schema version is %d (dirty=%v), expected %d; "+
				"run the db migrate up command", v, dirty, migration.Latest,
		)
	}
	p, err := c.Database.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)
	hub, err := wshub.New(wshub.WithClientsGauge(collector.WSClients()))
	if err != nil {
		return fmt.Errorf("creating notifications hub: %w", err)
	}
	defer hub.Close()
	tokens, err := c.Auth.NewTokens()
	if err != nil {
		return fmt.Errorf("creating tokens verifier: %w", err)
	}
	mailer, err := c.Mail.NewMailer()
	if err != nil {
		return fmt.Errorf("creating mailer: %w", err)
	}

	gin.SetReleaseMode()
	e := c.Gin.NewEngine()
	app, err := routes.Register(ctx, e, p, c, routes.Deps{
		Tokens:    tokens,
		Collector: collector,
		Gatherer:  reg,
		Mailer:    mailer,
		Stream:    hub,
	})
	if err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	sched, err := jobs.New(
		c.Jobs.Config(),
		app.AlertsUseCase(),
		app.NotificationsUseCase(),
		collector,
	)
	if err != nil {
		return fmt.Errorf("creating jobs scheduler: %w", err)
	}
	sched.Start()
	log.Info(
		ctx, "background jobs started",
		slog.String("alerts", c.Jobs.AlertsSchedule),
		slog.String("prune", c.Jobs.PruneSchedule),
		log.Valuer("retention", c.Jobs.Retention),
	)

	srv := &http.Server{
		Addr:              c.Gin.Address,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "serving", slog.String("address", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err = <-errCh:
	case <-ctx.Done():
		log.Info(ctx, "shutting down")
	}
	sctx, cancel := context.WithTimeout(
		context.Background(), shutdownTimeout,
	)
	defer cancel()
	hub.Close()
	shutdownErr := srv.Shutdown(sctx)
	jobsErr := sched.Stop(sctx)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	if err = errors.Join(err, shutdownErr, jobsErr); err != nil {
		return fmt.Errorf("running server: %w", err)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code may
// be a boolean (zero for success and non-zero for failure) or may be
// chosen based on the error condition (if it is desired to report
// several error conditions in the CLI of this program).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "",
		"config file path (defaults to $CONFIG_FILE)",
	)
	rootCmd.PersistentFlags().StringSliceVar(
		&envFiles, "env-file", nil,
		"dotenv files with secrets (defaults to ./.env if it exists)",
	)
}
