package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/webserv/core/cgi"
	"github.com/dmitrymomot/webserv/core/config"
	"github.com/dmitrymomot/webserv/core/cookie"
	"github.com/dmitrymomot/webserv/core/router"
	"github.com/dmitrymomot/webserv/core/server"
	"github.com/dmitrymomot/webserv/core/session"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "webserv",
		Short:         "HTTP origin server with CGI execution and cookie-correlated sessions.",
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVarP(&configPath, "config", "c", "webserv.yaml", "Path to the YAML configuration file.")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "webserv:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var srvCfg server.Config
	if err := config.Load(&srvCfg); err != nil {
		return err
	}
	var sessCfg session.Config
	if err := config.Load(&sessCfg); err != nil {
		return err
	}
	var cookieCfg cookie.Config
	if err := config.Load(&cookieCfg); err != nil {
		return err
	}

	file, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	routes, err := file.Routes()
	if err != nil {
		return err
	}
	rt, err := router.New(routes)
	if err != nil {
		return err
	}
	pages, err := server.LoadErrorPages(file.ErrorPages)
	if err != nil {
		return err
	}

	// The config file overrides environment defaults where it speaks up.
	if file.Addr != "" {
		srvCfg.Addr = file.Addr
	}
	if file.MaxBodySize > 0 {
		srvCfg.MaxBodyBytes = file.MaxBodySize
	}

	sessOpts := []session.Option{}
	if file.SessionTTL > 0 {
		sessOpts = append(sessOpts, session.WithTTL(file.SessionTTL))
	}
	sessions := session.NewFromConfig(sessCfg, sessOpts...)

	execOpts := []cgi.Option{
		cgi.WithLogger(log),
		cgi.WithSessions(sessions),
	}
	if file.CGITimeout > 0 {
		execOpts = append(execOpts, cgi.WithTimeout(file.CGITimeout))
	}
	if file.ServerName != "" {
		execOpts = append(execOpts, cgi.WithServerSoftware(file.ServerName))
	}
	executor := cgi.New(execOpts...)

	srv, err := server.NewFromConfig(srvCfg,
		server.WithLogger(log),
		server.WithRouter(rt),
		server.WithSessions(sessions),
		server.WithExecutor(executor),
		server.WithCookieConfig(cookieCfg),
		server.WithErrorPages(pages),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx))
	g.Go(sessions.Run(ctx))
	return g.Wait()
}
