package commands

import (
	"net"
	"os"

	"github.com/de-tools/tenant-health/pkg/runtime/terminal/export"
	"github.com/de-tools/tenant-health/pkg/server"
	"github.com/de-tools/tenant-health/pkg/services/healthcheck"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultAddr = ":8080"

type ServeCmd struct {
	env  *Env
	addr string
}

func NewServeCmd(env *Env) *cobra.Command {
	sc := &ServeCmd{env: env}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API that runs sweeps on request",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.addr, "addr", defaultAddr, "Address to listen on")

	return cmd
}

func (sc *ServeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)
	cfg := sc.env.Config

	addr := sc.addr
	host, port := os.Getenv("SERVER_HOST"), os.Getenv("SERVER_PORT")
	if !cmd.Flags().Changed("addr") && host != "" && port != "" {
		addr = net.JoinHostPort(host, port)
	}

	sink := export.NewFileSink(cfg.Output.Dir, export.DefaultArtifactName, sc.env.Now)
	svc := healthcheck.NewService(cfg, sink, sc.env.Now)

	webAPI := server.NewWebAPI(*logger, server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Service: svc,
		},
	})

	return webAPI.Start(ctx)
}
