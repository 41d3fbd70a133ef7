package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/powchain/app/services/node/handlers"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
	"github.com/ardanlabs/powchain/foundation/blockchain/worker"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/logger"
	"github.com/ardanlabs/powchain/foundation/nameservice"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	// Configuration values will be passed through the application as individual
	// values.
	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10m"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
			PrivateHost     string        `conf:"default:0.0.0.0:9080"`
			CorsOrigins     []string      `conf:"default:*"`
		}
		State struct {
			WalletPath     string        `conf:"default:zblock/node.ecdsa"`
			GenesisPath    string        `conf:"help:optional genesis file, json or yaml"`
			TxPerBlock     int           `conf:"default:-1"`
			AutoMine       bool          `conf:"default:false"`
			PeerUpdateTime time.Duration `conf:"default:1m"`
			KnownPeers     []string      `conf:"default:0.0.0.0:9080;0.0.0.0:9180"`
		}
		NameService struct {
			Folder string `conf:"default:zblock/accounts/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work blockchain node",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Name Service Support

	// The nameservice package provides name resolution for addresses. The
	// names come from the key file names in the accounts folder.
	ns, err := nameservice.New(cfg.NameService.Folder)
	if err != nil {
		return fmt.Errorf("unable to load account name service: %w", err)
	}

	// Logging the addresses for documentation in the logs.
	for address, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "address", address)
	}

	// =========================================================================
	// Blockchain Support

	// Every node starts from the same genesis information. The hardcoded
	// network is used unless a genesis file is provided.
	gen := genesis.Default()
	if cfg.State.GenesisPath != "" {
		gen, err = genesis.Load(cfg.State.GenesisPath)
		if err != nil {
			return fmt.Errorf("unable to load genesis: %w", err)
		}
	}

	// The wallet holds the key the node mines and spends with. A new key is
	// created the first time the node runs.
	wlt, err := wallet.Load(cfg.State.WalletPath)
	if err != nil {
		return fmt.Errorf("unable to load wallet for node: %w", err)
	}
	log.Infow("startup", "status", "wallet", "address", wlt.Address(), "name", ns.Lookup(wlt.Address()))

	// A peer set is a collection of known nodes in the network so transactions
	// and blocks can be shared.
	peerSet := peer.NewPeerSet()
	for _, host := range cfg.State.KnownPeers {
		if strings.TrimSpace(host) == "" {
			continue
		}
		peerSet.Add(peer.New(host))
	}

	// The blockchain packages accept a function of this signature to allow the
	// application to log. Messages for the viewer are also sent to any
	// websocket client that is connected through the events package.
	evts := events.New()
	ev := evts.Handler(log)

	// The state value represents the blockchain node and manages the blockchain
	// database and provides an API for application support.
	st, err := state.New(state.Config{
		Wallet:     wlt,
		Host:       cfg.Web.PrivateHost,
		Genesis:    gen,
		TxPerBlock: cfg.State.TxPerBlock,
		KnownPeers: peerSet,
		EvHandler:  ev,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	// The worker package implements the different workflows such as mining,
	// block and transaction sharing, and peer updates. The worker will
	// register itself with the state.
	worker.Run(st, worker.Config{
		AutoMine:       cfg.State.AutoMine,
		PeerUpdateTime: cfg.State.PeerUpdateTime,
	}, ev)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log, st)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listeners. It is
	// buffered for both api servers so neither goroutine blocks on exit.
	serverErrors := make(chan error, 2)

	// =========================================================================
	// Start API Services

	log.Infow("startup", "status", "initializing V1 API support")

	muxCfg := handlers.MuxConfig{
		Shutdown:    shutdown,
		Log:         log,
		State:       st,
		NS:          ns,
		Evts:        evts,
		CorsOrigins: cfg.Web.CorsOrigins,
	}

	// The public api serves wallets and viewers, the private api serves
	// the peers of the network.
	newServer := func(host string, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:         host,
			Handler:      mux,
			ReadTimeout:  cfg.Web.ReadTimeout,
			WriteTimeout: cfg.Web.WriteTimeout,
			IdleTimeout:  cfg.Web.IdleTimeout,
			ErrorLog:     zap.NewStdLog(log.Desugar()),
		}
	}

	servers := []struct {
		name   string
		server *http.Server
	}{
		{name: "public", server: newServer(cfg.Web.PublicHost, handlers.PublicMux(muxCfg))},
		{name: "private", server: newServer(cfg.Web.PrivateHost, handlers.PrivateMux(muxCfg))},
	}

	for _, srv := range servers {
		go func() {
			log.Infow("startup", "status", srv.name+" api router started", "host", srv.server.Addr)
			serverErrors <- srv.server.ListenAndServe()
		}()
	}

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Each server gets its own deadline to shed load. The private api
		// goes first so peers stop pushing blocks while wallets finish.
		for i := len(servers) - 1; i >= 0; i-- {
			srv := servers[i]

			log.Infow("shutdown", "status", "shutdown "+srv.name+" API started")
			if err := shutdownServer(srv.server, cfg.Web.ShutdownTimeout); err != nil {
				return fmt.Errorf("could not stop %s service gracefully: %w", srv.name, err)
			}
		}
	}

	return nil
}

func shutdownServer(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		srv.Close()
		return err
	}

	return nil
}
