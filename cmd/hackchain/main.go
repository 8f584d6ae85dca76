package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/hackchain/internal/authorizer"
	"github.com/goodnatureofminers/hackchain/internal/mempool"
	"github.com/goodnatureofminers/hackchain/internal/metrics"
	"github.com/goodnatureofminers/hackchain/internal/repository/leveldb"
	"github.com/goodnatureofminers/hackchain/internal/validation"
	"github.com/goodnatureofminers/hackchain/internal/vm"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	DataDir       string        `long:"data-dir" env:"HACKCHAIN_DATA_DIR" description:"ledger directory" default:"./data"`
	Subsidy       uint64        `long:"subsidy" env:"HACKCHAIN_SUBSIDY" description:"value minted by every coinbase" default:"2500000000"`
	MintInterval  time.Duration `long:"mint-interval" env:"HACKCHAIN_MINT_INTERVAL" description:"interval between mints, 0 mints only on signal" default:"10s"`
	MintRate      int           `long:"mint-rate" env:"HACKCHAIN_MINT_RATE" description:"max mints per second, 0 is unlimited" default:"1"`
	CoinbaseGuard string        `long:"coinbase-guard" env:"HACKCHAIN_COINBASE_GUARD" description:"assembly of the guard locking coinbase outputs" default:"irq success"`
	PoolCapacity  int           `long:"pool-capacity" env:"HACKCHAIN_POOL_CAPACITY" description:"max pending transactions, at most 4095 so one block drains them all" default:"1024"`
	Workers       int           `long:"workers" env:"HACKCHAIN_WORKERS" description:"authorization workers" default:"4"`
	MaxAttempts   int           `long:"max-attempts" env:"HACKCHAIN_MAX_ATTEMPTS" description:"attempts per authorization before giving up on crashing workers" default:"3"`
	MaxInitTicks  int           `long:"max-init-ticks" env:"HACKCHAIN_MAX_INIT_TICKS" description:"tick budget of the guard running alone" default:"262144"`
	MaxTicks      int           `long:"max-ticks" env:"HACKCHAIN_MAX_TICKS" description:"tick budget of guard and claim running together" default:"262144"`
	MetricsAddr   string        `long:"metrics-addr" env:"HACKCHAIN_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	ZMQAddr       string        `long:"zmq-addr" env:"HACKCHAIN_ZMQ_ADDR" description:"zmq publisher whose messages trigger a mint"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("hackchain failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) (err error) {
	guard, err := vm.ParseAsm(cfg.CoinbaseGuard)
	if err != nil {
		return fmt.Errorf("parse coinbase guard: %w", err)
	}

	chain, err := leveldb.Open(cfg.DataDir, logger.Named("chain"), metrics.NewChainRepository())
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer func() {
		err = multierr.Append(err, chain.Close())
	}()

	auth, err := authorizer.New(logger.Named("authorizer"), metrics.NewAuthorizer(), authorizer.Config{
		Workers:      cfg.Workers,
		MaxAttempts:  cfg.MaxAttempts,
		MaxInitTicks: cfg.MaxInitTicks,
		MaxTicks:     cfg.MaxTicks,
	})
	if err != nil {
		return fmt.Errorf("init authorizer: %w", err)
	}

	verifier, err := validation.NewVerifier(logger.Named("verifier"), chain, auth, metrics.NewVerifier(), cfg.Workers)
	if err != nil {
		return fmt.Errorf("init verifier: %w", err)
	}

	pool, err := mempool.NewPool(logger.Named("mempool"), verifier, chain, metrics.NewMempool(), mempool.Config{
		Capacity: cfg.PoolCapacity,
		Guard:    guard,
	})
	if err != nil {
		return fmt.Errorf("init mempool: %w", err)
	}

	mintSignal, err := startMintSignal(ctx, cfg.ZMQAddr, logger.Named("signal"))
	if err != nil {
		return fmt.Errorf("init mint signal: %w", err)
	}

	minter, err := mempool.NewMinter(logger.Named("minter"), pool, chain, mempool.MinterConfig{
		Subsidy:      cfg.Subsidy,
		Interval:     cfg.MintInterval,
		MaxPerSecond: cfg.MintRate,
	}, mintSignal)
	if err != nil {
		return fmt.Errorf("init minter: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	auth.Start(gctx)
	defer auth.Stop()

	g.Go(func() error {
		return serveMetrics(gctx, cfg.MetricsAddr, logger)
	})
	g.Go(func() error {
		return minter.Run(gctx)
	})

	logger.Info("hackchain started",
		zap.String("data_dir", cfg.DataDir),
		zap.Duration("mint_interval", cfg.MintInterval),
		zap.Int("workers", cfg.Workers),
	)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()

	logger.Info("starting metrics server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return ctx.Err()
}
