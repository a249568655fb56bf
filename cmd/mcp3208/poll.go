package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/moffa90/go-mcp3208/adc"
	"github.com/moffa90/go-mcp3208/metrics"
	"github.com/moffa90/go-mcp3208/sink"
)

func newPollCmd(flags *globalFlags) *cobra.Command {
	var (
		interval    time.Duration
		count       int
		metricsAddr string
		noMetrics   bool
		redisStream bool
	)

	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Sample every channel periodically",
		Long: `Poll reads all eight channels at a fixed interval and writes one JSON line
per channel to stdout. The last values are exported as Prometheus metrics and
can be appended to a Redis stream.

Corrupt responses are counted and logged; polling continues with the next
round. Transport failures stop the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reg := metrics.NewRegistry()
			m := metrics.NewADCMetrics(reg)

			s, err := openSession(cmd, flags, adc.WithObserver(m))
			if err != nil {
				return err
			}
			defer s.Close()

			if cmd.Flags().Changed("interval") {
				s.cfg.Poll.Interval = interval
			}
			if cmd.Flags().Changed("metrics-addr") {
				s.cfg.Metrics.Addr = metricsAddr
			}
			if noMetrics {
				s.cfg.Metrics.Enable = false
			}
			if redisStream {
				s.cfg.Redis.Enable = true
			}
			if s.cfg.Poll.Interval <= 0 {
				return errors.New("interval must be positive")
			}

			sessionID := uuid.NewString()
			log := s.log.With(zap.String("session", sessionID))

			if s.cfg.Metrics.Enable && s.cfg.Metrics.Addr != "" {
				srv := serveMetrics(s.cfg.Metrics.Addr, s.cfg.Metrics.Path, metrics.Handler(reg), log)
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			var out *sink.RedisSink
			if s.cfg.Redis.Enable {
				rdb, err := sink.Dial(ctx, s.cfg.Redis)
				if err != nil {
					return err
				}
				defer rdb.Close()
				out = sink.NewRedisSink(rdb, s.cfg.Redis.Stream, s.cfg.Redis.MaxLen, sessionID)
				log.Info("publishing to redis", zap.String("stream", s.cfg.Redis.Stream))
			}

			p := &poller{
				reader: s.reader,
				sink:   out,
				enc:    json.NewEncoder(cmd.OutOrStdout()),
				log:    log,
			}
			return p.run(ctx, s.cfg.Poll.Interval, count)
		},
	}

	f := cmd.Flags()
	f.DurationVarP(&interval, "interval", "i", time.Second, "time between rounds")
	f.IntVarP(&count, "count", "n", 0, "stop after this many rounds (0 = until interrupted)")
	f.StringVar(&metricsAddr, "metrics-addr", ":9108", "address to serve Prometheus metrics on")
	f.BoolVar(&noMetrics, "no-metrics", false, "do not serve Prometheus metrics")
	f.BoolVar(&redisStream, "redis", false, "append readings to the configured Redis stream")
	return cmd
}

type poller struct {
	reader *adc.Reader
	sink   *sink.RedisSink
	enc    *json.Encoder
	log    *zap.Logger
}

// run polls until ctx is done or count rounds have completed.
func (p *poller) run(ctx context.Context, interval time.Duration, count int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.log.Info("polling started", zap.Duration("interval", interval), zap.Int("count", count))

	for round := 1; ; round++ {
		if err := p.round(ctx); err != nil {
			return err
		}
		if count > 0 && round >= count {
			p.log.Info("polling finished", zap.Int("rounds", round))
			return nil
		}

		select {
		case <-ctx.Done():
			p.log.Info("polling stopped", zap.Int("rounds", round))
			return nil
		case <-ticker.C:
		}
	}
}

// round reads every channel once. A corrupt response skips the rest of the
// round; anything else is fatal.
func (p *poller) round(ctx context.Context) error {
	readings, err := p.reader.ReadAll(ctx)
	if err != nil {
		var convErr *adc.ConversionError
		switch {
		case errors.As(err, &convErr):
			p.log.Warn("round incomplete", zap.Error(err), zap.Int("readings", len(readings)))
		case ctx.Err() != nil:
			return nil
		default:
			return err
		}
	}

	for _, rd := range readings {
		if err := p.enc.Encode(rd); err != nil {
			return err
		}
	}

	if p.sink != nil && len(readings) > 0 {
		if _, err := p.sink.Publish(ctx, readings); err != nil {
			p.log.Error("publish readings", zap.Error(err))
		}
	}
	return nil
}

func serveMetrics(addr, path string, h http.Handler, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, h)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("serving metrics", zap.String("addr", addr), zap.String("path", path))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", zap.Error(err))
		}
	}()
	return srv
}
