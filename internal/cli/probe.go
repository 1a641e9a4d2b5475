// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gogama/peekx"
	"github.com/gogama/peekx/internal/config"
	"github.com/gogama/peekx/internal/logging"
	"github.com/gogama/peekx/internal/report"
	"github.com/gogama/peekx/request"
	"github.com/gogama/peekx/timeout"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	probeMethod  string
	probeHTTP2   bool
	probeConnect time.Duration
	probeMax     time.Duration
	probeCount   int
	probeRate    float64
	probeWorkers int
)

var probeCmd = &cobra.Command{
	Use:   "probe URL",
	Short: "Issue classified requests against a URL",
	Long: `Issue a batch of requests against URL, classify each one as a
success, a connect timeout, a duration timeout or a transport error,
and print a latency summary.

Example:
  peekx probe http://localhost:8000/sleep?d=5s --connect 3s --max 4s
  peekx probe https://example.com --count 100 --rate 10 --workers 4 --http2`,
	Args: cobra.ExactArgs(1),
	RunE: runProbeCmd,
}

func init() {
	f := probeCmd.Flags()
	f.StringVarP(&probeMethod, "method", "X", "GET", "HTTP method")
	f.BoolVar(&probeHTTP2, "http2", false, "Use HTTP/2")
	f.DurationVar(&probeConnect, "connect", 0, "Connect bound (overrides probe.connect)")
	f.DurationVar(&probeMax, "max", 0, "Max duration (overrides probe.max)")
	f.IntVarP(&probeCount, "count", "n", 0, "Number of requests (overrides probe.count)")
	f.Float64VarP(&probeRate, "rate", "r", 0, "Requests per second, 0 for unpaced (overrides probe.rate)")
	f.IntVarP(&probeWorkers, "workers", "w", 0, "Concurrent requests (overrides probe.workers)")
	rootCmd.AddCommand(probeCmd)
}

func runProbeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("connect") {
		cfg.Probe.Connect = probeConnect
	}
	if f.Changed("max") {
		cfg.Probe.Max = probeMax
	}
	if f.Changed("count") {
		cfg.Probe.Count = probeCount
	}
	if f.Changed("rate") {
		cfg.Probe.Rate = probeRate
	}
	if f.Changed("workers") {
		cfg.Probe.Workers = probeWorkers
	}
	if probeHTTP2 {
		cfg.Client.Protocol = config.ProtocolHTTP2
	}
	if cfg.Probe.Count <= 0 || cfg.Probe.Workers <= 0 || cfg.Probe.Rate < 0 {
		return fmt.Errorf("count and workers must be positive, rate must not be negative")
	}

	client, _, err := newClient(cfg, timeout.Fixed(cfg.Probe.Connect, cfg.Probe.Max), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := probe(ctx, client, probeMethod, args[0], cfg.Probe, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	_, err = summary.WriteTo(cmd.OutOrStdout())
	return err
}

// probe issues p.Count requests through client, at most p.Workers at a
// time and paced at p.Rate per second, printing one line per
// execution to out.
func probe(ctx context.Context, client peekx.Doer, method, url string, p config.Probe, out io.Writer) (*report.Summary, error) {
	base, err := request.NewPlan(method, url, nil)
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if p.Rate > 0 {
		limit = rate.Limit(p.Rate)
	}
	limiter := rate.NewLimiter(limit, 1)

	summary := report.NewSummary()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tCLASSIFICATION\tSTATUS\tCONNECT\tDURATION\tERROR")
	var mu sync.Mutex

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < p.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				id := uuid.New().String()
				e, err := client.Do(base.WithContext(logging.WithID(ctx, id)))
				summary.Record(e)

				mu.Lock()
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", n, id[:8], e.Classification,
					statusText(e.StatusCode), e.ConnectTime.Round(time.Microsecond),
					e.Duration().Round(time.Millisecond), errText(err))
				mu.Unlock()
			}
		}()
	}

	for n := 1; n <= p.Count; n++ {
		if err = limiter.Wait(ctx); err != nil {
			break
		}
		jobs <- n
	}
	close(jobs)
	wg.Wait()
	_ = tw.Flush()

	if ctx.Err() != nil {
		err = nil
	}
	return summary, err
}

func statusText(code int) string {
	if code == 0 {
		return "-"
	}
	return fmt.Sprint(code)
}

func errText(err error) string {
	if err == nil {
		return "-"
	}
	return err.Error()
}
