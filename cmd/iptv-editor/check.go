// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/YuQing-Ding/IPTV-Editor/internal/probe"
)

// runCheck probes every stream in a playlist file and prints one line
// per channel. Exits non-zero when any stream is unreachable.
func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	in := fs.String("in", "", "playlist file to check")
	timeout := fs.Duration("timeout", probe.DefaultStreamTimeout, "per-stream timeout")
	workers := fs.Int("workers", 0, "concurrent checks (0 = NumCPU)")
	rps := fs.Float64("rps", 0, "outbound request rate limit (0 = unlimited)")
	logos := fs.Bool("logos", false, "also check channel logos")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("check: -in is required")
	}

	channels, err := readChannels(*in, "")
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		return fmt.Errorf("check: %s contains no channels", *in)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	streams := make([]probe.Result, len(channels))
	logoRes := make([]probe.LogoResult, len(channels))

	jobs := len(channels)
	if *logos {
		jobs *= 2
	}
	var wg sync.WaitGroup
	wg.Add(jobs)

	pool := probe.NewPool(probe.NewChecker(), probe.PoolConfig{
		Workers:       *workers,
		QueueSize:     jobs,
		StreamTimeout: *timeout,
		RPS:           *rps,
	}, func(c probe.Completion) {
		defer wg.Done()
		idx, err := strconv.Atoi(strings.TrimPrefix(c.Key, string(c.Kind)))
		if err != nil || idx < 0 || idx >= len(channels) {
			return
		}
		switch c.Kind {
		case probe.KindStream:
			streams[idx] = c.Stream
		case probe.KindLogo:
			logoRes[idx] = c.Logo
		}
	})
	pool.Start()
	defer pool.Stop()

	for i, ch := range channels {
		if !pool.EnqueueStream(ctx, fmt.Sprintf("%s%d", probe.KindStream, i), ch.URL) {
			streams[i] = probe.Result{Class: probe.Indeterminate, Detail: "not queued"}
			wg.Done()
		}
		if *logos {
			if !pool.EnqueueLogo(ctx, fmt.Sprintf("%s%d", probe.KindLogo, i), ch.Logo) {
				logoRes[i] = probe.LogoResult{Status: probe.LogoIndeterminate, Detail: "not queued"}
				wg.Done()
			}
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	bad := 0
	for i, ch := range channels {
		res := streams[i]
		if res.Class == probe.Unreachable {
			bad++
		}
		line := fmt.Sprintf("%-13s %6dms  %-30s %s", res.Class, res.ElapsedMS, truncate(ch.Name, 30), res.Detail)
		if *logos {
			line += fmt.Sprintf("  [logo: %s]", logoRes[i].Status)
		}
		fmt.Println(line)
	}
	fmt.Printf("\n%d channels, %d unreachable\n", len(channels), bad)

	if bad > 0 {
		os.Exit(1)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
