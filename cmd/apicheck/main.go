// Command apicheck exercises every configured platform integration against
// well-known public accounts. Development tool only; it spends real API
// quota and is not part of the runtime path.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"log/slog"

	"github.com/flockpulse/flockpulse/internal/config"
	"github.com/flockpulse/flockpulse/internal/models"
	"github.com/flockpulse/flockpulse/internal/social"
	"github.com/flockpulse/flockpulse/internal/tracker"
)

// Known public accounts with stable, nonzero audiences.
var probes = map[models.Platform]struct {
	username string
	url      string
}{
	models.PlatformTwitter:   {username: "nasa", url: "https://twitter.com/nasa"},
	models.PlatformFacebook:  {username: "nasa", url: "https://facebook.com/NASA"},
	models.PlatformYouTube:   {username: "@NASA", url: "https://youtube.com/@NASA"},
	models.PlatformInstagram: {username: "nasa", url: "https://instagram.com/nasa"},
	models.PlatformTikTok:    {username: "nasa", url: "https://tiktok.com/@nasa"},
	models.PlatformTelegram:  {username: "telegram", url: "https://t.me/telegram"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	clients := social.NewClients(cfg.Platforms, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Printf("%-12s %-12s %-12s %s\n", "PLATFORM", "CREDENTIALS", "FOLLOWERS", "PROBE")

	failures := 0
	for _, platform := range models.AllPlatforms {
		probe := probes[platform]

		handler, err := tracker.NewPlatformHandler(platform, clients, nil, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%-12s handler error: %v\n", platform, err)
			failures++
			continue
		}

		valid := handler.ValidateCredentials(ctx)
		count := handler.FollowerCount(ctx, probe.username, probe.url)

		credState := "ok"
		if !valid {
			credState = "invalid"
		}
		if count == 0 {
			failures++
		}

		fmt.Printf("%-12s %-12s %-12d %s\n", platform, credState, count, probe.url)
	}

	if failures > 0 {
		fmt.Fprintf(os.Stderr, "\n%d platform(s) returned zero or failed; check credentials above\n", failures)
		os.Exit(1)
	}
}
