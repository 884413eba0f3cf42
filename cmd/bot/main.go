package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatchkit/internal/config"
	"dispatchkit/internal/discord"
	"dispatchkit/internal/framework"
	"dispatchkit/internal/shardinfo"
	"dispatchkit/internal/storage"
	"dispatchkit/pkg/cmd"
)

func main() {
	log.Println("[INFO] Starting bot...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	bot, err := discord.New(cfg.DiscordToken)
	if err != nil {
		log.Fatal(err)
	}

	counter := framework.NewUsageCounter()
	if counts, err := store.LoadUsage(); err != nil {
		log.Println("[WARN] Could not restore usage counts:", err)
	} else {
		counter.Seed(counts)
	}

	buckets := framework.NewBucketStore()
	buckets.Define("complicated", framework.Policy{
		Delay:    5 * time.Second,
		TimeSpan: 30 * time.Second,
		Limit:    2,
	})

	registry := cmd.NewRegistry()
	reporter := shardinfo.NewReporter(bot.ShardManager())
	replier := bot.Replier()
	roles := bot.Roles()

	dispatcher := framework.New(registry, buckets, counter, replier, roles)
	dispatcher.Configure(cfg.Prefixes, cfg.Delimiters, cfg.OnMention)

	group := discord.GeneralGroup(
		&discord.PingCommand{Directory: roles, Replier: replier},
		&discord.LatencyCommand{Reporter: reporter, ShardID: bot.ShardID, Replier: replier},
		&discord.CommandsCommand{Usage: dispatcher.UsageSnapshot, Replier: replier},
	)
	if err := registry.RegisterGroup(group); err != nil {
		log.Fatal(err)
	}

	dispatcher.SetBeforeHook(func(ctx context.Context, inv *cmd.Invocation) bool {
		log.Printf("[INFO] Got command '%s' by user '%s'", inv.Command, inv.UserID)
		return true
	})
	dispatcher.SetAfterHook(func(ctx context.Context, inv *cmd.Invocation, runErr error) {
		if runErr != nil {
			log.Printf("[ERR] Command '%s' returned error: %v", inv.Command, runErr)
		} else {
			log.Printf("[INFO] Processed command '%s'", inv.Command)
		}
		if inv.GuildID == "" {
			return
		}
		rec := storage.CommandHistoryRecord{
			ChannelID: inv.ChannelID,
			GuildID:   inv.GuildID,
			UserID:    inv.UserID,
			Command:   inv.Command,
			Args:      inv.Args,
			Datetime:  time.Now(),
		}
		if err := store.AppendCommandToHistory(inv.GuildID, rec); err != nil {
			log.Printf("[WARN] Failed to log command '%s': %v", inv.Command, err)
		}
	})
	dispatcher.OnUnrecognisedCommand(func(ctx context.Context, msg framework.Message, name string) {
		log.Printf("[WARN] Could not find command named '%s'", name)
	})
	dispatcher.OnDispatchError(func(ctx context.Context, msg framework.Message, derr *framework.DispatchError) {
		// Ratelimited already got its canonical reply from the dispatcher.
		if derr.Kind != framework.ErrKindRatelimited && derr.Kind != framework.ErrKindUnrecognisedCommand {
			log.Printf("[WARN] Dispatch failed: %v", derr)
		}
	})

	go storage.RunUsageFlusher(ctx, store, dispatcher.UsageSnapshot,
		time.Duration(cfg.UsageFlushInterval)*time.Second)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx, dispatcher); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	}

	if err := store.SaveUsage(dispatcher.UsageSnapshot()); err != nil {
		log.Println("[ERR] Error saving usage counts on shutdown:", err)
	}
	log.Println("[INFO] Bot exited cleanly")
}
