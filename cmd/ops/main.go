package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/AhmyaBBA/Sound-Feedback/internal/config"
	"github.com/AhmyaBBA/Sound-Feedback/internal/feedback"
	"github.com/AhmyaBBA/Sound-Feedback/internal/model"
	"github.com/AhmyaBBA/Sound-Feedback/internal/ops"
	"github.com/AhmyaBBA/Sound-Feedback/internal/profile"
	"github.com/AhmyaBBA/Sound-Feedback/internal/swipe"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "check":
		err = cmdCheck(os.Args[2:])
	case "simulate":
		err = cmdSimulate(os.Args[2:])
	case "cue":
		err = cmdCue(os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func cmdCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	path := fs.String("config", "swipedeck.yml", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(*path)
	if err != nil {
		return err
	}
	r, err := ops.Check(context.Background(), cfg, storeFor(cfg))
	if err != nil {
		return err
	}
	return printJSON(r)
}

func cmdSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	path := fs.String("config", "swipedeck.yml", "path to config file")
	moves := fs.String("moves", "RLRC", "moves: R right, L left, C short drag, T tap")
	verbose := fs.Bool("v", false, "debug logging to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(*path)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	ps, err := storeFor(cfg).List(ctx)
	if err != nil {
		return err
	}
	policy, closePolicy, err := policyFor(cfg.Feedback.ScriptPath)
	if err != nil {
		return err
	}
	defer closePolicy()

	r, err := ops.Simulate(ctx, profile.Cards(ps), *moves, ops.SimOptions{
		Deck:   cfg.Deck.SwipeOptions(),
		Policy: policy,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	return printJSON(r)
}

func cmdCue(args []string) error {
	fs := flag.NewFlagSet("cue", flag.ContinueOnError)
	script := fs.String("script", "feedback.lua", "feedback script, empty for the built-in policy")
	kind := fs.String("kind", "swipe", "swipe or tap")
	dir := fs.String("direction", "right", "left or right")
	card := fs.String("card", "", "card id passed to the script")
	if err := fs.Parse(args); err != nil {
		return err
	}

	policy, closePolicy, err := policyFor(*script)
	if err != nil {
		return err
	}
	defer closePolicy()

	ev := feedback.Event{
		Kind:      feedback.Kind(strings.ToLower(*kind)),
		Direction: swipe.Direction(strings.ToLower(*dir)),
		CardID:    model.CardID(*card),
	}
	cue, err := policy.Cue(ev)
	if err != nil {
		return err
	}
	return printJSON(cue)
}

func storeFor(cfg *config.Config) profile.Store {
	if p := strings.TrimSpace(cfg.Server.ProfilesPath); p != "" {
		return profile.NewFileStore(p)
	}
	return profile.NewEmbeddedStore()
}

func policyFor(script string) (feedback.Policy, func(), error) {
	if strings.TrimSpace(script) == "" {
		return feedback.DefaultPolicy{}, func() {}, nil
	}
	p, err := feedback.LoadLuaPolicy(script)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage() {
	fmt.Println("usage:")
	fmt.Println("  swipedeck-ops check    --config swipedeck.yml")
	fmt.Println("  swipedeck-ops simulate --config swipedeck.yml --moves RLRCT")
	fmt.Println("  swipedeck-ops cue      --script feedback.lua --kind swipe --direction right --card p_ava")
}
