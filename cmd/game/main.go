package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tomz197/capsules/internal/config"
	"github.com/tomz197/capsules/internal/loop/client"
	"github.com/tomz197/capsules/internal/loop/server"
)

func main() {
	// The terminal is the game screen, so logs only go to a file when asked.
	logger := zap.NewNop()
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		var err error
		if logger, err = config.NewLogger(path); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer func() { _ = logger.Sync() }()

	scene, err := config.LoadSceneFile(config.GetEnv("SCENE_FILE", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load scene: %v\n", err)
		os.Exit(1)
	}
	behaviors, err := scene.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid scene: %v\n", err)
		os.Exit(1)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gs := server.NewServer(logger, behaviors)
	go gs.Run(ctx)

	c := client.NewClient(gs, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: config.GetEnv("USER", "player"),
	})
	if err := c.Run(); err != nil {
		logger.Error("game error", zap.Error(err))
	}
}
