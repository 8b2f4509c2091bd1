package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dvoronov/fintalk/internal/config"
	"github.com/dvoronov/fintalk/internal/generator"
	"github.com/dvoronov/fintalk/internal/logger"
	"github.com/dvoronov/fintalk/internal/pipeline"
	"github.com/dvoronov/fintalk/internal/storage"
)

var userID int64

func main() {
	rootCmd := &cobra.Command{
		Use:   "fintalk",
		Short: "Conversational expense and income tracker",
	}

	rootCmd.PersistentFlags().Int64Var(&userID, "user", 1, "user ID to act as")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(replCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getAssistant(ctx context.Context) (*pipeline.Assistant, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	gen, err := generator.NewGemini(ctx, cfg.GeminiModel)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("create generator: %w", err)
	}

	return pipeline.New(gen, store), store.Close, nil
}

// withLogger routes pipeline logs to stderr so replies stay clean on stdout.
func withLogger(ctx context.Context) context.Context {
	return logger.WithContext(ctx, logger.NewWithWriter(os.Stderr))
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [message]",
		Short: "Send a single message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context())

			assistant, closeFn, err := getAssistant(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			reply, err := assistant.HandleMessage(ctx, userID, strings.Join(args, " "))
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}

			fmt.Println(reply)
			return nil
		},
	}
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context())

			assistant, closeFn, err := getAssistant(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			fmt.Printf("Chatting as user %d. Type 'exit' to quit.\n", userID)

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}

				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				if text == "exit" || text == "quit" {
					break
				}

				reply, err := assistant.HandleMessage(ctx, userID, text)
				if err != nil {
					fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				}
				fmt.Println(reply)
			}

			return scanner.Err()
		},
	}
}
