// Binary claude-chat is a small streaming chat CLI for the Messages API.
//
// Usage:
//
//	claude-chat chat "why is the sky blue?"
//	claude-chat chat --config chat.yaml "summarize this"
//	claude-chat models
//
// The API key is read from chat.yaml, a .env file, or ANTHROPIC_API_KEY.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bitop-dev/claude/pkg/claude"
	"github.com/bitop-dev/claude/pkg/claude/client"
	"github.com/bitop-dev/claude/pkg/claude/models"
	"github.com/bitop-dev/claude/pkg/claude/stream"
)

func main() {
	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "claude-chat",
		Short:         "Chat with the Anthropic Messages API from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configPath string
	var noStream bool

	chatCmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send one message and print the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), cfg, args[0], noStream)
		},
	}
	chatCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	chatCmd.Flags().BoolVar(&noStream, "no-stream", false, "wait for the full response instead of streaming")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List known models and their token ceilings",
		Run: func(cmd *cobra.Command, args []string) {
			all := models.All()
			sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
			for _, m := range all {
				fmt.Printf("%-32s context %7d  max output %6d\n", m.ID, m.ContextWindow, m.MaxOutputTokens)
			}
		},
	}

	rootCmd.AddCommand(chatCmd, modelsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*fileConfig, error) {
	if path != "" {
		return loadFileConfig(path)
	}
	if _, err := os.Stat("chat.yaml"); err == nil {
		return loadFileConfig("chat.yaml")
	}
	return defaultConfig()
}

func runChat(ctx context.Context, cfg *fileConfig, message string, noStream bool) error {
	model := claude.Model(cfg.Model)
	maxTokens, err := claude.NewMaxTokens(cfg.MaxTokens, model)
	if err != nil {
		return err
	}

	req, err := claude.NewMessageRequest(
		model,
		[]claude.Message{claude.NewUserMessage(message)},
		maxTokens,
		&claude.RequestOptions{
			System:        claude.NewSystemPrompt(cfg.SystemPrompt),
			Temperature:   cfg.Temperature,
			StopSequences: cfg.StopSequences,
		},
	)
	if err != nil {
		return err
	}

	var opts []client.Option
	if cfg.BaseURL != "" {
		opts = append(opts, client.WithBaseURL(cfg.BaseURL))
	}
	c := client.New(cfg.APIKey, opts...)

	if noStream {
		resp, err := c.CreateMessage(ctx, req)
		if err != nil {
			return err
		}
		fmt.Println(strings.TrimRight(resp.Text(), "\n"))
		return nil
	}

	s, err := c.StreamMessage(ctx, req)
	if err != nil {
		return err
	}
	defer s.Close()

	for {
		chunk, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Per-item decode errors are reported but do not end the chat;
			// transport errors do.
			fmt.Fprintf(os.Stderr, "\nstream error: %v\n", err)
			if _, fatal := err.(*stream.TransportError); fatal {
				return err
			}
			continue
		}
		switch ch := chunk.(type) {
		case stream.ContentBlockDelta:
			fmt.Print(ch.Delta.Text)
		case stream.ErrorEvent:
			return ch.Err()
		}
	}
	fmt.Println()
	return nil
}
