package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"filetrack/internal/config"
	models "filetrack/internal/domain/models/filechange"
	changeSvc "filetrack/internal/domain/services/filechange"
	"filetrack/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "filetrack",
		Short:        "Inspect and record agent file changes",
		SilenceUsage: true,
	}

	ingestCmd := &cobra.Command{
		Use:   "ingest [messages.json]",
		Short: "Reconcile a JSON array of chat messages into file change records",
		Long: `Reads a JSON array of messages from the given file, or stdin when
omitted or "-", and records the net file changes for the chat.
The tracking result is printed as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngest,
	}
	ingestCmd.Flags().String("chat", "", "Chat ID owning the messages (required)")
	ingestCmd.Flags().String("sub-chat", "", "Sub-chat ID")
	ingestCmd.Flags().String("session", "", "Agent session ID")
	_ = ingestCmd.MarkFlagRequired("chat")

	changesCmd := &cobra.Command{
		Use:   "changes",
		Short: "List file change records for a chat or a project",
		Args:  cobra.NoArgs,
		RunE:  runChanges,
	}
	changesCmd.Flags().String("chat", "", "List records for a chat")
	changesCmd.Flags().String("project", "", "List records for a project")
	changesCmd.MarkFlagsMutuallyExclusive("chat", "project")
	changesCmd.MarkFlagsOneRequired("chat", "project")

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the per-file change summary of a project",
		Args:  cobra.NoArgs,
		RunE:  runSummary,
	}
	summaryCmd.Flags().String("project", "", "Project ID (required)")
	_ = summaryCmd.MarkFlagRequired("project")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the store schema",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}

	rootCmd.AddCommand(ingestCmd, changesCmd, summaryCmd, migrateCmd)
	return rootCmd
}

// app is the wired stack for one CLI invocation
type app struct {
	services *service.Services
	logger   *slog.Logger
	close    func()
}

func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	_ = godotenv.Load()
	cfg := config.Load()

	// stdout carries command output, logs go to stderr
	logger, closeLog, err := config.NewLogger(cfg, "filetrack", cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	repos, closeStore, err := service.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		closeLog()
		return nil, err
	}

	services, err := service.SetupServices(repos, cfg, logger)
	if err != nil {
		closeStore()
		closeLog()
		return nil, err
	}

	return &app{
		services: services,
		logger:   logger,
		close: func() {
			closeStore()
			closeLog()
		},
	}, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	messages, err := readMessages(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	chatID, _ := cmd.Flags().GetString("chat")
	req := &changeSvc.TrackMessagesRequest{
		ChatID:   chatID,
		Messages: messages,
	}
	if v, _ := cmd.Flags().GetString("sub-chat"); v != "" {
		req.SubChatID = &v
	}
	if v, _ := cmd.Flags().GetString("session"); v != "" {
		req.SessionID = &v
	}

	result := a.services.FileChanges.TrackFileChangesFromMessages(ctx, req)
	if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if result.Err != nil {
		return result.Err
	}
	return nil
}

func runChanges(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	var changes []models.FileChange
	if chatID, _ := cmd.Flags().GetString("chat"); chatID != "" {
		changes, err = a.services.FileChanges.GetCurrentChatChanges(ctx, chatID)
	} else {
		projectID, _ := cmd.Flags().GetString("project")
		changes, err = a.services.FileChanges.GetWorkspaceChanges(ctx, projectID)
	}
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), changes)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	projectID, _ := cmd.Flags().GetString("project")
	summary, err := a.services.FileChanges.SummarizeWorkspace(ctx, projectID)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), summary)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("schema up to date")
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

func readMessages(cmd *cobra.Command, args []string) ([]models.Message, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("open messages: %w", err)
		}
		defer f.Close()
		r = f
	}

	var messages []models.Message
	if err := json.NewDecoder(r).Decode(&messages); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no messages on input")
		}
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return messages, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
