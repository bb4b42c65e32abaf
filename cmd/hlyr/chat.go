package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"humanlayer/hlyr/pkg/cli"
	"humanlayer/hlyr/pkg/config"
	"humanlayer/hlyr/pkg/history"
	"humanlayer/hlyr/pkg/history/retention"
	"humanlayer/hlyr/pkg/history/storage"
	"humanlayer/hlyr/pkg/providerfactory"
	"humanlayer/hlyr/pkg/providers"
	"humanlayer/hlyr/pkg/routing"
)

var chatFlags struct {
	provider     string
	failover     string
	system       string
	stream       bool
	bufferStream bool
	watch        bool
	metricsFile  string
	resume       string
	noHistory    bool
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the active provider",
	Long: `Send a message to the active provider and print the reply.

With a message argument, hlyr answers once and exits. Without one, it reads
messages from standard input line by line and keeps the conversation history
until "exit", "quit", or end of input.

If the active provider fails, the request is retried once on the failover
provider. When streaming, fragments already printed from the failed provider
stay on screen unless --buffer-stream is set.

Examples:
  # Single question
  hlyr chat "Explain goroutines in one sentence"

  # Interactive session with streaming
  hlyr chat --stream

  # Override providers for this run
  hlyr chat --provider claude --failover ollama "Hello"

  # Reload humanlayer.yml while chatting and write metrics on exit
  hlyr chat --watch --metrics-file /var/lib/node_exporter/hlyr.prom

  # Continue a recorded session (history.enabled must be set)
  hlyr chat --resume 6f1c2a9e-...`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatFlags.provider, "provider", "p", "", "override the active provider")
	chatCmd.Flags().StringVarP(&chatFlags.failover, "failover", "f", "", "override the failover provider")
	chatCmd.Flags().StringVar(&chatFlags.system, "system", "", "system prompt sent before the conversation")
	chatCmd.Flags().BoolVarP(&chatFlags.stream, "stream", "s", false, "stream the reply as it is generated")
	chatCmd.Flags().BoolVar(&chatFlags.bufferStream, "buffer-stream", false, "hold streamed fragments until the provider finishes")
	chatCmd.Flags().BoolVarP(&chatFlags.watch, "watch", "w", false, "reload the configuration file when it changes")
	chatCmd.Flags().StringVar(&chatFlags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	chatCmd.Flags().StringVar(&chatFlags.resume, "resume", "", "continue a recorded session")
	chatCmd.Flags().BoolVar(&chatFlags.noHistory, "no-history", false, "do not record this session")
}

func runChat(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	if err := applyChatOverrides(cfg); err != nil {
		return err
	}

	tel, err := setupTelemetry(cmd, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if shutdownErr := tel.Shutdown(context.Background()); shutdownErr != nil {
			slog.Warn("failed to flush traces", "error", shutdownErr)
		}
		if chatFlags.metricsFile != "" {
			if writeErr := tel.Metrics().WriteToTextfile(chatFlags.metricsFile); writeErr != nil && err == nil {
				err = writeErr
			}
		}
	}()

	source := config.NewSource(cfg)
	opts := append(tel.RouterOptions(), routing.WithStreamBuffering(chatFlags.bufferStream))
	router := routing.NewRouter(providerfactory.NewRegistry(), source, opts...)

	if err := activate(router, source); err != nil {
		return err
	}

	if chatFlags.watch {
		ctx = startWatcher(ctx, router, source)
	}

	session := newChatSession(router, chatFlags.system, chatFlags.stream)
	closeJournal, err := attachJournal(ctx, cmd, cfg, session)
	if err != nil {
		return err
	}
	defer closeJournal()

	out := cmd.OutOrStdout()

	if len(args) > 0 {
		_, err := session.send(ctx, strings.Join(args, " "), out)
		return err
	}
	return session.repl(ctx, cmd.InOrStdin(), out, cmd.ErrOrStderr(), interactive(cmd))
}

// applyChatOverrides applies --provider and --failover and revalidates.
func applyChatOverrides(cfg *config.Config) error {
	if chatFlags.provider == "" && chatFlags.failover == "" {
		return nil
	}
	if chatFlags.provider != "" {
		cfg.ActiveProvider = providers.ProviderID(chatFlags.provider)
	}
	if chatFlags.failover != "" {
		cfg.FailoverProvider = providers.ProviderID(chatFlags.failover)
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err)
	}
	return nil
}

// activate binds the configured active provider on router.
func activate(router *routing.Router, source *config.Source) error {
	id := source.ActiveProvider()
	pc, _ := source.ProviderConfig(id)
	return router.SetActiveProvider(id, pc)
}

// startWatcher reloads the configuration file into source as it changes. A
// new active provider is bound on the next reload; the failover provider is
// read from source on every failure. The returned context ends the watcher
// with the command.
func startWatcher(ctx context.Context, router *routing.Router, source *config.Source) context.Context {
	path, ok := configPath()
	if !ok {
		slog.Warn("no configuration file to watch")
		return ctx
	}

	watcher := config.NewWatcher(path, source, slog.Default())
	watcher.OnReload = func(cfg *config.Config, err error) {
		if err != nil {
			return
		}
		if current, _ := router.ActiveProviderID(); current == cfg.ActiveProvider {
			return
		}
		if err := activate(router, source); err != nil {
			slog.Error("failed to switch active provider", "provider", cfg.ActiveProvider, "error", err)
		}
	}

	go func() {
		if err := watcher.Watch(ctx); err != nil {
			slog.Error("config watcher failed", "error", err)
		}
	}()
	return ctx
}

// attachJournal records the session's turns when history is enabled and
// preloads the turns of a resumed session. The returned func flushes and
// closes the journal.
func attachJournal(ctx context.Context, cmd *cobra.Command, cfg *config.Config, session *chatSession) (func(), error) {
	if !cfg.History.Enabled || chatFlags.noHistory {
		if chatFlags.resume != "" {
			return nil, cli.NewConfigError("history.enabled", errors.New("--resume requires the history journal"))
		}
		return func() {}, nil
	}

	store, err := storage.Open(cfg.History)
	if err != nil {
		return nil, cli.NewCommandError("chat", err)
	}

	if chatFlags.resume != "" {
		turns, err := history.LoadSession(ctx, store, chatFlags.resume)
		if err != nil {
			store.Close()
			return nil, cli.NewCommandError("chat", err)
		}
		if len(turns) == 0 {
			store.Close()
			return nil, cli.NewCommandError("chat", fmt.Errorf("session %s not found", chatFlags.resume))
		}
		session.preload(turns)
	}

	recorder := history.NewRecorder(store, chatFlags.resume, nil)
	session.recorder = recorder
	fmt.Fprintf(cmd.ErrOrStderr(), "Session %s\n", recorder.SessionID())

	scheduler := retention.NewScheduler(retention.NewPruner(store, cfg.History.Retention), cfg.History.Retention.Schedule)
	if err := scheduler.Start(ctx); err != nil {
		slog.Warn("history pruning disabled", "error", err)
	}

	return func() {
		scheduler.Stop()
		recorder.Close()
		if err := store.Close(); err != nil {
			slog.Warn("failed to close history journal", "error", err)
		}
	}, nil
}

// interactive reports whether the command reads from and writes to a terminal.
func interactive(cmd *cobra.Command) bool {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	out, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(in.Fd()) && isatty.IsTerminal(out.Fd())
}

// chatSession keeps the conversation history of one run.
type chatSession struct {
	router   *routing.Router
	system   string
	stream   bool
	history  []providers.Message
	recorder *history.Recorder
}

func newChatSession(router *routing.Router, system string, stream bool) *chatSession {
	return &chatSession{router: router, system: system, stream: stream}
}

// preload appends the successful turns of a recorded session to the history.
func (s *chatSession) preload(turns []*history.Turn) {
	for _, turn := range turns {
		if !turn.Succeeded() {
			continue
		}
		s.history = append(s.history,
			providers.Message{Role: providers.RoleUser, Content: turn.Prompt},
			providers.Message{Role: providers.RoleAssistant, Content: turn.Reply},
		)
	}
}

func (s *chatSession) request(text string) *providers.ChatRequest {
	turns := make([]providers.Message, 0, len(s.history)+2)
	if s.system != "" {
		turns = append(turns, providers.Message{Role: providers.RoleSystem, Content: s.system})
	}
	turns = append(turns, s.history...)
	turns = append(turns, providers.Message{Role: providers.RoleUser, Content: text})
	return providers.NewConversation(turns...)
}

// send sends one user turn and prints the reply to out. The turn and reply
// join the history only if the request succeeded; every turn is journaled.
func (s *chatSession) send(ctx context.Context, text string, out io.Writer) (string, error) {
	req := s.request(text)
	turn := &history.Turn{Prompt: text, Stream: s.stream, Timestamp: time.Now()}
	if id, ok := s.router.ActiveProviderID(); ok {
		turn.ActiveProvider = string(id)
	}

	var reply string
	var err error
	if s.stream {
		reply, err = s.sendStream(ctx, req, out)
	} else {
		var resp *providers.ChatResponse
		resp, err = s.router.Request(ctx, req)
		if err == nil {
			reply = resp.Content
			turn.Provider = resp.Provider
			turn.Model = resp.Model
			fmt.Fprintln(out, reply)
		}
	}

	turn.Reply = reply
	turn.Latency = time.Since(turn.Timestamp)
	if err != nil {
		turn.Error = err.Error()
	}
	s.record(turn)

	if err != nil {
		return "", err
	}

	s.history = append(s.history,
		providers.Message{Role: providers.RoleUser, Content: text},
		providers.Message{Role: providers.RoleAssistant, Content: reply},
	)
	return reply, nil
}

func (s *chatSession) record(turn *history.Turn) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(turn); err != nil {
		slog.Warn("failed to journal turn", "error", err)
	}
}

func (s *chatSession) sendStream(ctx context.Context, req *providers.ChatRequest, out io.Writer) (string, error) {
	chunks, err := s.router.RequestStream(ctx, req)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var streamErr error
	for chunk := range chunks {
		if chunk.Error != nil {
			streamErr = chunk.Error
			continue
		}
		sb.WriteString(chunk.Delta)
		fmt.Fprint(out, chunk.Delta)
	}
	fmt.Fprintln(out)

	if streamErr == nil && ctx.Err() != nil {
		streamErr = ctx.Err()
	}
	return sb.String(), streamErr
}

// repl reads one message per line until exit, quit, or end of input. A
// failed turn is reported and the session continues; configuration errors
// and cancellation end it.
func (s *chatSession) repl(ctx context.Context, in io.Reader, out, errOut io.Writer, prompt bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		switch text {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if _, err := s.send(ctx, text, out); err != nil {
			if errors.Is(err, context.Canceled) || cli.ExitCode(err) == cli.ExitConfigError {
				return err
			}
			fmt.Fprintln(errOut, "Error:", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
