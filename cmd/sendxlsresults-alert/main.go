// Package main provides the sendxlsresults alert action. The platform runs
// it as "sendxlsresults-alert --execute" with a JSON payload on stdin.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ukaji3/sendxls-go/internal/config"
	"github.com/ukaji3/sendxls-go/internal/invocation"
	"github.com/ukaji3/sendxls-go/internal/logging"
	"github.com/ukaji3/sendxls-go/internal/report"
	"github.com/ukaji3/sendxls-go/pkg/sendxls"
	"github.com/ukaji3/sendxls-go/pkg/sendxls/filename"
	"github.com/ukaji3/sendxls-go/pkg/sendxls/mailer"
	"github.com/ukaji3/sendxls-go/pkg/sendxls/parser"
	"github.com/ukaji3/sendxls-go/pkg/sendxls/splunk"
	"github.com/ukaji3/sendxls-go/pkg/sendxls/writer"
)

// Exit codes.
const (
	exitUnsupported = 1
	exitConfig      = 2
	exitFailed      = 3
)

const defaultSheetName = "one"

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailed
}

type app struct {
	configPath string
	execute    bool
	// logOut receives logs when the log file cannot be used.
	logOut    io.Writer
	newMailer mailer.Factory
}

func newRootCmd(a *app) *cobra.Command {
	if a.newMailer == nil {
		a.newMailer = mailer.SMTPFactory
	}
	cmd := &cobra.Command{
		Use:   "sendxlsresults-alert --execute",
		Short: "Mail alert results as a spreadsheet",
		Long: `sendxlsresults-alert reads an alert payload on stdin, converts the
gzip-compressed results file it names into a spreadsheet and mails it.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), cmd.InOrStdin(), args)
		},
	}
	cmd.Flags().BoolVar(&a.execute, "execute", false, "run the alert action")
	cmd.Flags().StringVar(&a.configPath, "config", os.Getenv(config.EnvConfigPath), "YAML config file")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		s := a.start(time.Now())
		defer s.close()
		return s.unsupported(err.Error())
	})
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(&app{logOut: os.Stderr}).ExecuteContext(ctx)
	if code := exitCode(err); code != 0 {
		var ee *exitError
		if !errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(code)
	}
}

// session is the configuration and logger of one run. cfgErr is kept so
// the execution mode can be checked and logged first.
type session struct {
	cfg    config.Config
	cfgErr error
	inv    *invocation.Invocation
	close  func() error
}

func (a *app) start(now time.Time) *session {
	cfg, cfgErr := config.Load(a.configPath)
	logOpts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Fallback: a.logOut}
	if cfgErr == nil {
		logOpts.Path = cfg.LogPath()
	}
	logger, closeLog := logging.Setup(logOpts)
	return &session{
		cfg:    cfg,
		cfgErr: cfgErr,
		inv:    invocation.New(invocation.KindAction, now, logger),
		close:  closeLog,
	}
}

func (s *session) unsupported(detail string) error {
	s.inv.Log.Error("Unsupported execution mode (expected --execute flag)", "detail", detail)
	return &exitError{code: exitUnsupported, err: fmt.Errorf("unsupported execution mode: %s", detail)}
}

func (a *app) run(ctx context.Context, stdin io.Reader, args []string) error {
	s := a.start(time.Now())
	defer s.close()

	switch {
	case !a.execute:
		return s.unsupported("missing --execute")
	case len(args) > 0:
		return s.unsupported("unexpected arguments: " + strings.Join(args, " "))
	}
	if s.cfgErr != nil {
		s.inv.Log.Error("invalid configuration", "error", s.cfgErr)
		return &exitError{code: exitConfig, err: s.cfgErr}
	}

	if err := a.deliver(ctx, s.cfg, s.inv, stdin); err != nil {
		var ee *exitError
		if !errors.As(err, &ee) {
			s.inv.Log.Error("General Error", "error", err)
			err = &exitError{code: exitFailed, err: err}
		}
		return err
	}
	return nil
}

func (a *app) deliver(ctx context.Context, cfg config.Config, inv *invocation.Invocation, stdin io.Reader) error {
	payload, err := splunk.ReadAlertPayload(stdin)
	if err != nil {
		return sendxls.NewStageError(sendxls.StageRead, err)
	}
	serverURI := payload.ServerURI
	if serverURI == "" {
		serverURI = cfg.ServerURI
	}

	client, err := splunk.NewClient(serverURI, payload.SessionKey, splunk.ClientOptions{
		Timeout:            cfg.RequestTimeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})
	if err != nil {
		inv.Log.Error("invalid server uri", "server_uri", serverURI, "error", err)
		return &exitError{code: exitConfig, err: err}
	}
	settings, err := client.EmailConf(ctx)
	if err != nil {
		inv.Log.Error("Could not get email alert actions from splunk", "error", err)
		return &exitError{code: exitConfig, err: err}
	}

	name, err := filename.Resolve(settings.ReportFileName, payload.ReportName(), inv.Start, writer.Extension)
	if err != nil {
		return err
	}

	src, closeResults, err := parser.OpenResults(payload.ResultsFile)
	if err != nil {
		return sendxls.NewStageError(sendxls.StageRead, fmt.Errorf("open results: %w", err))
	}
	defer closeResults()

	sheet := payload.SearchName
	if sheet == "" {
		sheet = defaultSheetName
	}

	runner := &report.Runner{
		Options: cfg.ConverterOptions(),
		Mailer:  a.newMailer(settings, cfg.SMTPTimeout),
	}
	res, err := runner.Run(ctx, inv, report.Job{
		SheetName: sheet,
		Source:    src,
		OutputDir: cfg.RunDir(),
		FileName:  name,
		Message: mailer.Message{
			From:    report.ResolveSender(payload.Configuration.Sender, settings.From),
			To:      mailer.SplitRecipients(payload.Configuration.Recipient),
			Subject: payload.Configuration.Subject,
			Body:    payload.Configuration.Body,
		},
	})
	if err != nil {
		return err
	}
	inv.Log.Info("alert delivered", "path", res.Path, "rows", res.Rows)
	return nil
}
