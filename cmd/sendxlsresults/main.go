// Package main provides the sendxlsresults search command: it mails the
// results of the search it is piped into as a spreadsheet attachment.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
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

const defaultSearchName = "one"

type app struct {
	configPath string
	newMailer  mailer.Factory
}

func newRootCmd(a *app) *cobra.Command {
	if a.newMailer == nil {
		a.newMailer = mailer.SMTPFactory
	}
	cmd := &cobra.Command{
		Use:   "sendxlsresults [key=value ...]",
		Short: "Mail search results as a spreadsheet",
		Long: `sendxlsresults reads search results on stdin, saves them as a spreadsheet
and mails it using the platform's email alert settings.

Options: recipient, subject, body, sender, filename, search_name, server.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.run,
	}
	cmd.Flags().StringVar(&a.configPath, "config", os.Getenv(config.EnvConfigPath), "YAML config file")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	now := time.Now()
	out := cmd.OutOrStdout()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return splunk.WriteError(out, fmt.Sprintf("Error : %v", err))
	}

	logger, closeLog := logging.Setup(logging.Options{
		Path:   cfg.LogPath(),
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	defer closeLog()
	inv := invocation.New(invocation.KindCommand, now, logger)

	opts, _ := splunk.ParseCommandOptions(args)
	inv.Log.Debug("arguments received", "options", redactOptions(opts))

	in, err := splunk.ReadCommandInput(cmd.InOrStdin())
	if err != nil {
		err = sendxls.NewStageError(sendxls.StageRead, err)
		inv.Log.Error("General Error", "error", err)
		return splunk.WriteError(out, fmt.Sprintf("Error : %v", err))
	}
	inv.Log.Debug("command input",
		"namespace", in.Settings[splunk.SettingNamespace],
		"owner", in.Settings[splunk.SettingOwner],
		"rows", len(in.Rows),
	)

	if err := a.deliver(cmd.Context(), cfg, inv, opts, in); err != nil {
		inv.Log.Error("General Error", "error", err)
		return writeFailure(out, err)
	}
	return splunk.WriteResults(out, in.Header, in.Rows)
}

func (a *app) deliver(ctx context.Context, cfg config.Config, inv *invocation.Invocation, opts splunk.CommandOptions, in *splunk.CommandInput) error {
	client, err := splunk.NewClient(cfg.ServerURI, in.Settings[splunk.SettingSessionKey], splunk.ClientOptions{
		Timeout:            cfg.RequestTimeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})
	if err != nil {
		return sendxls.NewStageError(sendxls.StageConfig, err)
	}
	settings, err := client.EmailEntity(ctx, in.Settings[splunk.SettingNamespace])
	if err != nil {
		inv.Log.Error("Could not get email alert actions from splunk", "error", err)
		return sendxls.NewStageError(sendxls.StageConfig, err)
	}
	if settings.Server == "" {
		settings.Server = opts.Get("server", "localhost")
	}
	inv.Log.Debug("mail settings", "server", settings.Server, "use_ssl", settings.UseSSL, "use_tls", settings.UseTLS)

	searchName := opts.Get("search_name", defaultSearchName)
	name, err := filename.Resolve(opts.Get("filename", ""), searchName, inv.Start, writer.Extension)
	if err != nil {
		return sendxls.NewStageError(sendxls.StageConfig, err)
	}

	runner := &report.Runner{
		Options: cfg.ConverterOptions(),
		Mailer:  a.newMailer(settings, cfg.SMTPTimeout),
	}
	_, err = runner.Run(ctx, inv, report.Job{
		SheetName: searchName,
		Source:    parser.NewSliceSource(in.Rows),
		OutputDir: cfg.RunDir(),
		FileName:  name,
		Message: mailer.Message{
			From:    report.ResolveSender(opts.Get("sender", ""), settings.From),
			To:      mailer.SplitRecipients(opts.Get("recipient", "")),
			Subject: opts.Get("subject", ""),
			Body:    opts.Get("body", ""),
		},
	})
	return err
}

// writeFailure reports err to the search as an ERROR result.
func writeFailure(w io.Writer, err error) error {
	return splunk.WriteError(w, fmt.Sprintf("Error when sending mail: %v", err))
}

func redactOptions(opts splunk.CommandOptions) map[string]string {
	out := make(map[string]string, len(opts))
	for k, v := range opts {
		if k == "password" {
			v = "<redacted>"
		}
		out[k] = v
	}
	return out
}
