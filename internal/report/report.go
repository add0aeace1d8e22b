// Package report turns a row source into a mailed spreadsheet.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ukaji3/sendxls-go/internal/invocation"
	"github.com/ukaji3/sendxls-go/pkg/sendxls"
	"github.com/ukaji3/sendxls-go/pkg/sendxls/mailer"
	"github.com/ukaji3/sendxls-go/pkg/sendxls/parser"
	"github.com/ukaji3/sendxls-go/pkg/sendxls/writer"
)

// ResolveSender picks the configured sender, falling back to the platform
// default, and turns a bare user name into an address on this host.
func ResolveSender(configured, platformDefault string) string {
	sender := configured
	if sender == "" {
		sender = platformDefault
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = ""
	}
	return mailer.NormalizeSender(sender, hostname)
}

// Job describes one report.
type Job struct {
	// SheetName names the only sheet.
	SheetName string
	Source    parser.RowSource
	// OutputDir is where the workbook is saved before mailing.
	OutputDir string
	// FileName is the resolved attachment name.
	FileName string
	// Message is the mail to send; its attachment is filled in by Run.
	Message mailer.Message
}

// Result summarizes a delivered report.
type Result struct {
	Path string
	Rows int
}

// Runner converts, saves and mails reports.
type Runner struct {
	Options sendxls.Options
	Mailer  mailer.Mailer
}

// Run executes job. Failures are returned as *sendxls.StageError.
func (r *Runner) Run(ctx context.Context, inv *invocation.Invocation, job Job) (*Result, error) {
	log := inv.Log.With("file", job.FileName)

	doc, err := sendxls.ConvertSource(job.SheetName, job.Source, r.Options)
	if err != nil {
		log.Error("could not convert results", "error", err)
		return nil, sendxls.NewStageError(sendxls.StageConvert, err)
	}
	log.Info("results converted", "sheet", doc.SheetName, "columns", len(doc.Header), "rows", doc.RowCount())

	path := filepath.Join(job.OutputDir, job.FileName)
	if err := writer.Save(doc, path); err != nil {
		log.Error("could not write workbook", "path", path, "error", err)
		return nil, sendxls.NewStageError(sendxls.StageWrite, err)
	}
	log.Info("parameters used", "outputfile", path)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("error attaching file", "rcpt", job.Message.To, "error", err)
		return nil, sendxls.NewStageError(sendxls.StageWrite, fmt.Errorf("read back workbook: %w", err))
	}

	msg := job.Message
	msg.Attachment = &mailer.Attachment{Name: job.FileName, Data: data}
	if err := r.Mailer.Send(ctx, msg); err != nil {
		log.Error("could not send email", "rcpt", msg.To, "error", err)
		return nil, sendxls.NewStageError(sendxls.StageMail, err)
	}
	log.Info("email sent", "rcpt", msg.To, "subject", msg.Subject)

	return &Result{Path: path, Rows: doc.RowCount()}, nil
}
