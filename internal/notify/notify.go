// Package notify delivers finished scan reports. Delivery is
// fire-and-forget from the pipeline's perspective: the orchestrator logs
// a returned error and moves on.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
)

// Config holds SMTP delivery settings. An empty Host disables SMTP
// delivery; callers then fall back to the log-only notifier.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c Config) addr() string {
	port := c.Port
	if port == 0 {
		port = 587
	}
	return fmt.Sprintf("%s:%d", c.Host, port)
}

// sendMailFunc matches smtp.SendMail; injectable for tests.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier emails the HTML report to the submitting lead.
type SMTPNotifier struct {
	cfg      Config
	logger   logging.Logger
	sendMail sendMailFunc
}

func NewSMTPNotifier(cfg Config, logger logging.Logger) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("notify: empty SMTP host")
	}
	if cfg.From == "" {
		return nil, errors.New("notify: empty From address")
	}
	if logger == nil {
		logger = logging.Noop{}
	}
	return &SMTPNotifier{
		cfg:      cfg,
		logger:   logger.With(logging.Field{Key: "component", Value: "notify"}),
		sendMail: smtp.SendMail,
	}, nil
}

func (n *SMTPNotifier) SendReport(ctx context.Context, lead model.LeadData, scan *model.ScanResult, html string) error {
	if lead.Email == "" {
		return errors.New("notify: lead has no email address")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := "Your security scan report"
	if scan != nil && scan.Target != "" {
		subject = fmt.Sprintf("Security scan report for %s", scan.Target)
	}
	msg := buildMessage(n.cfg.From, lead.Email, subject, html)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	if err := n.sendMail(n.cfg.addr(), auth, n.cfg.From, []string{lead.Email}, msg); err != nil {
		return fmt.Errorf("send report mail: %w", err)
	}
	n.logger.Info("report mailed", logging.Field{Key: "to", Value: lead.Email})
	return nil
}

func buildMessage(from, to, subject, html string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}

// LogNotifier records deliveries in the log instead of sending mail.
// Used when no SMTP host is configured.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Noop{}
	}
	return &LogNotifier{logger: logger.With(logging.Field{Key: "component", Value: "notify"})}
}

func (n *LogNotifier) SendReport(_ context.Context, lead model.LeadData, scan *model.ScanResult, html string) error {
	scanID := ""
	if scan != nil {
		scanID = scan.ScanID
	}
	n.logger.Info("report delivery skipped, no SMTP configured",
		logging.Field{Key: "to", Value: lead.Email},
		logging.Field{Key: "scan_id", Value: scanID},
		logging.Field{Key: "report_bytes", Value: len(html)})
	return nil
}
