package email

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// SMTPNotifier mails an operator when a corpus build had to skip training
// examples, so degraded classification quality is noticed before users
// report it.
type SMTPNotifier struct {
	host   string
	port   int
	from   string
	logger *zap.Logger
}

func NewSMTPNotifier(host string, port int, from string, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{host: host, port: port, from: from, logger: logger}
}

func (n *SMTPNotifier) NotifyCorpusDegraded(_ context.Context, to string, skipped int, details string) error {
	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	subject := fmt.Sprintf("BJJ Classifier - Corpus Build Skipped %d Examples", skipped)
	body := fmt.Sprintf(
		"Hello,\r\n\r\n"+
			"The training corpus was built, but some examples could not be fingerprinted.\r\n\r\n"+
			"%s\r\n\r\n"+
			"Classification quality for the affected categories is degraded until\r\n"+
			"the examples are fixed and the service restarted.\r\n\r\n"+
			"-- BJJ Classifier",
		details,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.from, to, subject, body,
	)

	if err := smtp.SendMail(addr, nil, n.from, []string{to}, []byte(msg)); err != nil {
		n.logger.Error("failed to send corpus degradation email",
			zap.String("to", to),
			zap.Int("skipped", skipped),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("corpus degradation email sent",
		zap.String("to", to),
		zap.Int("skipped", skipped),
	)
	return nil
}
