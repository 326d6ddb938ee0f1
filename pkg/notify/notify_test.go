package notify

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fincorehq/tellerguard/pkg/config"
)

func TestRenderApprovalGranted(t *testing.T) {
	body, err := RenderApprovalGranted(DecisionMailParams{
		Requester: "alice",
		Approver:  "carol",
		Account:   "ACC001",
		Holder:    "Bob Smith",
		Timestamp: "2026-01-02T15:04:05Z",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "carol")
	assert.Contains(t, body, "ACC001")
	assert.Contains(t, body, "Bob Smith")
	assert.Contains(t, body, "approved")
}

func TestRenderApprovalDenied(t *testing.T) {
	body, err := RenderApprovalDenied(DecisionMailParams{
		Requester: "alice",
		Approver:  "dave",
		Account:   "ACC002",
		Reason:    "invalid admin credentials",
		Timestamp: "2026-01-02T15:04:05Z",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "denied")
	assert.Contains(t, body, "invalid admin credentials")
}

func TestRenderEscapesHTML(t *testing.T) {
	body, err := RenderApprovalDenied(DecisionMailParams{
		Requester: "<script>alert(1)</script>",
		Reason:    "a & b",
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

type recordingSender struct {
	sent []struct {
		receivers []string
		subject   string
		body      string
	}
	err error
}

func (s *recordingSender) Send(receivers []string, subject, body string) error {
	s.sent = append(s.sent, struct {
		receivers []string
		subject   string
		body      string
	}{receivers, subject, body})
	return s.err
}

func (s *recordingSender) Host() string { return "recording" }
func (s *recordingSender) Port() int    { return 0 }

func TestMailerApprovalGranted(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewMailerWithSender(sender, []string{"audit@bank.example"}, zaptest.NewLogger(t).Sugar())

	mailer.ApprovalGranted(context.Background(), "alice", "carol", "ACC001", "Bob Smith")

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"audit@bank.example"}, sender.sent[0].receivers)
	assert.Equal(t, "Account closure approved: ACC001", sender.sent[0].subject)
	assert.Contains(t, sender.sent[0].body, "carol")
}

func TestMailerApprovalDenied(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewMailerWithSender(sender, []string{"audit@bank.example"}, zaptest.NewLogger(t).Sugar())

	mailer.ApprovalDenied(context.Background(), "alice", "dave", "ACC002", "invalid admin credentials")

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Account closure denied: ACC002", sender.sent[0].subject)
	assert.Contains(t, sender.sent[0].body, "invalid admin credentials")
}

func TestMailerNoRecipientsSkipsSend(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewMailerWithSender(sender, nil, zaptest.NewLogger(t).Sugar())

	mailer.ApprovalGranted(context.Background(), "alice", "carol", "ACC001", "Bob Smith")

	assert.Empty(t, sender.sent)
}

func TestMailerSendFailureDoesNotPanic(t *testing.T) {
	sender := &recordingSender{err: fmt.Errorf("smtp down")}
	mailer := NewMailerWithSender(sender, []string{"audit@bank.example"}, zaptest.NewLogger(t).Sugar())

	assert.NotPanics(t, func() {
		mailer.ApprovalDenied(context.Background(), "alice", "dave", "ACC002", "directory unavailable")
	})
}

// startTestSMTPServer starts a minimal SMTP server on a random port that
// accepts one message and then returns. It only implements the commands the
// sender needs.
func startTestSMTPServer(t *testing.T) (host string, port int, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		fmt.Fprintf(conn, "220 localhost Test SMTP Service Ready\r\n")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				break
			}
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				fmt.Fprintf(conn, "250-localhost Hello\r\n250 OK\r\n")
			case strings.HasPrefix(line, "MAIL FROM:"), strings.HasPrefix(line, "RCPT TO:"):
				fmt.Fprintf(conn, "250 OK\r\n")
			case strings.HasPrefix(line, "DATA"):
				fmt.Fprintf(conn, "354 End data with <CR><LF>.<CR><LF>\r\n")
				for {
					dline, derr := r.ReadString('\n')
					if derr != nil || strings.TrimSpace(dline) == "." {
						break
					}
				}
				fmt.Fprintf(conn, "250 OK: queued as 12345\r\n")
			case strings.HasPrefix(line, "QUIT"):
				fmt.Fprintf(conn, "221 Bye\r\n")
				return
			default:
				fmt.Fprintf(conn, "250 OK\r\n")
			}
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	stop = func() {
		ln.Close()
		wg.Wait()
	}
	return "127.0.0.1", addr.Port, stop
}

func TestSenderSendHappyPath(t *testing.T) {
	host, port, stop := startTestSMTPServer(t)
	defer stop()

	sender := NewSender(config.Mail{
		Host:          host,
		Port:          port,
		SenderAddress: "noreply@bank.example",
		RetryCount:    1,
	}, zaptest.NewLogger(t).Sugar())

	err := sender.Send([]string{"recipient@bank.example"}, "Hello", "<p>body</p>")
	assert.NoError(t, err)
}

func TestSenderSendNoServer(t *testing.T) {
	sender := NewSender(config.Mail{
		Host:           "127.0.0.1",
		Port:           1, // nothing listens here
		RetryCount:     1,
		RetryBackoffMs: 1,
	}, zaptest.NewLogger(t).Sugar())

	err := sender.Send([]string{"recipient@bank.example"}, "Hello", "<p>body</p>")
	assert.Error(t, err)
}

func TestSenderDefaults(t *testing.T) {
	s := NewSender(config.Mail{Host: "smtp.bank.example", Port: 587}, zaptest.NewLogger(t).Sugar())
	assert.Equal(t, "smtp.bank.example", s.Host())
	assert.Equal(t, 587, s.Port())
}
