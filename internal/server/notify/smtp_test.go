package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benrowan/crusty-crawler/internal/logging"
	"github.com/benrowan/crusty-crawler/internal/server/auth"
)

var testUser = auth.User{
	Username:     "alice",
	Email:        "a@x.com",
	PasswordHash: "$2a$10$secret",
	AccessToken:  "tok12345",
}

func TestBuildRecoveryMessage(t *testing.T) {
	msg := string(BuildRecoveryMessage("crusty@mail.example.com", testUser))

	assert.Contains(t, msg, "To: a@x.com")
	assert.Contains(t, msg, "Subject: Crusty Server Credentials Recovery")
	assert.Contains(t, msg, "Username: alice")
	assert.Contains(t, msg, "Access Token: tok12345")
	assert.Contains(t, msg, "Message-ID: <")
	assert.NotContains(t, msg, "$2a$", "recovery mail must never carry the password hash")

	// headers separated from the body by a blank line
	require.Contains(t, msg, "\r\n\r\n")
	header := msg[:strings.Index(msg, "\r\n\r\n")]
	assert.Contains(t, header, "From: crusty@mail.example.com")
}

func TestSMTPNotifier_Send_Plain(t *testing.T) {
	n := NewSMTPNotifier(logging.Nop{})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	n.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = msg
		return nil
	}

	cfg := auth.SMTPConfig{Server: "mail.example.com", Port: 587, Username: "mailer", Password: "pw"}
	require.NoError(t, n.Send(context.Background(), cfg, testUser))

	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "mailer", gotFrom)
	assert.Equal(t, []string{"a@x.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Access Token: tok12345")
}

func TestSMTPNotifier_Send_DefaultFromWithoutUsername(t *testing.T) {
	n := NewSMTPNotifier(logging.Nop{})

	var gotFrom string
	n.sendMail = func(_ string, _ smtp.Auth, from string, _ []string, _ []byte) error {
		gotFrom = from
		return nil
	}

	cfg := auth.SMTPConfig{Server: "mail.example.com", Port: 25}
	require.NoError(t, n.Send(context.Background(), cfg, testUser))
	assert.Equal(t, "crusty@mail.example.com", gotFrom)
}

func TestSMTPNotifier_Send_Error(t *testing.T) {
	n := NewSMTPNotifier(logging.Nop{})
	n.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	cfg := auth.SMTPConfig{Server: "mail.example.com", Port: 25}
	err := n.Send(context.Background(), cfg, testUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail.example.com:25")
}

func TestLogNotifier_Send(t *testing.T) {
	n := NewLogNotifier(logging.Nop{})
	err := n.Send(context.Background(), auth.SMTPConfig{}, testUser)
	assert.NoError(t, err)
}
