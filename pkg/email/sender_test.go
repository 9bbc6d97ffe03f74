package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/trackkit/pkg/email"
)

func TestMessage_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msg     email.Message
		wantErr bool
	}{
		{
			name: "valid single recipient",
			msg: email.Message{
				To:      []string{"ops@example.com"},
				Subject: "Shipment delivered",
				Body:    "done",
			},
		},
		{
			name: "valid multiple recipients",
			msg: email.Message{
				To:      []string{"a@example.com", "b@example.com"},
				Subject: "alert",
			},
		},
		{
			name:    "no recipients",
			msg:     email.Message{Subject: "x"},
			wantErr: true,
		},
		{
			name: "invalid recipient address",
			msg: email.Message{
				To:      []string{"not-an-address"},
				Subject: "x",
			},
			wantErr: true,
		},
		{
			name: "one bad recipient among good ones",
			msg: email.Message{
				To:      []string{"a@example.com", "nope"},
				Subject: "x",
			},
			wantErr: true,
		},
		{
			name: "empty subject",
			msg: email.Message{
				To: []string{"a@example.com"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.msg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, email.ErrInvalidMessage)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPostmarkSender_ConfigValidation(t *testing.T) {
	t.Parallel()

	valid := email.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "noreply@example.com",
		ReplyToEmail:         "support@example.com",
	}

	_, err := email.NewPostmarkSender(valid)
	assert.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*email.Config)
	}{
		{"missing server token", func(c *email.Config) { c.PostmarkServerToken = "" }},
		{"missing account token", func(c *email.Config) { c.PostmarkAccountToken = "" }},
		{"missing sender", func(c *email.Config) { c.SenderEmail = "" }},
		{"invalid sender", func(c *email.Config) { c.SenderEmail = "bad" }},
		{"invalid reply-to", func(c *email.Config) { c.ReplyToEmail = "bad" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tt.mutate(&cfg)
			_, err := email.NewPostmarkSender(cfg)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
		})
	}
}

func TestMustNewPostmarkSender_PanicsOnInvalidConfig(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		email.MustNewPostmarkSender(email.Config{})
	})
}
