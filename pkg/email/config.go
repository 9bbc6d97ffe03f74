package email

// Config holds outbound email configuration.
// Postmark tokens are optional to support environments where real sending
// is disabled (SimSender or DevSender). SenderEmail establishes the sender
// identity for all outbound mail; ReplyToEmail controls where customer
// responses land.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	ReplyToEmail         string `env:"REPLY_TO_EMAIL"`
}
