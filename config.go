package fitplan

type ModelConfig struct {
	ModelID     string  `env:"MODEL_ID,required"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=4096"`
	Temperature float32 `env:"TEMPERATURE,default=0.7"`
	RepairModel string  `env:"REPAIR_MODEL_ID,default="`
}

type ServiceConfig struct {
	OpenAIBaseEndpoint string `env:"OPENAI_BASE_ENDPOINT,default=https://api.openai.com"`
	OpenAIAPIKey       string `env:"OPENAI_API_KEY,default="`
	StripeAPIKey       string `env:"STRIPE_API_KEY,default="`
	MailEndpoint       string `env:"MAIL_ENDPOINT,default=https://api.resend.com/emails"`
	MailAPIKey         string `env:"MAIL_API_KEY,default="`
	MailFrom           string `env:"MAIL_FROM,default=plans@fitplan.local"`
	MailMaxAttempts    int    `env:"MAIL_MAX_ATTEMPTS,default=3"`
	LogoPath           string `env:"LOGO_PATH,default=assets/logo.png"`
}
