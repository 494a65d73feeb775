package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	DatabasePath string `env:"DATABASE_PATH" envDefault:"store.db"`

	Telegram Telegram `envPrefix:"TELEGRAM_"`
	Helius   Helius   `envPrefix:"HELIUS_"`
	Store    Store    `envPrefix:"STORE_"`
	Ops      Ops      `envPrefix:"OPS_"`
}

type Telegram struct {
	BotToken    string        `env:"BOT_TOKEN"`
	BaseApiURL  string        `env:"BASE_API_URL" envDefault:"https://api.telegram.org"`
	PollTimeout time.Duration `env:"POLL_TIMEOUT" envDefault:"30s"`
}

type Helius struct {
	APIKey      string        `env:"API_KEY"`
	RPCURL      string        `env:"RPC_URL" envDefault:"https://mainnet.helius-rpc.com"`
	CallTimeout time.Duration `env:"CALL_TIMEOUT" envDefault:"10s"`
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	RetryDelay  time.Duration `env:"RETRY_DELAY" envDefault:"2s"`
}

type Store struct {
	WalletAddress string        `env:"WALLET_ADDRESS"`
	AdminIDs      []int64       `env:"ADMIN_IDS" envSeparator:","`
	MinProofLen   int           `env:"MIN_PROOF_LEN" envDefault:"32"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"30m"`
}

type Ops struct {
	Token string `env:"TOKEN"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
