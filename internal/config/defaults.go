package config

const (
	defaultDataDir         = "~/.local/share/qrsafe"
	defaultLogDir          = "~/.local/share/qrsafe/logs"
	defaultBind            = "127.0.0.1:8320"
	defaultLLMBaseURL      = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel        = "google/gemini-3-flash-preview"
	defaultLLMTitle        = "qrsafe summarizer"
	defaultLLMTimeout      = 60
	defaultQRSize          = 300
	defaultQRQuietZone     = 2
	defaultQRForeground    = "#0A4D68"
	defaultQRBackground    = "#F0F8FF"
	defaultHistoryLimit    = 50
	defaultMaxPayloadChars = 2000
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Server: Server{
			Bind: defaultBind,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeout,
		},
		QR: QR{
			Size:       defaultQRSize,
			QuietZone:  defaultQRQuietZone,
			Foreground: defaultQRForeground,
			Background: defaultQRBackground,
		},
		History: History{
			Limit: defaultHistoryLimit,
		},
		Limits: Limits{
			MaxPayloadChars: defaultMaxPayloadChars,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
