// internal/config/config.go
package config

import "os"

// TwilioConfig holds outbound messaging credentials.
type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
	BaseURL     string
}

// ElevenLabsConfig holds text-to-speech credentials.
type ElevenLabsConfig struct {
	APIKey         string
	BaseURL        string
	DefaultVoiceID string
	DefaultModel   string
}

// HeyGenConfig holds avatar-video generation credentials.
type HeyGenConfig struct {
	APIKey      string
	AvatarID    string
	VoiceID     string
	GenerateURL string
	StatusURL   string
}

// BombBombConfig holds video-email credentials.
type BombBombConfig struct {
	APIKey    string
	UserEmail string
	BaseURL   string
}

// SupabaseConfig holds object-storage credentials.
type SupabaseConfig struct {
	URL        string
	ServiceKey string
}

// Config is the process configuration, read once from the environment.
// Missing provider credentials disable the matching feature rather than
// failing startup; each adapter reports ProviderUnconfigured when used.
type Config struct {
	Port          string
	PublicBaseURL string // publicly reachable HTTPS base for Twilio callbacks
	PublicDir     string // served root for local fallback media

	Twilio     TwilioConfig
	ElevenLabs ElevenLabsConfig
	HeyGen     HeyGenConfig
	BombBomb   BombBombConfig
	Supabase   SupabaseConfig

	DatabaseURL string // optional delivery log
	AMQPURL     string // optional delivery event broker
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
		PublicDir:     getenv("PUBLIC_DIR", "public"),
		Twilio: TwilioConfig{
			AccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
			PhoneNumber: getenv("TWILIO_PHONE_NUMBER", "+17179708756"),
			BaseURL:     getenv("TWILIO_API_URL", "https://api.twilio.com"),
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey:         os.Getenv("ELEVENLABS_API_KEY"),
			BaseURL:        getenv("ELEVENLABS_API_URL", "https://api.elevenlabs.io/v1"),
			DefaultVoiceID: getenv("ELEVENLABS_DEFAULT_VOICE_ID", "2kz7I2qp93JeVv97SMdi"),
			DefaultModel:   getenv("ELEVENLABS_DEFAULT_MODEL", "eleven_multilingual_v2"),
		},
		HeyGen: HeyGenConfig{
			APIKey:      os.Getenv("HEYGEN_API_KEY"),
			AvatarID:    os.Getenv("HEYGEN_AVATAR_ID"),
			VoiceID:     os.Getenv("HEYGEN_VOICE_ID"),
			GenerateURL: getenv("HEYGEN_API_URL", "https://api.heygen.com/v2"),
			StatusURL:   getenv("HEYGEN_STATUS_URL", "https://api.heygen.com/v1"),
		},
		BombBomb: BombBombConfig{
			APIKey:    os.Getenv("BOMBBOMB_API_KEY"),
			UserEmail: os.Getenv("BOMBBOMB_USER_EMAIL"),
			BaseURL:   getenv("BOMBBOMB_API_URL", "https://api.bombbomb.com/v2"),
		},
		Supabase: SupabaseConfig{
			URL:        os.Getenv("SUPABASE_URL"),
			ServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AMQPURL:     os.Getenv("AMQP_URL"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
