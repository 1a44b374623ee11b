package cookie

// Config holds session-cookie attributes with environment variable support.
// Secure and SameSite are deployment decisions, not hard-coded policy.
type Config struct {
	Name     string `env:"COOKIE_NAME" envDefault:"session_id"`
	Path     string `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string `env:"COOKIE_DOMAIN" envDefault:""`
	MaxAge   int    `env:"COOKIE_MAX_AGE" envDefault:"0"`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite string `env:"COOKIE_SAME_SITE" envDefault:"Lax"`
}

// DefaultConfig returns a Config with secure defaults.
func DefaultConfig() Config {
	return Config{
		Name:     "session_id",
		Path:     "/",
		HttpOnly: true,
		SameSite: string(SameSiteLax),
	}
}
