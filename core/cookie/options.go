package cookie

// Option is a functional option for constructing a cookie.
type Option func(*Cookie)

// WithPath sets the cookie path attribute.
func WithPath(path string) Option {
	return func(c *Cookie) {
		c.Path = path
	}
}

// WithDomain sets the cookie domain attribute.
func WithDomain(domain string) Option {
	return func(c *Cookie) {
		c.Domain = domain
	}
}

// WithMaxAge sets the cookie max-age in seconds.
// Negative values delete the cookie immediately.
func WithMaxAge(seconds int) Option {
	return func(c *Cookie) {
		c.MaxAge = seconds
	}
}

// WithSecure restricts the cookie to HTTPS transports.
func WithSecure(secure bool) Option {
	return func(c *Cookie) {
		c.Secure = secure
	}
}

// WithHTTPOnly prevents JavaScript access to the cookie.
func WithHTTPOnly(httpOnly bool) Option {
	return func(c *Cookie) {
		c.HttpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute for CSRF protection.
func WithSameSite(sameSite SameSite) Option {
	return func(c *Cookie) {
		c.SameSite = sameSite
	}
}

// FromConfig translates a Config into the equivalent option list.
func FromConfig(cfg Config) []Option {
	opts := []Option{
		WithPath(cfg.Path),
		WithHTTPOnly(cfg.HttpOnly),
		WithSecure(cfg.Secure),
	}
	if cfg.Domain != "" {
		opts = append(opts, WithDomain(cfg.Domain))
	}
	if cfg.MaxAge != 0 {
		opts = append(opts, WithMaxAge(cfg.MaxAge))
	}
	if cfg.SameSite != "" {
		opts = append(opts, WithSameSite(SameSite(cfg.SameSite)))
	}
	return opts
}
