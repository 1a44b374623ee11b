// Package cookie implements the RFC 6265 header grammar used on the session
// boundary: parsing the request Cookie header into name/value pairs and
// serializing Set-Cookie response headers with a fixed, canonical attribute
// order so output is deterministic and testable.
//
// Parsing is forgiving: malformed pairs are skipped, never fatal, and an
// absent header degrades to an empty map. Serialization is strict: attributes
// are always emitted in the order Path, Domain, Max-Age, Secure, HttpOnly,
// SameSite.
//
// Attributes for the session cookie are configuration-exposed via Config
// rather than hard-coded, so deployments decide their own Secure/SameSite
// posture:
//
//	var cfg cookie.Config
//	config.MustLoad(&cfg)
//	c := cookie.New(cfg.Name, token, cookie.FromConfig(cfg)...)
//	resp.Header.Add("Set-Cookie", c.String())
package cookie
