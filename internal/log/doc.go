// Package log provides logging with automatic redaction of credentials,
// built on top of the standard slog package.
//
// coloringbook talks to an image generation API with a secret key, and its
// run logs are meant to be kept next to the books they describe. The
// SecureHandler makes sure those logs never carry the key:
//   - attributes whose key names a credential (api_key, authorization, ...)
//   - values that look like an OpenAI key ("sk-...") or a bearer token
//   - keys embedded in longer strings, such as API error messages
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Warn("request failed", "error", err) // any "sk-..." inside err is masked
//	slog.SetDefault(logger)
package log
