// Package logging builds the structured logger used across hlyr.
//
// # Overview
//
// The logging package configures Go's log/slog with:
//   - JSON, text, and console output formats
//   - Credential redaction (API keys, bearer tokens, passwords)
//   - Request IDs and provider names taken from the context
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Redact: true,
//	})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "request sent", "api_key", "sk-abc123xyz")
//	// request_id=req-123 is added, the key is masked
//
// # Redaction
//
// Attributes whose key names a credential (api_key, authorization,
// x-api-key, password, token) are masked to a short prefix. String and error
// values are scanned for key and token patterns:
//
//   - API keys: sk-abc123xyz → sk-***
//   - Bearer tokens: Bearer abc.def → Bearer ***
//   - Emails: user@example.com → u***@example.com
package logging
