// Package secrets resolves ${secret:name} references in configuration values.
//
// A Resolver asks its sources in order. Two sources are provided:
//
//   - EnvSource reads HUMANLAYER_SECRET_<NAME>, where <NAME> is the secret name
//     uppercased with hyphens replaced by underscores.
//   - FileSource reads <dir>/<name>, the layout of Kubernetes secret volume
//     mounts. Files must be readable by their owner only (0600 or 0400).
//
// Example humanlayer.yml:
//
//	secrets:
//	  dir: /run/secrets/hlyr
//	providers:
//	  claude:
//	    apiKey: ${secret:anthropic-api-key}
//	    model: claude-3-opus-20240229
package secrets
