// Package config loads and validates hlyr configuration.
//
// # Overview
//
// Configuration is read from humanlayer.yml (or humanlayer.yaml) in the
// working directory, merged over built-in defaults, and then overridden by
// HUMANLAYER_* environment variables. A .env file in the working directory
// is loaded first; variables already set in the environment win.
//
// # File Format
//
//	activeProvider: claude
//	failoverProvider: ollama
//	providers:
//	  claude:
//	    apiKey: sk-ant-...
//	    model: claude-3-opus-20240229
//	  ollama:
//	    host: http://localhost:11434
//	    model: llama2
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//
// Fields a file leaves out keep their defaults, including fields inside a
// provider block.
//
// # Usage
//
//	cfg, err := config.LoadConfigWithEnvOverrides("")
//	if err != nil {
//	    return err
//	}
//	source := config.NewSource(cfg)
//
//	// Hot reload: a changed failoverProvider applies to the next failure
//	go config.NewWatcher(path, source, logger).Watch(ctx)
//
// # Validation
//
// Validate checks struct tags with go-playground/validator and the provider
// rules. The returned ValidationError unwraps to the typed provider errors,
// so errors.Is(err, providers.ErrMissingModel) detects an active provider
// without a model.
package config
