// hlyr is a command-line chat client for multiple chat-completion backends.
//
// It sends every request to the configured active provider and, if that
// provider fails, retries once on the configured failover provider.
// Supported providers: ollama, lmstudio, togetherai, claude, gemini, qwen,
// codex.
//
// Usage:
//
//	# Ask a single question
//	hlyr chat "What is the capital of France?"
//
//	# Interactive session, streaming the reply
//	hlyr chat --stream
//
//	# Use another provider for one run
//	hlyr chat --provider claude --failover ollama "Hello"
//
//	# Show the effective configuration with API keys masked
//	hlyr config show
//
//	# List and pull local Ollama models
//	hlyr models list
//	hlyr models pull llama2
//
//	# Check provider configuration
//	hlyr providers --check
//
// Configuration is read from humanlayer.yml or humanlayer.yaml in the
// working directory and HUMANLAYER_* environment variables.
package main

func main() {
	Execute()
}
