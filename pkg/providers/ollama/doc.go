// Package ollama implements the adapter for a local Ollama server using its
// native /api/chat endpoint, and a ModelManager for listing and pulling
// models.
//
// Ollama needs no credential. ProviderConfig.BaseURL is the server host
// (DefaultHost when empty). Streams are newline-delimited JSON; each line's
// message.content is yielded as one fragment.
package ollama
