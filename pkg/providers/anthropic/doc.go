// Package anthropic implements the Claude adapter over Anthropic's Messages
// API.
//
// System turns are sent in the top-level system field. max_tokens is
// mandatory for the API; ProviderConfig.MaxTokens is used when set and
// DefaultMaxTokens otherwise.
//
// The SSE stream carries many event kinds. The adapter yields only the text
// of content_block_delta events whose delta type is text_delta, so every
// fragment is plain text ready to concatenate.
package anthropic
