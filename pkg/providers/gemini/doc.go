// Package gemini implements the Gemini adapter over the Generative Language
// REST API.
//
// Gemini keeps prior context separate from the new turn, so requests are
// expected to carry a providers.ChatSession. A providers.Conversation is
// accepted as a new turn with empty history. Assistant turns are sent with
// the "model" role and system turns become the system instruction.
//
// Streaming uses streamGenerateContent with alt=sse; each event is a partial
// GenerateContentResponse whose text parts are yielded as one fragment.
package gemini
