// Package openai implements adapters for OpenAI-compatible chat completion
// APIs.
//
// One Provider type serves every backend that speaks the chat completions
// wire format. A Variant fixes the provider name, the default endpoint,
// whether a credential is mandatory, and whether streaming is declared:
//
//   - Codex: api.openai.com, key required, streams
//   - Qwen: DashScope compatible mode, key required, streams
//   - TogetherAI: api.together.xyz, key required, single-shot only
//   - LMStudio: local server, no key ("not-needed" is sent), single-shot only
//
// # Basic Usage
//
//	p := openai.NewCodex()
//	err := p.Initialize(providers.ProviderConfig{
//	    APIKey: os.Getenv("HUMANLAYER_CODEX_APIKEY"),
//	    Model:  "code-davinci-002",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := p.SendCompletion(ctx, req)
//	completion := resp.Native.(*openai.ChatCompletion)
//
// Streaming yields choices[0].delta.content of each SSE chunk until the
// [DONE] marker.
package openai
