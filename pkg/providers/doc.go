// Package providers defines the contract every chat backend adapter
// implements, together with the provider-agnostic request and response types.
//
// # Overview
//
// A Provider is constructed without I/O, bound with Initialize, and then
// answers single-shot requests with SendCompletion. Adapters that can stream
// declare it through Capabilities and implement Streamer; callers obtain the
// streaming view with AsStreamer.
//
// Requests carry a closed sum-type Payload: a Conversation for chat-style
// backends, or a ChatSession (history plus new turn) for backends that keep
// prior context separate. Routing code never inspects the payload.
//
// # Basic Usage
//
//	p := ollama.NewProvider()
//	if err := p.Initialize(providers.ProviderConfig{Model: "llama2"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := p.SendCompletion(ctx, providers.NewConversation(
//	    providers.Message{Role: providers.RoleUser, Content: "Hello!"},
//	))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// Streaming:
//
//	if s, ok := providers.AsStreamer(p); ok {
//	    chunks, err := s.StreamCompletion(ctx, req)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for chunk := range chunks {
//	        if chunk.Error != nil {
//	            log.Fatal(chunk.Error)
//	        }
//	        fmt.Print(chunk.Delta)
//	    }
//	}
//
// # Error Handling
//
// Configuration failures (*UnknownProviderError, *MissingCredentialError,
// *MissingModelError, *NotConfiguredError) are distinguishable from backend
// failures, which all match ErrBackend:
//
//	if errors.Is(err, providers.ErrBackend) {
//	    // transport, status or decode failure
//	}
//
// # HTTP Base
//
// HTTPProvider performs exactly one round trip per call. It never retries;
// recovering from a failed backend is the router's job.
package providers
