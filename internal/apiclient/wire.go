package apiclient

// generateRequest is the JSON body sent to the /api/generate endpoint.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateChunk is one NDJSON line of the response. The endpoint delivers
// the generated text incrementally in Response and signals completion with
// Done; mid-stream failures arrive as an Error field on their own line.
type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Request carries everything one invocation needs to call the API. It is
// assembled once by the config layer and immutable afterwards.
type Request struct {
	Prompt    string
	APIKey    string
	Model     string
	Stream    bool
	MaxTokens int
}

// Validate enforces the client preconditions: a missing key is reported as a
// failure without attempting the request, and an empty prompt is rejected
// locally rather than bounced off the API.
func (r *Request) Validate() error {
	if r.APIKey == "" {
		return &Error{Kind: KindMissingCredentials, Message: "no API key set (export OLLAMA_API_KEY)"}
	}
	if r.Prompt == "" {
		return &Error{Kind: KindBadRequest, Message: "prompt must not be empty"}
	}
	if r.MaxTokens <= 0 {
		return &Error{Kind: KindBadRequest, Message: "max tokens must be positive"}
	}
	return nil
}

// Chunk is one incremental unit of generated text, in arrival order.
type Chunk struct {
	Text  string
	Final bool
}
