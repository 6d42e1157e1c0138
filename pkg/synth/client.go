package synth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/naseej/meshdesign/pkg/errors"
	"github.com/naseej/meshdesign/pkg/httputil"
	"github.com/naseej/meshdesign/pkg/mesh"
)

// =============================================================================
// Wire Types - External Design Service Contract
// =============================================================================

// Request is the JSON body sent to the design service.
type Request struct {
	Prompt string `json:"prompt"`
}

// NodeSpec is one node descriptor returned by the design service. Type is
// free-form: values outside the known service-type enumeration are stored
// anyway and rendered with the generic profile.
type NodeSpec struct {
	Type   string         `json:"type"`
	Label  string         `json:"label"`
	Config map[string]any `json:"config,omitempty"`
}

// Response is the JSON body expected from the design service. A missing
// or non-array "nodes" field is treated as a malformed response.
type Response struct {
	Nodes []NodeSpec `json:"nodes"`
}

// Client produces a graph description for a natural-language prompt.
// Implementations: [HTTPClient] for the external AI design service and
// [KeywordClient] for offline keyword matching.
type Client interface {
	Generate(ctx context.Context, prompt string) (Response, error)
}

// =============================================================================
// HTTPClient - External AI Design Service
// =============================================================================

// HTTPClient calls the external AI design service over HTTP. Transient
// failures (network errors, 5xx) are retried with exponential backoff;
// 4xx responses and undecodable bodies fail immediately.
type HTTPClient struct {
	url    string
	client *http.Client
}

// NewHTTPClient creates a client for the design service at url.
// A zero timeout defaults to 30 seconds.
func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Generate sends the prompt and decodes the node descriptors. The
// response must carry a "nodes" array; any other shape is a malformed
// response, not a network failure.
func (c *HTTPClient) Generate(ctx context.Context, prompt string) (Response, error) {
	var raw map[string]json.RawMessage
	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
		raw = nil
		return httputil.PostJSON(ctx, c.client, c.url, Request{Prompt: prompt}, &raw)
	})
	if err != nil {
		if ctx.Err() != nil {
			return Response{}, errors.Wrap(errors.ErrCodeTimeout, err, "design service call cancelled")
		}
		return Response{}, errors.Wrap(errors.ErrCodeNetwork, err, "design service %s", c.url)
	}

	nodesRaw, ok := raw["nodes"]
	if !ok {
		return Response{}, errors.New(errors.ErrCodeSynthMalformed, "design service response has no nodes array")
	}
	var nodes []NodeSpec
	if err := json.Unmarshal(nodesRaw, &nodes); err != nil {
		return Response{}, errors.Wrap(errors.ErrCodeSynthMalformed, err, "design service nodes are not an array")
	}
	if nodes == nil {
		nodes = []NodeSpec{}
	}
	return Response{Nodes: nodes}, nil
}

// =============================================================================
// KeywordClient - Offline Fallback
// =============================================================================

// KeywordClient derives node descriptors from prompt keywords without any
// network call. It mirrors the design service's fallback behavior and
// doubles as the demo/offline backend.
type KeywordClient struct{}

// keywordRules maps prompt keywords to node descriptors, checked in order.
var keywordRules = []struct {
	keywords []string
	spec     NodeSpec
}{
	{
		keywords: []string{"mqtt", "sensor", "broker"},
		spec: NodeSpec{
			Type:   string(mesh.TypeMessageBroker),
			Label:  "MQTT Source",
			Config: map[string]any{"topic": "sensors/#"},
		},
	},
	{
		keywords: []string{"http", "api", "rest"},
		spec: NodeSpec{
			Type:  string(mesh.TypeHTTPEndpoint),
			Label: "REST API",
		},
	},
	{
		keywords: []string{"filter", "threshold", ">"},
		spec: NodeSpec{
			Type:  string(mesh.TypeFilter),
			Label: "Data Filter",
		},
	},
	{
		keywords: []string{"transform", "convert", "normalize"},
		spec: NodeSpec{
			Type:  string(mesh.TypeTransform),
			Label: "Transformer",
		},
	},
	{
		keywords: []string{"ai", "llm", "analyze"},
		spec: NodeSpec{
			Type:   string(mesh.TypeAI),
			Label:  "AI Processor",
			Config: map[string]any{"model": "command-r-plus"},
		},
	},
	{
		keywords: []string{"database", "postgres", "store"},
		spec: NodeSpec{
			Type:  string(mesh.TypeDatabase),
			Label: "Database Sink",
		},
	},
}

// Generate matches keywords in the prompt against the rule table.
// Prompts matching nothing yield a valid empty node list.
func (KeywordClient) Generate(_ context.Context, prompt string) (Response, error) {
	lower := strings.ToLower(prompt)
	resp := Response{Nodes: []NodeSpec{}}
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				resp.Nodes = append(resp.Nodes, rule.spec)
				break
			}
		}
	}
	return resp, nil
}
