package mock

import (
	"context"
	"sync"

	"github.com/chriscorrea/astrelium/internal/llm/common"
)

// DefaultResponse is returned when no scripted reply is queued
const DefaultResponse = "Mock LLM response"

// Client implements common.LLM with canned replies
// replies are consumed in order; once exhausted Response (or DefaultResponse) is returned
type Client struct {
	Response string
	Replies  []string
	Err      error

	mu      sync.Mutex
	Prompts []string
	Options [][]interface{}
}

var _ common.LLM = (*Client)(nil)

// Generate records the prompt and returns the next scripted reply
func (c *Client) Generate(ctx context.Context, prompt string, modelName string, options ...interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Prompts = append(c.Prompts, prompt)
	c.Options = append(c.Options, options)
	if c.Err != nil {
		return "", c.Err
	}
	if len(c.Replies) > 0 {
		reply := c.Replies[0]
		c.Replies = c.Replies[1:]
		return reply, nil
	}
	if c.Response != "" {
		return c.Response, nil
	}
	return DefaultResponse, nil
}

// Calls returns how many prompts were sent
func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Prompts)
}
