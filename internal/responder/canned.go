package responder

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
)

// DefaultResponses are the stock coaching replies.
var DefaultResponses = []string{
	"That's a great question! Based on my knowledge, I'd recommend focusing on compound movements that work multiple muscle groups for maximum efficiency.",
	"I understand what you're looking for. For best results, consistency is key - aim for 3-4 workouts per week with proper rest between sessions.",
	"That's an excellent goal! Let me suggest a progressive approach that will help you build strength safely while avoiding injury.",
	"Great question! Nutrition plays a crucial role in fitness. I recommend focusing on whole foods and adequate protein intake to support your workouts.",
	"I love your enthusiasm! Remember that proper form is more important than lifting heavy weights. Quality over quantity always wins.",
	"That's a common concern among fitness enthusiasts. The key is listening to your body and gradually increasing intensity over time.",
	"Excellent point! Recovery is just as important as the workout itself. Make sure you're getting enough sleep and managing stress levels.",
	"I'm here to help you succeed! Based on your question, I'd suggest starting with bodyweight exercises to build a solid foundation.",
}

// Canned picks a reply uniformly at random from a fixed list, ignoring the
// user text.
type Canned struct {
	mu        sync.Mutex
	responses []string
	rnd       *rand.Rand
}

// NewCanned returns a Canned responder. An empty list falls back to
// DefaultResponses; a nil rnd uses the global source.
func NewCanned(responses []string, rnd *rand.Rand) *Canned {
	if len(responses) == 0 {
		responses = DefaultResponses
	}
	return &Canned{responses: slices.Clone(responses), rnd: rnd}
}

// Respond returns one of the configured replies.
func (c *Canned) Respond(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.responses[c.pick()], nil
}

// Responses returns the list replies are drawn from.
func (c *Canned) Responses() []string {
	return slices.Clone(c.responses)
}

func (c *Canned) pick() int {
	if c.rnd == nil {
		return rand.IntN(len(c.responses))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rnd.IntN(len(c.responses))
}
