// Package demo replays a pre-written discussion through the real engine so
// the CLI can be tried without any backend.
package demo

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lorenzotomasdiez/groupchat/internal/backend"
	"github.com/lorenzotomasdiez/groupchat/internal/discussion"
	"github.com/lorenzotomasdiez/groupchat/internal/persona"
)

// Topic is the question the scripted discussion answers.
const Topic = "Should companies adopt a 4-day work week?"

// Rounds is the number of scripted rounds.
const Rounds = 3

var script = map[string][]string{
	persona.Logical: {
		"Let's break this down. The 4-day work week typically means 32 hours paid as 40, or 4x10-hour days. Studies from Microsoft Japan and Perpetual Guardian in New Zealand showed productivity increases of 20-40%. But we need to separate correlation from causation here.",
		"I think the Skeptic raises a valid concern. But maybe the question isn't 'should ALL companies' but rather 'which companies and roles.' Different contexts need different solutions. A blanket policy either way seems too simplistic.",
		"So we're converging on: it depends on the industry, role, and implementation. The evidence suggests benefits in specific contexts, but universal adoption isn't feasible. That seems like a reasonable conclusion.",
	},
	persona.Creative: {
		"What if we're thinking about this wrong? Maybe it's not about the number of days at all, but about giving people autonomy over their time. The best ideas I've ever had came when I wasn't 'at work'. That extra day could unlock so much creative potential.",
		"Ooh I love that reframe! What if companies offered it as an option? Like, some people might prefer 5 shorter days for family reasons. The real innovation might be flexibility itself, not a specific schedule.",
		"I still think the bigger shift is cultural. Whether it's 4 days or flexible hours, the underlying change is trusting employees to manage their output rather than their time. That's the real conversation we should be having.",
	},
	persona.Skeptical: {
		"Hold on though - those studies are mostly from knowledge work sectors. What about healthcare, retail, manufacturing? A hospital can't just close on Fridays. I think we're generalizing from a narrow set of industries.",
		"Flexibility sounds nice but creates coordination problems. If half your team works Monday-Thursday and half works Tuesday-Friday, when do you meet? I've seen 'flexible' policies create more stress, not less.",
		"Fair, but trust requires verification. How do you measure 'output' for a manager? Or a culture lead? Some jobs are inherently hard to quantify. I'm not saying don't try, just that it's harder than it sounds.",
	},
	persona.Practical: {
		"That's a good point. Implementation is everything here. You'd need to think about customer coverage, shift scheduling, and whether clients in other countries are okay with you being unavailable 3 days a week. The logistics aren't trivial.",
		"We actually tried flexible Fridays at my old company. The key was having 3 'core days' where everyone overlapped. The other 2 were flexible. It worked, but it required really clear documentation and async communication skills.",
		"I'd recommend any company considering this start with a 3-month pilot in one department. Measure before/after carefully. That gives you real data instead of vibes, and it's reversible if it fails.",
	},
	persona.Synthesizer: {
		"So far we have promising evidence from knowledge work and a fair question about whether it carries over to sectors that need continuous coverage. Both can be true at once.",
		"The thread running through this round is flexibility. Everyone seems open to it, the open question is how to keep teams coordinated while offering it.",
		"Interesting discussion. We've got strong support for the idea in principle, but legitimate concerns about universal applicability. The emerging consensus seems to be: context matters, pilots are wise, and flexibility might be the real goal behind the 4-day framing.",
	},
}

// Summary is the scripted discussion summary.
const Summary = `**Key Points by Participant:**

- **Logical Thinker**: Cited productivity research, emphasized need for context-specific analysis, helped reframe from universal to selective adoption
- **Creative Thinker**: Focused on autonomy and trust as underlying values, suggested flexibility as the real innovation
- **Skeptical Thinker**: Raised industry applicability concerns, coordination challenges, and measurement difficulties
- **Practical Thinker**: Shared real-world implementation experience, recommended pilot approach with core overlap days

**Main Disagreements:**
- Universal vs. selective adoption
- Whether flexibility creates or reduces stress
- How to measure output in non-quantifiable roles

**Areas of Agreement:**
- Context and industry matter significantly
- Implementation details are crucial
- A pilot approach reduces risk
- The deeper issue may be trust and autonomy`

// Takeaway is the scripted closing takeaway.
const Takeaway = `The 4-day work week is neither a universal solution nor a gimmick. It is a tool that works well in specific contexts. Evidence supports productivity benefits in knowledge-work settings, but service industries and roles requiring continuous coverage face genuine implementation challenges.

Rather than asking "should we do this?", companies might better ask "what problem are we solving?" If the goal is employee wellbeing and sustainable performance, a 4-day week is one path, but flexible scheduling, async-first culture, or results-based work policies might achieve similar outcomes with fewer coordination costs.

For organizations considering this change: start small with a reversible pilot, measure outcomes rigorously, and be honest about which roles can and cannot adapt. The companies that succeed will be those that treat this as an operational experiment rather than a cultural statement.`

// Spec is the display-only backend of every scripted persona.
var Spec = backend.Spec{Kind: "demo", Model: "scripted"}

// Personas returns the built-in personas labelled with the scripted backend.
func Personas() []persona.Persona {
	ps := persona.Builtin()
	for i := range ps {
		ps[i].Backend = Spec
	}
	return ps
}

// Script replays one persona's lines in order.
type Script struct {
	mu    sync.Mutex
	id    string
	lines []string
	next  int
}

// NewScript returns the scripted speaker for persona id.
func NewScript(id string) (*Script, error) {
	lines, ok := script[id]
	if !ok {
		return nil, fmt.Errorf("demo: %w: %q", persona.ErrUnknownPersona, id)
	}
	return &Script{id: id, lines: lines}, nil
}

// Generate returns the next scripted line. Once the script runs out the
// backend reports itself unavailable.
func (s *Script) Generate(ctx context.Context, _ backend.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.lines) {
		return "", &backend.Error{Provider: Spec.Kind, Kind: backend.ErrUnavailable, Err: fmt.Errorf("script for %s exhausted", s.id)}
	}
	line := s.lines[s.next]
	s.next++
	return line, nil
}

// Resolver binds every persona to a fresh Script.
func Resolver() discussion.Resolver {
	return discussion.ResolverFunc(func(p persona.Persona) (backend.Generator, error) {
		return NewScript(p.ID)
	})
}

// RecapGenerator answers the recap prompts with the scripted summary and
// takeaway.
func RecapGenerator() backend.Generator {
	return backend.GeneratorFunc(func(ctx context.Context, req backend.Request) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if strings.Contains(req.System, "summarizing") {
			return Summary, nil
		}
		return Takeaway, nil
	})
}
