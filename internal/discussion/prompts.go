package discussion

import (
	"fmt"

	"github.com/lorenzotomasdiez/groupchat/internal/backend"
	"github.com/lorenzotomasdiez/groupchat/internal/persona"
)

// MaxTokens caps every persona reply.
const MaxTokens = 500

func topicMessage(topic string) backend.Message {
	return backend.Message{Role: "user", Content: "[User] " + topic}
}

func respondCue(p persona.Persona) backend.Message {
	return backend.Message{
		Role:    "user",
		Content: fmt.Sprintf("Now respond naturally as yourself (%s) to this ongoing discussion. Keep it conversational and chat-like.", p.Label()),
	}
}

// BuildContext renders the input persona p receives given the transcript so
// far: its directive as the system preamble, the topic, every earlier
// successful utterance (its own as assistant turns, everyone else's as user
// turns) and a closing cue. Failed placeholders are left out. The result
// depends only on p and t.
func BuildContext(p persona.Persona, t *Transcript) backend.Request {
	msgs := []backend.Message{topicMessage(t.Topic())}
	for _, u := range t.Utterances() {
		if u.Failed() {
			continue
		}
		role := "user"
		if u.Persona == p.ID {
			role = "assistant"
		}
		msgs = append(msgs, backend.Message{
			Role:    role,
			Content: fmt.Sprintf("[%s] %s", u.Speaker, u.Text),
		})
	}
	msgs = append(msgs, respondCue(p))
	return backend.Request{
		System:      p.Directive,
		Messages:    msgs,
		Temperature: p.Temperature,
		MaxTokens:   MaxTokens,
	}
}
