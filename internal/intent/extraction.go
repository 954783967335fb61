package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedExtraction marks a model reply that is not the expected JSON.
// The classifier recovers from it by answering the prompt as chat.
var ErrMalformedExtraction = errors.New("malformed extraction reply")

const extractionInstructions = `You extract flight search requests from user messages.
Reply with a single JSON object and nothing else, in exactly one of these shapes:
{"action":"search_flight","from":"<origin airport code or city>","to":"<destination airport code or city>","date":"<YYYY-MM-DD>"}
{"action":"chat","message":"<the user's message>"}
Use "search_flight" only when the user wants to find or book a flight. Use null for "date" when no date is given.

User message: `

func extractionPrompt(prompt string) string {
	return extractionInstructions + prompt
}

type extraction struct {
	Action  Kind
	From    string
	To      string
	Date    *string
	Message string
}

type extractionReply struct {
	Action  *string `json:"action"`
	From    *string `json:"from"`
	To      *string `json:"to"`
	Date    *string `json:"date"`
	Message *string `json:"message"`
}

// parseExtraction decodes the first JSON object in raw. Any failure wraps
// ErrMalformedExtraction.
func parseExtraction(raw string) (extraction, error) {
	obj, ok := firstJSONObject(raw)
	if !ok {
		return extraction{}, fmt.Errorf("%w: no JSON object in reply", ErrMalformedExtraction)
	}

	var reply extractionReply
	if err := json.Unmarshal([]byte(obj), &reply); err != nil {
		return extraction{}, fmt.Errorf("%w: %v", ErrMalformedExtraction, err)
	}
	if reply.Action == nil {
		return extraction{}, fmt.Errorf("%w: missing action", ErrMalformedExtraction)
	}

	switch Kind(strings.TrimSpace(*reply.Action)) {
	case KindSearchFlight:
		out := extraction{
			Action: KindSearchFlight,
			From:   strings.TrimSpace(deref(reply.From)),
			To:     strings.TrimSpace(deref(reply.To)),
		}
		if d := strings.TrimSpace(deref(reply.Date)); d != "" {
			out.Date = &d
		}
		return out, nil
	case KindChat:
		return extraction{Action: KindChat, Message: deref(reply.Message)}, nil
	default:
		return extraction{}, fmt.Errorf("%w: unknown action %q", ErrMalformedExtraction, *reply.Action)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// firstJSONObject returns the first balanced {...} substring of s. Braces
// inside JSON strings, escaped quotes included, do not count.
func firstJSONObject(s string) (string, bool) {
	for start := strings.IndexByte(s, '{'); start >= 0; {
		if end, ok := matchBrace(s, start); ok {
			return s[start : end+1], true
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchBrace returns the index of the brace closing the one at start.
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
