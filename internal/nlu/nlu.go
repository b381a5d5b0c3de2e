// Package nlu classifies transcripts into intents with keyword rules and
// dispatches each intent to the handler that builds the spoken reply.
package nlu

import (
	"regexp"
	"strings"
)

// WakePhrase greets the assistant and opens a session.
const WakePhrase = "hi lull"

var (
	wakeRe = regexp.MustCompile(`(?i)^\s*(?:hi|hey|hello)[\s,]+lull\b[\s,.!?:;-]*`)
	stopRe = regexp.MustCompile(`\bstop\b`)

	translateWordRe = regexp.MustCompile(`\btranslate\b`)
	translateRe     = regexp.MustCompile(`(?is)\btranslate\b\s*(.*?)(?:\s+from\s+(\p{L}+))?\s+(?:to|into|in)\s+(\p{L}+)(?:\s+please)?[\s.!?]*$`)
	quotedRe        = regexp.MustCompile(`["“]([^"”]+)["”]`)

	screenQueryRe = regexp.MustCompile(`(?:do you see|can you see|is there|does it contain)\s+(?:(?:a|an|the)\s+)?(.+?)(?:\s+(?:on|in)\s+(?:my|the)\s+screen)?[\s.?!]*$`)
	objectRe      = regexp.MustCompile(`\b(?:holding|identify|hands?|objects?|camera|see what i have)\b`)

	nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}']+`)
)

var readScreenPhrases = []string{
	"what is on my screen",
	"what's on my screen",
	"whats on my screen",
	"what is on the screen",
	"what's on the screen",
	"what is on screen",
	"read my screen",
	"read the screen",
}

// Queries that ask for everything rather than a specific string.
var vagueQueries = map[string]bool{
	"anything":   true,
	"something":  true,
	"everything": true,
	"what":       true,
}

// Classify maps a transcript to exactly one intent. Rules are checked from
// most to least specific: stop, bare wake phrase, translate, screen, object.
func Classify(transcript string) Intent {
	text := strings.TrimSpace(transcript)
	lower := strings.ToLower(text)
	if lower == "" {
		return Intent{Kind: Unrecognized}
	}

	if stopRe.MatchString(lower) {
		return Intent{Kind: Stop}
	}

	woke := false
	if loc := wakeRe.FindStringIndex(text); loc != nil {
		woke = true
		text = strings.TrimSpace(text[loc[1]:])
		lower = strings.ToLower(text)
		if words(lower) == "" {
			return Intent{Kind: Greeting, Woke: true}
		}
	}

	in := classifyCommand(text, lower)
	in.Woke = woke
	return in
}

func classifyCommand(text, lower string) Intent {
	switch {
	case translateWordRe.MatchString(lower):
		return parseTranslate(text)
	case strings.Contains(lower, "screen"):
		return parseScreen(lower)
	case objectRe.MatchString(lower):
		return Intent{Kind: IdentifyObject}
	default:
		return Intent{Kind: Unrecognized}
	}
}

// parseTranslate works on the original casing so the sentence is kept as said.
func parseTranslate(text string) Intent {
	m := translateRe.FindStringSubmatchIndex(text)
	if m == nil {
		return Intent{Kind: Unrecognized, Hint: MissingLanguage}
	}

	sentence := text[m[2]:m[3]]
	source := english.Code
	if m[4] >= 0 {
		if code, ok := SourceCode(text[m[4]:m[5]]); ok {
			source = code
		} else {
			// "from school" is part of the sentence, not a language.
			sentence = text[m[2]:m[5]]
		}
	}

	name := strings.ToLower(text[m[6]:m[7]])
	code, ok := TargetCode(name)
	if !ok {
		return Intent{Kind: Unrecognized, Hint: UnsupportedLanguage, TargetName: name}
	}

	sentence = cleanSentence(sentence)
	if sentence == "" {
		return Intent{Kind: Unrecognized, Hint: MissingText, TargetName: name}
	}

	return Intent{
		Kind:       Translate,
		Text:       sentence,
		Source:     source,
		Target:     code,
		TargetName: name,
	}
}

func cleanSentence(s string) string {
	if q := quotedRe.FindStringSubmatch(s); q != nil {
		s = q[1]
	}
	return strings.Trim(s, " \t\r\n-:,\"“”")
}

func parseScreen(lower string) Intent {
	for _, p := range readScreenPhrases {
		if strings.Contains(lower, p) {
			return Intent{Kind: ReadScreen}
		}
	}

	if m := screenQueryRe.FindStringSubmatch(lower); m != nil {
		q := strings.Trim(m[1], " \t.,?!\"")
		if q != "" && !vagueQueries[q] && !strings.Contains(q, "screen") {
			return Intent{Kind: ScreenQuery, Query: q}
		}
	}

	return Intent{Kind: ReadScreen}
}

func words(s string) string {
	return strings.TrimSpace(nonWordRe.ReplaceAllString(s, " "))
}
