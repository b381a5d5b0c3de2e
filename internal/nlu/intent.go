package nlu

import "strings"

type Kind int

const (
	Unrecognized Kind = iota
	Greeting
	ReadScreen
	ScreenQuery
	IdentifyObject
	Translate
	Stop
)

var kindNames = map[Kind]string{
	Unrecognized:   "unrecognized",
	Greeting:       "greeting",
	ReadScreen:     "read_screen",
	ScreenQuery:    "screen_query",
	IdentifyObject: "identify_object",
	Translate:      "translate",
	Stop:           "stop",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Hint tells the clarification reply why an utterance was not understood.
type Hint int

const (
	NoHint Hint = iota
	MissingText
	MissingLanguage
	UnsupportedLanguage
)

// Intent is the classified meaning of one utterance.
type Intent struct {
	Kind Kind

	// Translate
	Text       string
	Source     string
	Target     string
	TargetName string // target as spoken, e.g. "hindi"

	// ScreenQuery
	Query string

	// Woke is set when the utterance opened with the wake phrase.
	Woke bool
	Hint Hint
}

type language struct {
	Name string
	Code string
}

// Targets in the order they are offered to the user.
var targets = []language{
	{"Hindi", "hi"},
	{"Marathi", "mr"},
	{"French", "fr"},
}

var english = language{"English", "en"}

// TargetCode resolves a spoken target language name to its code.
func TargetCode(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, l := range targets {
		if strings.ToLower(l.Name) == name {
			return l.Code, true
		}
	}
	return "", false
}

// SourceCode accepts every target language plus English.
func SourceCode(name string) (string, bool) {
	if code, ok := TargetCode(name); ok {
		return code, true
	}
	if strings.EqualFold(strings.TrimSpace(name), english.Name) {
		return english.Code, true
	}
	return "", false
}

// TargetNames lists the supported targets for replies, e.g. "Hindi, Marathi, or French".
func TargetNames(conj string) string {
	names := make([]string, len(targets))
	for i, l := range targets {
		names[i] = l.Name
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", " + conj + " " + names[len(names)-1]
}
