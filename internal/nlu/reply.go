package nlu

import (
	"fmt"
	"strings"

	"lull/internal/translate"
	"lull/pkg/util"
)

const (
	GreetingReply        = "Hi Amita , How may I help you?"
	FarewellReply        = "Goodbye Amita."
	NothingOnScreenReply = "I could not read any text on the screen."
	NothingInViewReply   = "I don't see anything recognizable."
	TranslationDownReply = "Sorry, translation is currently unavailable."
)

const (
	summaryLines = 6
	summaryChars = 600
)

// ScreenReply answers ReadScreen and ScreenQuery from already captured OCR text.
func ScreenReply(in Intent, ocrText string) string {
	ocrText = strings.TrimSpace(ocrText)
	if ocrText == "" {
		return NothingOnScreenReply
	}

	if in.Kind != ScreenQuery || in.Query == "" {
		return summarize(ocrText)
	}

	query := strings.ToLower(in.Query)
	for _, line := range strings.Split(ocrText, "\n") {
		if strings.Contains(strings.ToLower(line), query) {
			return fmt.Sprintf("Yes, I can see %s on the screen: %s", in.Query, strings.TrimSpace(line))
		}
	}
	// The match may span a line break in the OCR output.
	if strings.Contains(strings.ToLower(strings.Join(strings.Fields(ocrText), " ")), query) {
		return fmt.Sprintf("Yes, I can see %s on the screen.", in.Query)
	}

	return fmt.Sprintf("No, I do not see %s on the screen.", in.Query)
}

// ScreenQuestion phrases a screen query as the question it was asked as.
func ScreenQuestion(query string) string {
	return fmt.Sprintf("Is %s on the screen?", query)
}

func summarize(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > summaryLines {
		lines = lines[:summaryLines]
	}
	snippet := util.Truncate(strings.Join(lines, "\n"), summaryChars)
	return "Here is what I can read from the screen:\n" + snippet
}

// ObjectReply names the detected labels, most confident first.
func ObjectReply(labels []string) string {
	labels = util.DedupeFold(labels)
	if len(labels) == 0 {
		return NothingInViewReply
	}
	return fmt.Sprintf("I see: %s.", strings.Join(labels, ", "))
}

// TranslateReply speaks the translated text or apologizes.
func TranslateReply(res translate.Result) string {
	if !res.OK() {
		return TranslationDownReply
	}
	return res.Text
}

// ClarifyReply asks the user to rephrase, using the hint when there is one.
func ClarifyReply(in Intent) string {
	switch in.Hint {
	case MissingText:
		return "Please provide a sentence to translate."
	case MissingLanguage:
		return fmt.Sprintf("Please specify a target language: %s.", TargetNames("or"))
	case UnsupportedLanguage:
		return fmt.Sprintf("I can't translate to %s yet. I can translate to %s.", in.TargetName, TargetNames("or"))
	default:
		return fmt.Sprintf("I can help with screen reading, object detection, or translations to %s.", TargetNames("and"))
	}
}
