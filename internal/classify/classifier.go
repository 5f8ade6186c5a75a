package classify

import (
	"strings"

	"testweaver/internal/ticket"
	"testweaver/pkg/logging"
)

// rule is one entry in the ordered classification table. The first rule
// whose match function returns true decides the intent.
type rule struct {
	name  string
	match func(lower string) bool
	build func(text, lower string) Intent
}

// rules is evaluated top to bottom. Order matters: an instruction like
// "click submit and take a screenshot" must classify as a screenshot
// because the capture is the observable outcome the ticket asks for.
var rules = []rule{
	{
		name:  "screenshot",
		match: func(lower string) bool { return strings.Contains(lower, "screenshot") },
		build: func(text, lower string) Intent {
			return Intent{Kind: KindScreenshot, Source: text}
		},
	},
	{
		name: "navigate",
		match: func(lower string) bool {
			return strings.Contains(lower, "navigate to") && ticket.ExtractURL(lower) != ""
		},
		build: func(text, lower string) Intent {
			return Intent{Kind: KindNavigate, URL: ticket.ExtractURL(text), Source: text}
		},
	},
	{
		name:  "click",
		match: func(lower string) bool { return strings.Contains(lower, "click") },
		build: func(text, lower string) Intent {
			return Intent{Kind: KindClick, Target: clickTarget(text, lower), Source: text}
		},
	},
	{
		name:  "verify",
		match: func(lower string) bool { return strings.Contains(lower, "check for") },
		build: func(text, lower string) Intent {
			return Intent{Kind: KindVerify, Target: verifyTarget(text, lower), Source: text}
		},
	},
}

// Classify maps one instruction line to an intent. Lines no rule matches
// come back as KindUnknown; classification itself never fails.
func Classify(text string) Intent {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.match(lower) {
			intent := r.build(text, lower)
			logging.Debug("Classify", "Rule %q matched instruction %q", r.name, text)
			return intent
		}
	}
	return Intent{Kind: KindUnknown, Source: text}
}

// ClassifyAll classifies every instruction in order.
func ClassifyAll(instructions []ticket.Instruction) []Intent {
	intents := make([]Intent, 0, len(instructions))
	for _, instruction := range instructions {
		intents = append(intents, Classify(instruction.Text))
	}
	return intents
}

// knownClickTargets maps phrases that appear in ticket prose to the page
// elements they conventionally mean.
var knownClickTargets = []struct {
	phrase string
	target string
}{
	{"sign in", "sign in button"},
	{"microsoft account", "microsoft account option"},
	{"login", "login button"},
	{"submit", "submit button"},
}

// elementWords are generic element nouns; a click line mentioning one is
// used verbatim as the target description.
var elementWords = []string{"button", "link", "tab", "menu"}

// clickTarget derives a target description from a click instruction.
func clickTarget(text, lower string) string {
	for _, known := range knownClickTargets {
		if strings.Contains(lower, known.phrase) {
			return known.target
		}
	}

	if idx := strings.Index(lower, "click on "); idx >= 0 {
		after := strings.TrimSpace(text[idx+len("click on "):])
		if after != "" {
			return after
		}
	}

	for _, word := range elementWords {
		if strings.Contains(lower, word) {
			return strings.TrimSpace(text)
		}
	}
	return strings.TrimSpace(text)
}

// verifyTarget extracts the content description from a "check for" line,
// dropping trailing connective phrases that introduce the next step.
func verifyTarget(text, lower string) string {
	target := text
	if idx := strings.Index(lower, "check for"); idx >= 0 {
		target = text[idx+len("check for"):]
	}
	target = strings.TrimSpace(target)

	lowerTarget := strings.ToLower(target)
	for _, suffix := range []string{" and then", " then"} {
		if strings.HasSuffix(lowerTarget, suffix) {
			target = strings.TrimSpace(target[:len(target)-len(suffix)])
			break
		}
	}
	return target
}
