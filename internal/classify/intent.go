// Package classify maps free-text ticket instructions onto executable
// intents using an ordered, first-match-wins rule table.
package classify

// Kind identifies what a classified instruction asks the run to do.
type Kind string

const (
	// KindNavigate loads a URL
	KindNavigate Kind = "navigate"
	// KindClick activates a page element
	KindClick Kind = "click"
	// KindFill types a value into a form field
	KindFill Kind = "fill"
	// KindScreenshot captures the current page
	KindScreenshot Kind = "screenshot"
	// KindVerify checks that content is present on the page
	KindVerify Kind = "verify"
	// KindUnknown marks text no rule matched
	KindUnknown Kind = "unknown"
)

// Intent is the executable interpretation of one instruction line.
type Intent struct {
	// Kind is the action category
	Kind Kind
	// Target is the element or content description for click, fill and
	// verify intents. It is a human phrase, not a selector.
	Target string
	// URL is set for navigate intents
	URL string
	// Value is the text to type for fill intents
	Value string
	// Source is the original instruction text
	Source string
}

// IsActionable reports whether the intent maps to a tool call.
func (i Intent) IsActionable() bool {
	return i.Kind != KindUnknown
}
