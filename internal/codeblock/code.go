package codeblock

import "fmt"

// Policy decides what happens to buffers a reply does not carry
type Policy int

const (
	// CarryOver keeps the previous value of every buffer the reply lacks
	CarryOver Policy = iota
	// Reset clears the buffers a reply lacks, provided it carried at least one
	Reset
)

func (p Policy) String() string {
	switch p {
	case Reset:
		return "reset"
	default:
		return "carry-over"
	}
}

// ParsePolicy parses "carry-over" or "reset"; empty selects CarryOver
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "carry-over":
		return CarryOver, nil
	case "reset":
		return Reset, nil
	}
	return CarryOver, fmt.Errorf("unknown code policy %q (want carry-over or reset)", s)
}

// Code is the current set of extracted buffers
type Code struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// Get returns the buffer for lang
func (c Code) Get(lang Language) string {
	switch lang {
	case HTML:
		return c.HTML
	case CSS:
		return c.CSS
	case JavaScript:
		return c.JS
	}
	return ""
}

func (c *Code) set(lang Language, value string) {
	switch lang {
	case HTML:
		c.HTML = value
	case CSS:
		c.CSS = value
	case JavaScript:
		c.JS = value
	}
}

// IsEmpty reports whether all three buffers are empty
func (c Code) IsEmpty() bool {
	return c.HTML == "" && c.CSS == "" && c.JS == ""
}

// Apply merges a reply's partial extraction into c under policy
func (c Code) Apply(p Partial, policy Policy) Code {
	if len(p) == 0 {
		return c
	}
	next := c
	if policy == Reset {
		next = Code{}
	}
	for lang, value := range p {
		next.set(lang, value)
	}
	return next
}
