// Package codeblock extracts fenced html, css, and javascript regions from
// assistant replies and keeps the current code buffers.
package codeblock

import (
	"fmt"
	"strings"
)

const fence = "```"

// Language is one of the three recognized code buffers
type Language int

const (
	HTML Language = iota
	CSS
	JavaScript
)

// Languages lists the recognized languages in buffer order
var Languages = []Language{HTML, CSS, JavaScript}

var languageTags = map[Language]string{
	HTML:       "html",
	CSS:        "css",
	JavaScript: "javascript",
}

var languageFiles = map[Language]string{
	HTML:       "index.html",
	CSS:        "style.css",
	JavaScript: "script.js",
}

// Tag returns the fence tag that selects this language
func (l Language) Tag() string {
	return languageTags[l]
}

// Filename returns the download filename for this language's buffer
func (l Language) Filename() string {
	return languageFiles[l]
}

func (l Language) String() string {
	if tag, ok := languageTags[l]; ok {
		return tag
	}
	return fmt.Sprintf("language(%d)", int(l))
}

// LanguageForTag maps an exact, case-sensitive fence tag to its language
func LanguageForTag(tag string) (Language, bool) {
	for l, t := range languageTags {
		if t == tag {
			return l, true
		}
	}
	return 0, false
}

// LanguageForFile maps a download filename back to its language
func LanguageForFile(name string) (Language, bool) {
	for l, f := range languageFiles {
		if f == name {
			return l, true
		}
	}
	return 0, false
}

// Block is one closed fenced region
type Block struct {
	Tag     string
	Content string
}

// Scan returns every closed fenced region in text, in order.
//
// An opener is a line whose text after its first ``` is a tag of word
// characters and nothing else. An untagged opener must start its line,
// after optional indentation. The block ends at the next
// ``` on a later line; text before it on that line belongs to the block.
// An opener without a closer is not a block.
func Scan(text string) []Block {
	lines := strings.Split(text, "\n")
	var blocks []Block

	for i := 0; i < len(lines); i++ {
		tag, ok := openerTag(lines[i])
		if !ok {
			continue
		}

		closed := false
		for j := i + 1; j < len(lines); j++ {
			idx := strings.Index(lines[j], fence)
			if idx < 0 {
				continue
			}
			body := append(append([]string{}, lines[i+1:j]...), lines[j][:idx])
			blocks = append(blocks, Block{Tag: tag, Content: strings.Join(body, "\n")})
			i = j
			closed = true
			break
		}
		if !closed {
			// nothing after an unclosed opener can close a later block either
			break
		}
	}
	return blocks
}

func openerTag(line string) (string, bool) {
	line = strings.TrimSuffix(line, "\r")
	idx := strings.Index(line, fence)
	if idx < 0 {
		return "", false
	}
	tag := line[idx+len(fence):]
	if tag == "" && strings.TrimSpace(line[:idx]) != "" {
		return "", false
	}
	for _, r := range tag {
		if !isWordRune(r) {
			return "", false
		}
	}
	return tag, true
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Partial holds the languages a single reply carried, trimmed
type Partial map[Language]string

// Languages returns the languages present in p, in buffer order
func (p Partial) Languages() []Language {
	var out []Language
	for _, l := range Languages {
		if _, ok := p[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Extract selects the first block per recognized language
func Extract(text string) Partial {
	p := Partial{}
	for _, b := range Scan(text) {
		lang, ok := LanguageForTag(b.Tag)
		if !ok {
			continue
		}
		if _, seen := p[lang]; seen {
			continue
		}
		p[lang] = strings.TrimSpace(b.Content)
	}
	return p
}

// DisplayBlock is a fenced region labelled for rendering
type DisplayBlock struct {
	Label   string
	Content string
}

// Blocks returns every fenced region of text for display; empty or
// unrecognized tags are labelled "text".
func Blocks(text string) []DisplayBlock {
	scanned := Scan(text)
	out := make([]DisplayBlock, 0, len(scanned))
	for _, b := range scanned {
		label := "text"
		if _, ok := LanguageForTag(b.Tag); ok {
			label = b.Tag
		}
		out = append(out, DisplayBlock{Label: label, Content: strings.TrimSpace(b.Content)})
	}
	return out
}
