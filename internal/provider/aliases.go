package provider

import (
	"sort"

	"github.com/iksnae/sitechat/internal"
)

// defaultAliases maps internal model ids to the provider's own model names.
// Gemini ids are passed through unchanged but still have to be listed.
var defaultAliases = map[Provider]map[string]string{
	Gemini: {
		"gemini-1.5-flash": "gemini-1.5-flash",
		"gemini-1.5-pro":   "gemini-1.5-pro",
		"gemini-2.0-flash": "gemini-2.0-flash",
	},
	Groq: {
		"groq-llama-3.1-70b": "llama-3.1-70b-versatile",
		"groq-llama-3.1-8b":  "llama-3.1-8b-instant",
		"groq-mixtral-8x7b":  "mixtral-8x7b-32768",
	},
	OpenAI: {
		"openai-gpt-4o":        "gpt-4o",
		"openai-gpt-4o-mini":   "gpt-4o-mini",
		"openai-gpt-3.5-turbo": "gpt-3.5-turbo",
	},
	Anthropic: {
		"claude-3.5-sonnet": "claude-3-5-sonnet-20241022",
		"claude-3-haiku":    "claude-3-haiku-20240307",
	},
}

// testModels are the cheapest models, used for connection tests
var testModels = map[Provider]string{
	Gemini:    "gemini-1.5-flash",
	Groq:      "groq-llama-3.1-8b",
	OpenAI:    "openai-gpt-3.5-turbo",
	Anthropic: "claude-3-haiku",
}

// aliasTable is a per-provider model id -> provider model name lookup
type aliasTable map[Provider]map[string]string

func newAliasTable(extra map[string]string) aliasTable {
	table := make(aliasTable, len(defaultAliases))
	for p, aliases := range defaultAliases {
		table[p] = make(map[string]string, len(aliases))
		for id, name := range aliases {
			table[p][id] = name
		}
	}
	for id, name := range extra {
		p, err := ForModel(id)
		if err != nil {
			internal.LogWarn("Ignoring alias %q: %v", id, err)
			continue
		}
		table[p][id] = name
	}
	return table
}

func (t aliasTable) lookup(p Provider, modelID string) (string, bool) {
	name, ok := t[p][modelID]
	return name, ok && name != ""
}

func (t aliasTable) models(p Provider) []string {
	ids := make([]string, 0, len(t[p]))
	for id := range t[p] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TestModel returns the model id used to test a provider's connection
func TestModel(p Provider) string {
	return testModels[p]
}
