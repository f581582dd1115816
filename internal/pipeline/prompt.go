// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/deepsearch/pkg/types"
)

// basicPromptTmpl asks for a short summary plus exactly three bullet
// insights over the layer-1 sources. The response template is advisory:
// the pipeline stores whatever text comes back without parsing it.
var basicPromptTmpl = template.Must(template.New("basic").Parse(`Research query: {{.Query}}

Sources:
{{range .Sources}}{{.Number}}. {{.Title}}: {{.Excerpt}}...

{{end}}
Based on these sources, provide:
1. A comprehensive summary (2-3 sentences)
2. Three key insights as bullet points

Format your response exactly like this:
SUMMARY: [your summary here]

INSIGHTS:
- [insight 1]
- [insight 2]
- [insight 3]`))

// followUpPromptTmpl asks the model for a single search query that would
// deepen the research, with no explanation around it.
var followUpPromptTmpl = template.Must(template.New("followup").Parse(`Research query: {{.Query}}

Sources:
{{range .Sources}}{{.Number}}. {{.Title}}: {{.Excerpt}}...

{{end}}
Based on these sources, what's the most important follow-up question that would deepen our understanding of "{{.Query}}"?

Respond with just a specific search query (no explanation):`))

// finalPromptTmpl asks for the two-layer synthesis: a longer summary, four
// bullet insights, and one sentence on what the follow-up search added.
var finalPromptTmpl = template.Must(template.New("final").Parse(`Research query: {{.Query}}
Follow-up: {{.FollowUp}}

All Sources:
{{range .Sources}}{{.Number}}. {{.Title}}: {{.Excerpt}}...

{{end}}
Provide a comprehensive analysis:

SUMMARY: [3-4 sentences covering key findings from both research layers]

INSIGHTS:
- [insight 1]
- [insight 2]
- [insight 3]
- [insight 4]

DEPTH GAINED: [1 sentence on how the follow-up search enhanced understanding]`))

// promptSource is one numbered source entry rendered into a prompt.
type promptSource struct {
	Number  int
	Title   string
	Excerpt string
}

// promptData feeds the prompt templates.
type promptData struct {
	Query    string
	FollowUp string
	Sources  []promptSource
}

// promptSources converts up to max sources into numbered prompt entries
// with excerpts truncated to chars characters.
func promptSources(sources []types.Source, max, chars int) []promptSource {
	if len(sources) > max {
		sources = sources[:max]
	}
	entries := make([]promptSource, len(sources))
	for i, s := range sources {
		entries[i] = promptSource{
			Number:  i + 1,
			Title:   s.Title,
			Excerpt: excerpt(s.Content, chars),
		}
	}
	return entries
}

// excerpt returns the first n characters of s.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func renderBasicPrompt(query string, sources []types.Source) (string, error) {
	return render(basicPromptTmpl, promptData{
		Query:   query,
		Sources: promptSources(sources, basicContextSources, basicContextChars),
	})
}

func renderFollowUpPrompt(query string, sources []types.Source) (string, error) {
	return render(followUpPromptTmpl, promptData{
		Query:   query,
		Sources: promptSources(sources, deepContextSources, deepContextChars),
	})
}

func renderFinalPrompt(query, followUp string, sources []types.Source) (string, error) {
	return render(finalPromptTmpl, promptData{
		Query:    query,
		FollowUp: followUp,
		Sources:  promptSources(sources, finalContextSources, deepContextChars),
	})
}

func render(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
