package interpret

import (
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/glowreader/internal/domain"
)

// recordingView captures what the interpreter hands to each widget.
type recordingView struct {
	concernCalls int
	routineCalls int
	concerns     []domain.Concern
	routine      []domain.RoutineStep
	markdown     string
	html         string
}

func (v *recordingView) ShowConcerns(c []domain.Concern) {
	v.concernCalls++
	v.concerns = c
}

func (v *recordingView) ShowRoutine(s []domain.RoutineStep) {
	v.routineCalls++
	v.routine = s
}

func (v *recordingView) ShowProse(markdown, html string) {
	v.markdown = markdown
	v.html = html
}

func newTestInterpreter() *Interpreter {
	return New(Shop{BaseURL: "https://www.amazon.com/s", AffiliateTag: "glow-20"}, slog.Default())
}

func TestInterpretSampleResponse(t *testing.T) {
	raw := "```json\n{\"concerns\":[{\"name\":\"Oiliness\",\"percentage\":70}]}\n```\n# Analysis\nSample text"

	view := &recordingView{}
	res := newTestInterpreter().Render(raw, view)

	assert.Equal(t, []domain.Concern{{Name: "Oiliness", Percentage: 70}}, res.Concerns)
	assert.Equal(t, "# Analysis\nSample text", res.Prose)
	assert.Empty(t, res.ParseErrors)

	assert.Equal(t, 1, view.concernCalls)
	assert.Equal(t, res.Concerns, view.concerns)
	assert.Equal(t, 0, view.routineCalls)
	assert.Equal(t, "# Analysis\nSample text", view.markdown)
	assert.Contains(t, view.html, "<h1>Analysis</h1>")
	assert.Contains(t, view.html, "<p>Sample text</p>")
	assert.NotContains(t, view.html, "concerns")
}

func TestInterpretNoBlock(t *testing.T) {
	raw := "  # Just prose\n\nNo data here.\n"

	view := &recordingView{}
	res := newTestInterpreter().Render(raw, view)

	assert.Nil(t, res.Concerns)
	assert.Nil(t, res.Routine)
	assert.Equal(t, raw, res.Prose)
	assert.Equal(t, 0, view.concernCalls)
	assert.Equal(t, 0, view.routineCalls)
	assert.Contains(t, view.html, "<h1>Just prose</h1>")
}

func TestInterpretMalformedBlock(t *testing.T) {
	raw := "```json\n{\"concerns\": [{\"name\": \"Oiliness\", \"percentage\": 70}\n```\n# Analysis"

	view := &recordingView{}
	var res Result
	require.NotPanics(t, func() { res = newTestInterpreter().Render(raw, view) })

	assert.Equal(t, raw, res.Prose)
	assert.Len(t, res.ParseErrors, 1)
	assert.Equal(t, 0, view.concernCalls)
}

func TestInterpretWrongShape(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantErrors int
	}{
		{
			name:       "concerns is not a list",
			raw:        "```json\n{\"concerns\": \"lots\"}\n```\nText",
			wantErrors: 1,
		},
		{
			name:       "percentage is not numeric",
			raw:        "```json\n{\"concerns\": [{\"name\": \"Redness\", \"percentage\": \"high\"}]}\n```\nText",
			wantErrors: 1,
		},
		{
			name:       "unrecognized key",
			raw:        "```json\n{\"mood\": \"sunny\"}\n```\nText",
			wantErrors: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := &recordingView{}
			res := newTestInterpreter().Render(tt.raw, view)

			assert.Equal(t, tt.raw, res.Prose)
			assert.Len(t, res.ParseErrors, tt.wantErrors)
			assert.Equal(t, 0, view.concernCalls)
		})
	}
}

func TestInterpretRoutine(t *testing.T) {
	raw := "Intro\n```json\n{\"routine\":[{\"time\":\"5 min\",\"step_name\":\"Prep\",\"advice\":\"Moisturize\",\"product_recommendation\":\"Gel cream\"}]}\n```\n\n## Steps\nGo glam."

	view := &recordingView{}
	res := newTestInterpreter().Render(raw, view)

	want := []domain.RoutineStep{{Time: "5 min", StepName: "Prep", Advice: "Moisturize", ProductRecommendation: "Gel cream"}}
	if diff := cmp.Diff(want, res.Routine); diff != "" {
		t.Errorf("routine mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Intro\n\n\n## Steps\nGo glam.", res.Prose)
	assert.Equal(t, 1, view.routineCalls)
	assert.Equal(t, 0, view.concernCalls)
}

func TestInterpretTwoBlocks(t *testing.T) {
	raw := "```json\n{\"concerns\":[{\"name\":\"Pores\",\"percentage\":60}]}\n```\n" +
		"# Look\n" +
		"```json\n{\"routine\":[{\"time\":\"2 min\",\"step_name\":\"Lips\"}]}\n```\n" +
		"Done."

	view := &recordingView{}
	res := newTestInterpreter().Render(raw, view)

	assert.Equal(t, []domain.Concern{{Name: "Pores", Percentage: 60}}, res.Concerns)
	assert.Equal(t, []domain.RoutineStep{{Time: "2 min", StepName: "Lips"}}, res.Routine)
	assert.Equal(t, "# Look\n\nDone.", res.Prose)
	assert.Equal(t, 1, view.concernCalls)
	assert.Equal(t, 1, view.routineCalls)
}

func TestInterpretMalformedSecondBlockKeepsFirst(t *testing.T) {
	raw := "```json\n{\"concerns\":[{\"name\":\"Pores\",\"percentage\":60}]}\n```\n" +
		"# Look\n" +
		"```json\n{oops}\n```"

	res := newTestInterpreter().Interpret(raw)

	assert.Equal(t, []domain.Concern{{Name: "Pores", Percentage: 60}}, res.Concerns)
	assert.Equal(t, "# Look\n```json\n{oops}\n```", res.Prose)
	assert.Len(t, res.ParseErrors, 1)
}

func TestInterpretPassesPercentagesThrough(t *testing.T) {
	raw := "```json\n{\"concerns\":[{\"name\":\"Glow\",\"percentage\":140},{\"name\":\"Dryness\",\"percentage\":-5}]}\n```\nok"

	res := newTestInterpreter().Interpret(raw)

	assert.Equal(t, []domain.Concern{{Name: "Glow", Percentage: 140}, {Name: "Dryness", Percentage: -5}}, res.Concerns)
}

func TestInterpretProductLinks(t *testing.T) {
	raw := "## Picks\nTry <product>Glow Serum</product> tonight."

	res := newTestInterpreter().Interpret(raw)

	assert.Contains(t, res.HTML, `href="https://www.amazon.com/s?k=Glow+Serum&amp;tag=glow-20"`)
	assert.Contains(t, res.HTML, `class="product-link"`)
	assert.Contains(t, res.HTML, `target="_blank"`)
	assert.Contains(t, res.HTML, "Shop for &#34;Glow Serum&#34;")
	assert.NotContains(t, res.HTML, "<product>")
	assert.Equal(t, raw, res.Prose)
}

func TestInterpretSanitizesScripts(t *testing.T) {
	raw := "Hello <script>alert(1)</script><img src=x onerror=alert(1)>"

	res := newTestInterpreter().Interpret(raw)

	assert.NotContains(t, res.HTML, "<script")
	assert.NotContains(t, res.HTML, "onerror")
}

func TestInterpretIsDeterministic(t *testing.T) {
	raw := "```json\n{\"concerns\":[{\"name\":\"Redness\",\"percentage\":30}]}\n```\n# Hi\n<product>Calming toner</product>"
	interp := newTestInterpreter()

	first := interp.Interpret(raw)
	second := interp.Interpret(raw)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("interpretation changed between runs (-first +second):\n%s", diff)
	}
}

func TestInterpretFractionalPercentages(t *testing.T) {
	tests := []struct {
		name string
		json string
		want []domain.Concern
	}{
		{
			name: "mixed integer and fractional",
			json: `{"concerns":[{"name":"Oiliness","percentage":70},{"name":"Hydration","percentage":45.5}]}`,
			want: []domain.Concern{{Name: "Oiliness", Percentage: 70}, {Name: "Hydration", Percentage: 46}},
		},
		{
			name: "rounds down",
			json: `{"concerns":[{"name":"Pores","percentage":12.2}]}`,
			want: []domain.Concern{{Name: "Pores", Percentage: 12}},
		},
		{
			name: "fractional out of range kept",
			json: `{"concerns":[{"name":"Glow","percentage":101.7}]}`,
			want: []domain.Concern{{Name: "Glow", Percentage: 102}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := "```json\n" + tt.json + "\n```\n# Analysis"
			view := &recordingView{}

			res := newTestInterpreter().Render(raw, view)

			assert.Equal(t, tt.want, res.Concerns)
			assert.Empty(t, res.ParseErrors)
			assert.Equal(t, "# Analysis", res.Prose)
			assert.Equal(t, 1, view.concernCalls)
		})
	}
}

func TestInterpretProductLinkSurvivesSanitizer(t *testing.T) {
	raw := `Finish with <product>Glow "Max" Serum</product>.`

	res := newTestInterpreter().Interpret(raw)

	assert.Contains(t, res.HTML, `<a href="https://www.amazon.com/s?k=Glow+%22Max%22+Serum&amp;tag=glow-20" class="product-link" target="_blank" rel="noopener noreferrer">`)
	assert.Contains(t, res.HTML, "Shop for &#34;Glow &#34;Max&#34; Serum&#34;</a>")
	assert.NotContains(t, res.HTML, "<product>")
}
