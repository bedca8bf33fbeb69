// Package interpret turns free-text model answers into presentation data: the
// structured widget data embedded as fenced JSON, and the remaining prose as
// sanitized HTML with marketplace links.
package interpret

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/vbonduro/glowreader/internal/domain"
)

// maxBlocks bounds how many fenced json blocks are considered; answers carry
// at most one for concerns and one for the routine.
const maxBlocks = 2

// View is the rendering layer that owns the widgets. Implementations keep
// their own state; the interpreter only hands data over.
type View interface {
	ShowConcerns(concerns []domain.Concern)
	ShowRoutine(steps []domain.RoutineStep)
	ShowProse(markdown, html string)
}

// Result is the fully resolved interpretation of one answer.
type Result struct {
	Concerns    []domain.Concern     `json:"concerns,omitempty"`
	Routine     []domain.RoutineStep `json:"routine,omitempty"`
	Prose       string               `json:"prose"`
	HTML        string               `json:"html"`
	ParseErrors []string             `json:"parseErrors,omitempty"`
}

type Interpreter struct {
	shop   Shop
	md     goldmark.Markdown
	policy *bluemonday.Policy
	logger *slog.Logger
}

func New(shop Shop, logger *slog.Logger) *Interpreter {
	policy := bluemonday.UGCPolicy()
	policy.AllowNoAttrs().OnElements(productTag)

	return &Interpreter{
		shop: shop,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// Raw HTML must survive so <product> markers reach the sanitizer.
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
		policy: policy,
		logger: logger,
	}
}

// Shop exposes the link builder so other renderers produce identical URLs.
func (i *Interpreter) Shop() Shop {
	return i.shop
}

// Interpret runs the full pipeline over raw. It never fails: shape problems
// degrade to prose-only output and are reported in Result.ParseErrors.
func (i *Interpreter) Interpret(raw string) Result {
	var res Result

	var consumed []Block
	for _, b := range ExtractJSONBlocks(raw, maxBlocks) {
		recognized, err := res.absorb(b.Body)
		if err != nil {
			i.logger.Warn("failed to parse embedded json block", "offset", b.Start, "error", err)
			res.ParseErrors = append(res.ParseErrors, err.Error())
			continue
		}
		if recognized {
			consumed = append(consumed, b)
		}
	}

	if len(consumed) == 0 {
		res.Prose = raw
	} else {
		res.Prose = strings.TrimSpace(removeBlocks(raw, consumed))
	}

	html, err := i.renderHTML(res.Prose)
	if err != nil {
		i.logger.Error("failed to render prose", "error", err)
		html = i.policy.Sanitize(res.Prose)
	}
	res.HTML = html
	return res
}

// Render interprets raw and feeds the view. Widgets are only invoked for data
// that was actually recognized; prose is always shown.
func (i *Interpreter) Render(raw string, view View) Result {
	res := i.Interpret(raw)
	if len(res.Concerns) > 0 {
		view.ShowConcerns(res.Concerns)
	}
	if len(res.Routine) > 0 {
		view.ShowRoutine(res.Routine)
	}
	view.ShowProse(res.Prose, res.HTML)
	return res
}

// absorb decodes one block body. It reports whether the block carried a
// recognized key. Keys already filled by an earlier block are left alone.
func (r *Result) absorb(body string) (bool, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return false, fmt.Errorf("invalid json block: %w", err)
	}

	var (
		concerns []domain.Concern
		steps    []domain.RoutineStep
	)
	rawConcerns, hasConcerns := obj["concerns"]
	hasConcerns = hasConcerns && r.Concerns == nil
	if hasConcerns {
		if err := json.Unmarshal(rawConcerns, &concerns); err != nil {
			return false, fmt.Errorf("invalid concerns: %w", err)
		}
	}
	rawRoutine, hasRoutine := obj["routine"]
	hasRoutine = hasRoutine && r.Routine == nil
	if hasRoutine {
		if err := json.Unmarshal(rawRoutine, &steps); err != nil {
			return false, fmt.Errorf("invalid routine: %w", err)
		}
	}

	if hasConcerns {
		r.Concerns = nonNil(concerns)
	}
	if hasRoutine {
		r.Routine = nonNil(steps)
	}
	return hasConcerns || hasRoutine, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (i *Interpreter) renderHTML(prose string) (string, error) {
	var buf bytes.Buffer
	if err := i.md.Convert([]byte(prose), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	safe := i.policy.SanitizeBytes(buf.Bytes())
	return i.shop.HTMLLinks(string(safe))
}
