package actions

import (
	"regexp"
	"strings"
	"time"

	"scribe/internal/sandbox"
)

// Trailing operator characters are dropped before evaluation so a query
// the user is still typing ("2+2+") evaluates as far as it goes.
var cleanRegex = regexp.MustCompile(`[+\-*/%&|^]+\s*$`)

const (
	// textBudget bounds evaluation of selected text.
	textBudget = 10 * time.Second

	// queryBudget bounds evaluation of an interactive query, which has to
	// feel instant.
	queryBudget = 1 * time.Second
)

// MathProvider supplies expression-evaluation actions backed by the
// sandbox. Evaluation blocks the caller up to the action's time budget.
type MathProvider struct {
	sandbox *sandbox.Sandbox
}

// NewMathProvider creates the math action provider.
func NewMathProvider(sb *sandbox.Sandbox) *MathProvider {
	return &MathProvider{sandbox: sb}
}

// Register registers the math evaluation actions.
func (p *MathProvider) Register(r *Registry) {
	r.Register("math:evaluate_text", ImmediateFunc(p.evaluateText))
	r.Register("math:evaluate_query", ImmediateFunc(p.evaluateQuery))
}

// evaluateText evaluates the selected text as an expression.
func (p *MathProvider) evaluateText(_, text string) (string, error) {
	return p.sandbox.Evaluate(cleanExpression(text), textBudget)
}

// evaluateQuery evaluates the user query as an expression.
func (p *MathProvider) evaluateQuery(query, _ string) (string, error) {
	return p.sandbox.Evaluate(cleanExpression(query), queryBudget)
}

func cleanExpression(text string) string {
	return strings.TrimSpace(cleanRegex.ReplaceAllString(text, ""))
}
