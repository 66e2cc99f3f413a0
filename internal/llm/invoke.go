// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// jsonOnlyInstruction is appended to every prompt. The output contract is
// enforced twice: here in the prompt, and by parsing the response.
const jsonOnlyInstruction = `CRITICAL OUTPUT RULE:
- Return ONLY a single valid JSON object.
- No markdown, no code fences, no commentary.
- Ensure the JSON is strictly parseable.`

// ParseError is raised when a model response cannot be parsed as JSON.
// It carries the raw response text for diagnostics; the invocation layer
// never substitutes a default for unparsable output.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing model JSON output: %v (raw output: %.200s)", e.Err, e.Raw)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Invoker issues schema-constrained JSON calls against a Transport. Every
// call is first charged to the budget; an exhausted budget means the
// remote call is never issued. Usage is recorded on the ledger when one
// is attached.
type Invoker struct {
	Transport Transport
	Budget    *CallBudget
	Ledger    *types.UsageLedger
}

// InvokeJSON sends prompt plus the compact-JSON serialization of payload,
// demands a single JSON object in response, and unmarshals it into out.
// A response that cannot be parsed is a *ParseError; there are no silent
// defaults and no retries at this level.
func (inv *Invoker) InvokeJSON(ctx context.Context, prompt string, payload any, out any) error {
	if err := inv.Budget.Attempt(); err != nil {
		return err
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serializing payload: %w", err)
	}

	fullPrompt := strings.TrimSpace(prompt) + "\n\n" + jsonOnlyInstruction

	completion, err := inv.Transport.Complete(ctx, fullPrompt, string(payloadJSON))
	if err != nil {
		return fmt.Errorf("remote call: %w", err)
	}
	if inv.Ledger != nil {
		inv.Ledger.Add(completion.Usage)
	}

	raw := StripJSONFence(completion.Text)
	if strings.TrimSpace(raw) == "" {
		return &ParseError{Raw: completion.Text, Err: fmt.Errorf("empty response text")}
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		// Some models wrap the object in prose despite instructions;
		// accept the first {...} block before giving up.
		if block := firstJSONObject(raw); block != "" {
			if err2 := json.Unmarshal([]byte(block), out); err2 == nil {
				return nil
			}
		}
		return &ParseError{Raw: completion.Text, Err: err}
	}
	return nil
}

// fenceOpenRe matches an opening code fence with an optional language tag.
var fenceOpenRe = regexp.MustCompile("^```[a-zA-Z]*\\s*")

// StripJSONFence removes a ```json ... ``` wrapper if the model returned
// fenced code despite the output rule.
func StripJSONFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = fenceOpenRe.ReplaceAllString(t, "")
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// firstJSONObject returns the first balanced top-level {...} block in
// text, or "" when there is none. String contents are skipped so braces
// inside values do not confuse the balance count.
func firstJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
