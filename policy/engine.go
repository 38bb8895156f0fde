// Package policy evaluates the messaging authorization policy with OPA.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/rego"
)

// Decision is the outcome of evaluating the policy for one message.
type Decision struct {
	Allow  bool
	Reason string
}

// Party is the policy view of one side of a message.
type Party struct {
	Role     string `json:"role"`
	OrgScope string `json:"org_scope"`
}

// Input is the document the policy is evaluated against.
type Input struct {
	Sender   Party `json:"sender"`
	Receiver Party `json:"receiver"`
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.messaging.decision"),
		rego.Module("messaging.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// LoadEngine reads the policy from path, falling back to DefaultPolicy when
// path is empty.
func LoadEngine(ctx context.Context, path string) (*Engine, error) {
	if path == "" {
		return NewEngine(ctx, DefaultPolicy)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy %s: %w", path, err)
	}
	return NewEngine(ctx, string(content))
}

// Evaluate checks whether a message between the two parties is permitted.
// A policy that produces no decision denies.
func (e *Engine) Evaluate(ctx context.Context, input Input) (Decision, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return Decision{}, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return Decision{Allow: false, Reason: "no decision"}, nil
	}

	obj, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Decision{Allow: false, Reason: "unexpected decision type"}, nil
	}
	allow, _ := obj["allow"].(bool)
	reason, _ := obj["reason"].(string)
	return Decision{Allow: allow, Reason: reason}, nil
}

// DefaultPolicy permits student<->counselor messaging. When both parties
// carry an organization scope, the scopes must match.
const DefaultPolicy = `
package messaging

default decision = {"allow": false, "reason": "role pairing not permitted"}

permitted_pairs := {
	["student", "counselor"],
	["counselor", "student"],
}

pair_permitted {
	permitted_pairs[[input.sender.role, input.receiver.role]]
}

same_org {
	input.sender.org_scope == input.receiver.org_scope
}

same_org {
	input.sender.org_scope == ""
}

same_org {
	input.receiver.org_scope == ""
}

decision = {"allow": true, "reason": "permitted pairing"} {
	pair_permitted
	same_org
}

decision = {"allow": false, "reason": "participants belong to different organizations"} {
	pair_permitted
	not same_org
}
`
