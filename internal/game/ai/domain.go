// Package ai implements the Hierarchical Task Network (HTN) planner that
// chooses each combatant's action in an encounter.
//
// HTN planning decomposes abstract tasks into primitive operators via ordered
// methods. Method preconditions are evaluated as Lua hooks; operators map to
// encounter actions.
package ai

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// RootTask is the task every plan starts from.
const RootTask = "behave"

// Encounter actions an operator may name.
const (
	// ActionAttack makes one melee action against the target.
	ActionAttack = "attack"
	// ActionAdvance steps one cell toward the target.
	ActionAdvance = "advance"
	// ActionWait spends a turn doing nothing.
	ActionWait = "wait"
)

var validActions = map[string]bool{ActionAttack: true, ActionAdvance: true, ActionWait: true}

// Task is an abstract goal that can be decomposed by methods.
//
// Precondition: ID must be non-empty.
type Task struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

// Method decomposes a task into an ordered list of subtasks or operator IDs.
//
// Precondition: TaskID, ID, and Subtasks must be non-empty.
// Precondition: Precondition is a Lua function name; empty means always applicable.
type Method struct {
	TaskID       string   `yaml:"task"`
	ID           string   `yaml:"id"`
	Precondition string   `yaml:"precondition"`
	Subtasks     []string `yaml:"subtasks"`
}

// Operator is a primitive encounter action.
//
// Precondition: ID must be non-empty and Action one of the Action constants.
type Operator struct {
	ID     string `yaml:"id"`
	Action string `yaml:"action"`
	// Target is a token resolved by WorldState.ResolveTarget.
	Target string `yaml:"target"`
}

// Domain holds one tactics domain loaded from a YAML file.
//
// Invariant: all Task, Method, and Operator IDs are unique within their slice.
type Domain struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Tasks       []*Task     `yaml:"tasks"`
	Methods     []*Method   `yaml:"methods"`
	Operators   []*Operator `yaml:"operators"`
}

// Validate checks all required fields and cross-field constraints.
//
// Postcondition: nil return guarantees a non-empty ID, a root task, unique
// IDs in every slice, known operator actions and resolvable subtasks.
func (d *Domain) Validate() error {
	if d.ID == "" {
		return errors.New("ai.Domain: ID must not be empty")
	}
	var errs []error
	taskIDs, err := uniqueIDs("task", len(d.Tasks), func(i int) string { return d.Tasks[i].ID })
	if err != nil {
		errs = append(errs, err)
	}
	if _, ok := taskIDs[RootTask]; !ok {
		errs = append(errs, fmt.Errorf("missing root task %q", RootTask))
	}
	if _, err := uniqueIDs("method", len(d.Methods), func(i int) string { return d.Methods[i].ID }); err != nil {
		errs = append(errs, err)
	}
	operatorIDs, err := uniqueIDs("operator", len(d.Operators), func(i int) string { return d.Operators[i].ID })
	if err != nil {
		errs = append(errs, err)
	}
	for _, op := range d.Operators {
		if !validActions[op.Action] {
			errs = append(errs, fmt.Errorf("operator %q: unknown action %q", op.ID, op.Action))
		}
	}
	for _, m := range d.Methods {
		if _, ok := taskIDs[m.TaskID]; !ok {
			errs = append(errs, fmt.Errorf("method %q: task %q is not declared", m.ID, m.TaskID))
		}
		if len(m.Subtasks) == 0 {
			errs = append(errs, fmt.Errorf("method %q: subtasks must not be empty", m.ID))
		}
		for _, sub := range m.Subtasks {
			_, isTask := taskIDs[sub]
			_, isOp := operatorIDs[sub]
			if !isTask && !isOp {
				errs = append(errs, fmt.Errorf("method %q: subtask %q is neither a task nor an operator", m.ID, sub))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("ai.Domain %q: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

func uniqueIDs(kind string, n int, id func(int) string) (map[string]struct{}, error) {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		v := id(i)
		if v == "" {
			return seen, fmt.Errorf("%s %d has an empty ID", kind, i)
		}
		if _, dup := seen[v]; dup {
			return seen, fmt.Errorf("duplicate %s ID %q", kind, v)
		}
		seen[v] = struct{}{}
	}
	return seen, nil
}

// OperatorByID returns the operator with the given ID, or false if not found.
func (d *Domain) OperatorByID(id string) (*Operator, bool) {
	for _, op := range d.Operators {
		if op.ID == id {
			return op, true
		}
	}
	return nil, false
}

// MethodsForTask returns all methods that decompose taskID, in declaration order.
func (d *Domain) MethodsForTask(taskID string) []*Method {
	var out []*Method
	for _, m := range d.Methods {
		if m.TaskID == taskID {
			out = append(out, m)
		}
	}
	return out
}

// Preconditions returns the distinct Lua hooks the domain's methods name.
func (d *Domain) Preconditions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range d.Methods {
		if m.Precondition != "" && !seen[m.Precondition] {
			seen[m.Precondition] = true
			out = append(out, m.Precondition)
		}
	}
	return out
}

// yamlDomainFile wraps the YAML top-level key.
type yamlDomainFile struct {
	Domain *Domain `yaml:"domain"`
}

// LoadDomains reads all *.yaml files from dir and returns parsed Domains,
// ordered by file name.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns error if any YAML file fails to parse or validate,
// or if two files declare the same domain ID.
func LoadDomains(dir string) ([]*Domain, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai.LoadDomains: reading %q: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var domains []*Domain
	seen := make(map[string]string)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: reading %s: %w", name, err)
		}
		var f yamlDomainFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: parsing %s: %w", name, err)
		}
		if f.Domain == nil {
			return nil, fmt.Errorf("ai.LoadDomains: %s missing top-level 'domain' key", name)
		}
		if err := f.Domain.Validate(); err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: %s: %w", name, err)
		}
		if prev, dup := seen[f.Domain.ID]; dup {
			return nil, fmt.Errorf("ai.LoadDomains: domain %q declared in both %s and %s", f.Domain.ID, prev, name)
		}
		seen[f.Domain.ID] = name
		domains = append(domains, f.Domain)
	}
	return domains, nil
}
