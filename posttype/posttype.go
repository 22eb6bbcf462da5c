// Package posttype keeps the registry of content types and the rewrite rules
// derived from them.
package posttype

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Features a type can support in the admin editor.
const (
	SupportTitle     = "title"
	SupportEditor    = "editor"
	SupportExcerpt   = "excerpt"
	SupportThumbnail = "thumbnail"
)

// Labels are the human-readable names shown in the admin.
type Labels struct {
	Name         string
	SingularName string
	AddNew       string
}

// Type describes a content type.
type Type struct {
	Name           string
	Labels         Labels
	Public         bool
	ShowInREST     bool
	RESTBase       string // defaults to Name
	CapabilityType string // defaults to "post"
	HasArchive     string // archive slug, "" for none
	MenuIcon       string
	Supports       []string
	RewriteSlug    string // defaults to Name
}

// SupportsFeature reports whether the type enables feature.
func (t Type) SupportsFeature(feature string) bool {
	for _, s := range t.Supports {
		if s == feature {
			return true
		}
	}
	return false
}

// Permalink returns the public path of an item of this type.
func (t Type) Permalink(slug string) string {
	return "/" + t.RewriteSlug + "/" + slug + "/"
}

// ArchiveLink returns the archive path or "" when the type has no archive.
func (t Type) ArchiveLink() string {
	if t.HasArchive == "" {
		return ""
	}
	return "/" + t.HasArchive + "/"
}

var validName = regexp.MustCompile(`^[a-z0-9_-]{1,20}$`)

func (t *Type) setDefaults() {
	if t.Labels.Name == "" {
		t.Labels.Name = t.Name
	}
	if t.Labels.SingularName == "" {
		t.Labels.SingularName = t.Labels.Name
	}
	if t.Labels.AddNew == "" {
		t.Labels.AddNew = "Add New"
	}
	if t.RESTBase == "" {
		t.RESTBase = t.Name
	}
	if t.CapabilityType == "" {
		t.CapabilityType = "post"
	}
	if t.RewriteSlug == "" {
		t.RewriteSlug = t.Name
	}
	t.RewriteSlug = strings.Trim(t.RewriteSlug, "/")
	t.HasArchive = strings.Trim(t.HasArchive, "/")
}

// RuleKind tells archive rules from single-item rules.
type RuleKind int

const (
	RuleArchive RuleKind = iota
	RuleSingle
)

// Rule maps a path prefix to a content type.
type Rule struct {
	Kind   RuleKind
	Prefix string // first path segment, no slashes
	Type   string
}

// Match is a resolved request path.
type Match struct {
	Kind RuleKind
	Type Type
	Slug string // set for RuleSingle
}

// Registry holds registered types. The zero value is not usable; call New.
type Registry struct {
	mu      sync.RWMutex
	types   map[string]Type
	order   []string
	rules   []Rule
	flushes int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{types: make(map[string]Type)}
}

// Register adds t or replaces an existing type with the same name.
func (r *Registry) Register(t Type) error {
	if !validName.MatchString(t.Name) {
		return fmt.Errorf("posttype: invalid type name %q", t.Name)
	}
	t.setDefaults()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[t.Name]; !ok {
		r.order = append(r.order, t.Name)
	}
	r.types[t.Name] = t
	return nil
}

// Get returns the named type.
func (r *Registry) Get(name string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// List returns every registered type in registration order.
func (r *Registry) List() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Type, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.types[name])
	}
	return out
}

// ByRESTBase returns the REST-exposed type with the given base.
func (r *Registry) ByRESTBase(base string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		t := r.types[name]
		if t.ShowInREST && t.RESTBase == base {
			return t, true
		}
	}
	return Type{}, false
}

// FlushRewriteRules rebuilds the rule table from the public types.
func (r *Registry) FlushRewriteRules() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rules []Rule
	for _, name := range r.order {
		t := r.types[name]
		if !t.Public {
			continue
		}
		if t.HasArchive != "" {
			rules = append(rules, Rule{Kind: RuleArchive, Prefix: t.HasArchive, Type: t.Name})
		}
		rules = append(rules, Rule{Kind: RuleSingle, Prefix: t.RewriteSlug, Type: t.Name})
	}
	r.rules = rules
	r.flushes++
}

// Rules returns a copy of the current rule table.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Rule(nil), r.rules...)
}

// Flushes reports how many times the rules were rebuilt.
func (r *Registry) Flushes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.flushes
}

// Match resolves path against the rule table. Paths look like "/books/" or
// "/books/some-slug/".
func (r *Registry) Match(path string) (Match, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" || len(parts) > 2 {
		return Match{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.rules {
		if rule.Prefix != parts[0] {
			continue
		}
		switch {
		case rule.Kind == RuleArchive && len(parts) == 1:
			return Match{Kind: RuleArchive, Type: r.types[rule.Type]}, true
		case rule.Kind == RuleSingle && len(parts) == 2 && parts[1] != "":
			return Match{Kind: RuleSingle, Type: r.types[rule.Type], Slug: parts[1]}, true
		}
	}
	return Match{}, false
}
