package association

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/chazu/hangerlink/pkg/scene"
)

// Kind is the structural variant of a hanger.
type Kind int

const (
	KindUnknown Kind = iota
	KindClamp        // single collar gripping the pipe
	KindPortal       // frame or angle bracket the pipe passes through
)

func (k Kind) String() string {
	switch k {
	case KindClamp:
		return "clamp"
	case KindPortal:
		return "portal"
	default:
		return "unknown"
	}
}

// ParseKind converts a kind name as written in configuration.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clamp":
		return KindClamp, nil
	case "portal":
		return KindPortal, nil
	}
	return KindUnknown, fmt.Errorf("invalid hanger kind %q, expected clamp or portal", s)
}

// KindRule maps a type-name keyword to a kind.
type KindRule struct {
	Keyword string
	Kind    Kind
}

// DefaultKindRules returns the keyword table used when none is configured.
func DefaultKindRules() []KindRule {
	return []KindRule{
		{Keyword: "抱箍", Kind: KindClamp},
		{Keyword: "u型吊架", Kind: KindPortal},
		{Keyword: "角钢", Kind: KindPortal},
	}
}

// KindTable resolves hanger kinds by case-insensitive substring match of
// the element's type name against an ordered keyword list. The first
// matching rule wins.
type KindTable struct {
	category scene.Category
	rules    []KindRule
}

// NewKindTable builds a table for elements of category c. Rules with an
// empty keyword or KindUnknown are ignored.
func NewKindTable(c scene.Category, rules []KindRule) *KindTable {
	t := &KindTable{category: c}
	for _, r := range rules {
		kw := fold(r.Keyword)
		if kw == "" || r.Kind == KindUnknown {
			continue
		}
		t.rules = append(t.rules, KindRule{Keyword: kw, Kind: r.Kind})
	}
	return t
}

// DefaultKindTable returns the mechanical-equipment table with the default rules.
func DefaultKindTable() *KindTable {
	return NewKindTable(scene.CategoryMechanicalEquipment, DefaultKindRules())
}

// Category returns the only category eligible for classification.
func (t *KindTable) Category() scene.Category {
	return t.category
}

// Rules returns the normalized rules in match order.
func (t *KindTable) Rules() []KindRule {
	return append([]KindRule(nil), t.rules...)
}

// Classify resolves the kind of e.
func (t *KindTable) Classify(e *scene.Element) Kind {
	if e == nil || e.Category != t.category {
		return KindUnknown
	}
	name := fold(e.DisplayName())
	for _, r := range t.rules {
		if strings.Contains(name, r.Keyword) {
			return r.Kind
		}
	}
	return KindUnknown
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
