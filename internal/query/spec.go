package query

import (
	"cmp"
	"slices"
	"strings"
)

// Clause is one AND-ed filter condition. SQL and Args describe it for the
// relational store; Match evaluates the same condition in memory.
type Clause[T any] struct {
	SQL   string
	Args  []any
	Match func(T) bool
}

// SortKey orders rows by one column.
type SortKey[T any] struct {
	Column  string
	Compare func(a, b T) int
}

// By builds a SortKey from a column and a field accessor.
func By[T any, V cmp.Ordered](column string, field func(T) V) SortKey[T] {
	return SortKey[T]{
		Column:  column,
		Compare: func(a, b T) int { return cmp.Compare(field(a), field(b)) },
	}
}

// Sorts is a component's table of sortable keys plus its default.
type Sorts[T any] struct {
	Keys     map[string]SortKey[T]
	Default  string
	TieBreak SortKey[T]
}

// Resolve looks up sortBy case-insensitively, falling back to the default.
func (s Sorts[T]) Resolve(sortBy string) SortKey[T] {
	if k, ok := s.Keys[strings.ToLower(strings.TrimSpace(sortBy))]; ok {
		return k
	}
	return s.Keys[s.Default]
}

// Spec is the full filter and order of one listing request.
type Spec[T any] struct {
	clauses  []Clause[T]
	order    SortKey[T]
	desc     bool
	tieBreak SortKey[T]
}

// Where adds a clause unconditionally.
func (s *Spec[T]) Where(sql string, match func(T) bool, args ...any) *Spec[T] {
	s.clauses = append(s.clauses, Clause[T]{SQL: sql, Args: args, Match: match})
	return s
}

// WhereIf adds a clause only when present is true; absent filters are no-ops.
func (s *Spec[T]) WhereIf(present bool, sql string, match func(T) bool, args ...any) *Spec[T] {
	if !present {
		return s
	}
	return s.Where(sql, match, args...)
}

// OrderBy resolves sortBy against sorts. desc reverses the resolved key
// only; the tie-break always runs ascending.
func (s *Spec[T]) OrderBy(sorts Sorts[T], sortBy string, desc bool) *Spec[T] {
	s.order = sorts.Resolve(sortBy)
	s.desc = desc
	s.tieBreak = sorts.TieBreak
	return s
}

// Clauses returns the clauses in insertion order.
func (s *Spec[T]) Clauses() []Clause[T] { return s.clauses }

// WhereSQL joins all clauses with AND. An empty spec yields "1=1".
func (s *Spec[T]) WhereSQL() (string, []any) {
	if len(s.clauses) == 0 {
		return "1=1", nil
	}
	parts := make([]string, 0, len(s.clauses))
	var args []any
	for _, c := range s.clauses {
		parts = append(parts, c.SQL)
		args = append(args, c.Args...)
	}
	return strings.Join(parts, " AND "), args
}

// OrderSQL renders the ORDER BY list (without the keywords).
func (s *Spec[T]) OrderSQL() string {
	var parts []string
	if s.order.Column != "" {
		dir := " ASC"
		if s.desc {
			dir = " DESC"
		}
		parts = append(parts, s.order.Column+dir)
	}
	if s.tieBreak.Column != "" && s.tieBreak.Column != s.order.Column {
		parts = append(parts, s.tieBreak.Column+" ASC")
	}
	return strings.Join(parts, ", ")
}

// Matches reports whether item satisfies every clause.
func (s *Spec[T]) Matches(item T) bool {
	for _, c := range s.clauses {
		if c.Match != nil && !c.Match(item) {
			return false
		}
	}
	return true
}

// Sort orders items in place by the resolved key and tie-break.
func (s *Spec[T]) Sort(items []T) {
	slices.SortStableFunc(items, func(a, b T) int {
		if s.order.Compare != nil {
			c := s.order.Compare(a, b)
			if s.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		if s.tieBreak.Compare != nil {
			return s.tieBreak.Compare(a, b)
		}
		return 0
	})
}

// Apply filters, sorts and pages items in memory. The count is taken after
// filtering and before paging.
func Apply[T any](items []T, s *Spec[T], p PageParams) ([]T, int) {
	p = p.Normalize()
	matched := make([]T, 0, len(items))
	for _, it := range items {
		if s.Matches(it) {
			matched = append(matched, it)
		}
	}
	s.Sort(matched)
	total := len(matched)
	start := min(max(p.Offset(), 0), total)
	end := min(start+p.PageSize, total)
	return matched[start:end], total
}

// Contains is a case-insensitive substring test used by free-text filters.
func Contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Like wraps a term for a case-insensitive LIKE against a LOWER()ed column.
func Like(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
