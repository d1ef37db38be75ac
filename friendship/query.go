package friendship

import "strings"

// relation is a named SELECT rendered as a common table expression. Its
// dependencies are rendered ahead of it, so a relation can read from any
// relation it names in deps.
type relation struct {
	name  string
	query string
	args  []any
	deps  []relation
}

// statement is a final SELECT over a set of relations.
type statement struct {
	with []relation
	body string
	args []any
}

// build renders one WITH clause holding every relation reachable from s.with
// in dependency order. A name is rendered once per statement.
func (s statement) build() (string, []any) {
	seen := make(map[string]bool)
	var ctes []string
	var args []any

	var visit func(r relation)
	visit = func(r relation) {
		if seen[r.name] {
			return
		}
		for _, dep := range r.deps {
			visit(dep)
		}
		seen[r.name] = true
		ctes = append(ctes, r.name+" AS (\n\t"+r.query+"\n)")
		args = append(args, r.args...)
	}
	for _, r := range s.with {
		visit(r)
	}

	var b strings.Builder
	if len(ctes) > 0 {
		b.WriteString("WITH ")
		b.WriteString(strings.Join(ctes, ",\n"))
		b.WriteString("\n")
	}
	b.WriteString(s.body)

	return b.String(), append(args, s.args...)
}

// selectAll renders a bare SELECT * over r, used to materialize a relation on
// its own.
func selectAll(r relation, tail string, args ...any) statement {
	return statement{
		with: []relation{r},
		body: "SELECT * FROM " + r.name + tail,
		args: args,
	}
}
