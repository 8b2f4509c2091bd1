// Package sqlscope rewrites generated SQL so it can only touch one user's
// rows. Every statement produced from user-supplied natural language must
// pass through Scope before execution; a statement that cannot be scoped is
// rejected, never executed unscoped.
//
// The rewrite works on a minimal token scan of the statement rather than
// plain text surgery: quoting and parenthesis depth are tracked, so a WHERE
// inside a string literal or a subquery is not mistaken for the top-level
// filter clause, and an existing predicate is wrapped in parentheses before
// the scoping conjunct is attached. That keeps the guarantee intact even
// when the generated predicate's top-level connective is OR.
package sqlscope

import (
	"fmt"
	"strings"

	"github.com/dvoronov/fintalk/internal/domain"
)

// TableName is the only relation generated queries may address.
const TableName = "transactions"

// Scoped is a statement guaranteed by construction to carry a user_id
// conjunct. It is only ever produced by Scope.
type Scoped string

// Scope pins the given statement to a single user. The statement must
// reference the transactions relation via FROM (SELECT or DELETE); anything
// else is a scoping violation. So is multi-statement input: a semicolon
// outside quotes after trailing-terminator trimming means a second
// statement the conjunct would never reach.
//
// With an existing top-level WHERE the predicate P becomes
// "user_id = <id> AND (P)"; without one, "WHERE user_id = <id>" is inserted
// after the FROM target, ahead of any trailing GROUP BY / ORDER BY / LIMIT
// clauses. Trailing statement terminators are normalized to exactly one.
func Scope(query string, userID int64) (Scoped, error) {
	s := strings.TrimSpace(query)
	for strings.HasSuffix(s, ";") {
		s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	}
	if s == "" {
		return "", fmt.Errorf("sqlscope: empty statement: %w", domain.ErrScopingViolation)
	}
	if hasBareSemicolon(s) {
		return "", fmt.Errorf("sqlscope: multi-statement input %q: %w", query, domain.ErrScopingViolation)
	}

	tokens := scanTopLevel(s)

	fromIdx := findFromTarget(tokens)
	if fromIdx < 0 {
		return "", fmt.Errorf("sqlscope: no FROM %s target in %q: %w", TableName, query, domain.ErrScopingViolation)
	}

	conjunct := fmt.Sprintf("user_id = %d", userID)

	whereIdx := -1
	for i := fromIdx + 1; i < len(tokens); i++ {
		if tokens[i].upper == "WHERE" {
			whereIdx = i
			break
		}
	}

	var rewritten string
	if whereIdx >= 0 {
		where := tokens[whereIdx]
		end := clauseBoundary(tokens, whereIdx+1, len(s))
		predicate := strings.TrimSpace(s[where.end:end])
		tail := strings.TrimSpace(s[end:])

		var b strings.Builder
		b.WriteString(s[:where.end])
		b.WriteString(" ")
		b.WriteString(conjunct)
		if predicate != "" {
			b.WriteString(" AND (")
			b.WriteString(predicate)
			b.WriteString(")")
		}
		if tail != "" {
			b.WriteString(" ")
			b.WriteString(tail)
		}
		rewritten = b.String()
	} else {
		// Insert a WHERE clause after the FROM target, before any trailing
		// GROUP BY / ORDER BY / LIMIT / etc.
		end := clauseBoundary(tokens, fromIdx+2, len(s))
		head := strings.TrimSpace(s[:end])
		tail := strings.TrimSpace(s[end:])

		var b strings.Builder
		b.WriteString(head)
		b.WriteString(" WHERE ")
		b.WriteString(conjunct)
		if tail != "" {
			b.WriteString(" ")
			b.WriteString(tail)
		}
		rewritten = b.String()
	}

	return Scoped(rewritten + ";"), nil
}

// token is a bare word found at quoting level zero and parenthesis depth
// zero of the statement.
type token struct {
	upper string
	start int
	end   int
}

// clauseKeywords terminate a WHERE predicate (or the FROM clause) at the
// top level of a statement.
var clauseKeywords = map[string]bool{
	"GROUP":     true,
	"ORDER":     true,
	"HAVING":    true,
	"WINDOW":    true,
	"LIMIT":     true,
	"OFFSET":    true,
	"FETCH":     true,
	"RETURNING": true,
	"UNION":     true,
	"INTERSECT": true,
	"EXCEPT":    true,
}

// scanTopLevel extracts word tokens that sit outside string literals,
// quoted identifiers and parentheses.
func scanTopLevel(s string) []token {
	var tokens []token
	depth := 0
	inSingle := false
	inDouble := false
	wordStart := -1

	flush := func(end int) {
		if wordStart >= 0 {
			tokens = append(tokens, token{
				upper: strings.ToUpper(s[wordStart:end]),
				start: wordStart,
				end:   end,
			})
			wordStart = -1
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inSingle:
			if c == '\'' {
				// '' is an escaped quote inside the literal.
				if i+1 < len(s) && s[i+1] == '\'' {
					i++
				} else {
					inSingle = false
				}
			}
		case inDouble:
			if c == '"' {
				inDouble = false
			}
		case c == '\'':
			flush(i)
			inSingle = true
		case c == '"':
			flush(i)
			inDouble = true
		case c == '(':
			flush(i)
			depth++
		case c == ')':
			flush(i)
			if depth > 0 {
				depth--
			}
		case isWordByte(c):
			if depth == 0 && wordStart < 0 {
				wordStart = i
			}
			if depth > 0 {
				wordStart = -1
			}
		default:
			flush(i)
		}
	}
	flush(len(s))

	return tokens
}

// hasBareSemicolon reports whether s still contains a statement separator
// outside string literals and quoted identifiers. Parenthesis depth is not
// consulted: a semicolon inside parentheses is not valid SQL either way and
// gets rejected just the same.
func hasBareSemicolon(s string) bool {
	inSingle := false
	inDouble := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inSingle:
			if c == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					i++
				} else {
					inSingle = false
				}
			}
		case inDouble:
			if c == '"' {
				inDouble = false
			}
		case c == '\'':
			inSingle = true
		case c == '"':
			inDouble = true
		case c == ';':
			return true
		}
	}
	return false
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// findFromTarget returns the index of the FROM token that addresses the
// transactions relation, or -1. Schema-qualified names are accepted.
func findFromTarget(tokens []token) int {
	target := strings.ToUpper(TableName)
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].upper != "FROM" {
			continue
		}
		name := tokens[i+1].upper
		if dot := strings.LastIndex(name, "."); dot >= 0 {
			name = name[dot+1:]
		}
		if name == target {
			return i
		}
	}
	return -1
}

// clauseBoundary finds where the current clause ends: the start offset of
// the first trailing clause keyword at or after token index from, or limit
// when none follows.
func clauseBoundary(tokens []token, from, limit int) int {
	for i := from; i < len(tokens); i++ {
		if clauseKeywords[tokens[i].upper] {
			return tokens[i].start
		}
	}
	return limit
}
