package persistence

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// FoldSearch lowercases s and strips diacritics so "Élysée" matches "elysee".
// Stored search_text columns and query patterns both go through it.
func FoldSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}

// SearchText builds the folded search column value from several fields
func SearchText(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = FoldSearch(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern escapes LIKE wildcards in a folded term
func containsPattern(term string) string {
	return rawContainsPattern(FoldSearch(term))
}

// rawContainsPattern escapes LIKE wildcards without folding the term
func rawContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// applySearch restricts the query to rows whose search_text contains the term
func applySearch(query *gorm.DB, search string) *gorm.DB {
	if strings.TrimSpace(search) == "" {
		return query
	}
	return query.Where(likeClause("search_text"), containsPattern(search))
}

// likeClause builds a LIKE condition on column honouring containsPattern escapes
func likeClause(column string) string {
	return column + ` LIKE ? ESCAPE '\'`
}
