package itemset

import (
	"strconv"
	"strings"
)

// Database resolves attribute ids to human readable names. The transaction
// database that loads the attribute dictionary implements it.
type Database interface {
	AttributeName(id uint32) string
}

// Names is a Database backed by a slice indexed by attribute id.
type Names []string

func (n Names) AttributeName(id uint32) string {
	if int(id) < len(n) && n[id] != "" {
		return n[id]
	}
	return strconv.FormatUint(uint64(id), 10)
}

// ToNames renders s like String but with attribute names in place of ids.
// A nil db falls back to the raw ids.
func ToNames(db Database, s *Itemset) string {
	if db == nil {
		return s.String()
	}
	items := s.Items()
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = db.AttributeName(it)
	}
	return strings.Join(parts, " ")
}
