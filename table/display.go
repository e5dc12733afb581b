package table

import (
	"fmt"
	"strconv"
	"strings"

	IS "github.com/jabbalaci/Talky-G-sub001/itemset"
)

// String renders the row with raw attribute ids:
//
//	base          "1 2 (3)"
//	flagged       "1 2 (3) +key"
//	candidate     "1 2 (?) ~4 +key"
//	closure       "1 2 3 (2) <- 1 2"
//	carpathia     "1 2 (2) +key -> 1 2 3"
func (r *Row) String() string {
	return r.render(func(s *IS.Itemset) string { return s.String() })
}

// Format renders the row like String with attribute names from db.
func (r *Row) Format(db IS.Database) string {
	return r.render(func(s *IS.Itemset) string { return IS.ToNames(db, s) })
}

func (r *Row) render(names func(*IS.Itemset) string) string {
	name := func(s *IS.Itemset) string {
		if s == nil {
			return "?"
		}
		return names(s)
	}
	var b strings.Builder
	b.WriteString(name(r.itemset))
	b.WriteString(" (")
	if r.support == SupportUnknown {
		b.WriteString("?")
	} else {
		b.WriteString(strconv.Itoa(r.support))
	}
	b.WriteString(")")

	if r.kind == KindPredSupport {
		fmt.Fprintf(&b, " ~%d", r.predSupport)
	}
	if r.flags.Has(FlagKey) {
		b.WriteString(" +key")
	}
	if r.flags.Has(FlagClosed) {
		b.WriteString(" +closed")
	}
	switch r.kind {
	case KindClosure:
		b.WriteString(" <- ")
		b.WriteString(name(r.generator))
	case KindCarpathia:
		if r.closure != nil {
			b.WriteString(" -> ")
			b.WriteString(name(r.closure))
		}
	}
	return b.String()
}
