package table

import (
	"bufio"
	"encoding/json"
	"io"

	IS "github.com/jabbalaci/Talky-G-sub001/itemset"
)

// Sink receives finalized rows one at a time so a level's results need not
// stay in memory.
type Sink interface {
	WriteRow(r *Row) error
	Flush() error
}

// TextSink writes one Row.Format line per row.
type TextSink struct {
	w  *bufio.Writer
	db IS.Database
}

// NewTextSink writes to w; db may be nil for raw ids.
func NewTextSink(w io.Writer, db IS.Database) *TextSink {
	return &TextSink{w: bufio.NewWriter(w), db: db}
}

func (s *TextSink) WriteRow(r *Row) error {
	if _, err := s.w.WriteString(r.Format(s.db)); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

func (s *TextSink) Flush() error {
	return s.w.Flush()
}

// RowJSON is the line format of JSONSink.
type RowJSON struct {
	Items     []int    `json:"is"`
	Names     []string `json:"in,omitempty"`
	Support   int      `json:"s"`
	Generator []int    `json:"g,omitempty"`
	Flags     string   `json:"f,omitempty"`
}

// JSONSink writes one JSON document per row and line.
type JSONSink struct {
	w   *bufio.Writer
	enc *json.Encoder
	db  IS.Database
}

func NewJSONSink(w io.Writer, db IS.Database) *JSONSink {
	bw := bufio.NewWriter(w)
	return &JSONSink{w: bw, enc: json.NewEncoder(bw), db: db}
}

func (s *JSONSink) WriteRow(r *Row) error {
	out := RowJSON{Support: r.support, Flags: r.flags.String()}
	if r.itemset != nil {
		out.Items = r.itemset.Positions()
		if s.db != nil {
			out.Names = make([]string, 0, len(out.Items))
			for _, it := range r.itemset.Items() {
				out.Names = append(out.Names, s.db.AttributeName(it))
			}
		}
	}
	if g, err := r.Generator(); err == nil && g != nil {
		out.Generator = g.Positions()
	}
	return s.enc.Encode(out)
}

func (s *JSONSink) Flush() error {
	return s.w.Flush()
}
