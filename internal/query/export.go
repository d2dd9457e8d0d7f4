package query

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = errors.New("unknown export format")

// Format selects the export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat parses "yaml" or "json".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ViewSnapshot is a view together with its cursors.
type ViewSnapshot struct {
	ViewInfo `yaml:",inline"`
	Cursors  []Cursor `json:"cursors" yaml:"cursors"`
}

// Session is a point-in-time picture of the whole editor state.
type Session struct {
	ID            string         `json:"session" yaml:"session"`
	ActiveView    uint64         `json:"active_view" yaml:"active_view"`
	Status        string         `json:"status" yaml:"status"`
	Buffers       BufferList     `json:"buffers" yaml:"buffers"`
	ModifiedCount int            `json:"modified_count" yaml:"modified_count"`
	Views         []ViewSnapshot `json:"views" yaml:"views"`
}

// Session collects a point-in-time snapshot of the state.
func (f *Facade) Session() Session {
	o := f.state.Overview()
	buffers := make(BufferList, len(o.Buffers))
	for i, b := range o.Buffers {
		buffers[i] = bufferInfo(b)
	}
	s := Session{
		ID:            o.Session.String(),
		ActiveView:    uint64(o.ActiveView),
		Status:        o.Status,
		Buffers:       buffers,
		ModifiedCount: buffers.ModifiedCount(),
		Views:         make([]ViewSnapshot, 0, len(o.Views)),
	}
	for _, v := range o.Views {
		s.Views = append(s.Views, ViewSnapshot{ViewInfo: viewInfo(v.ViewInfo), Cursors: cursorsOf(v.CursorList)})
	}
	return s
}

// Export writes s to w in the given format.
func Export(w io.Writer, s Session, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		doc, err := sessionJSON(s)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = w.Write(pretty.Pretty(doc))
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// sessionJSON builds the document field by field so the key order is fixed.
func sessionJSON(s Session) ([]byte, error) {
	doc := []byte(`{}`)
	fields := []struct {
		path  string
		value any
	}{
		{"session", s.ID},
		{"active_view", s.ActiveView},
		{"status", s.Status},
		{"modified_count", s.ModifiedCount},
		{"buffers", []BufferInfo(s.Buffers)},
		{"views", s.Views},
	}
	var err error
	for _, f := range fields {
		if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
			return nil, fmt.Errorf("set %s: %w", f.path, err)
		}
	}
	return doc, nil
}
