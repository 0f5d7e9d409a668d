package inspect

import "github.com/vango-dev/bento/pkg/protocol"

type rowJSON struct {
	ID        string `json:"id"`
	Component string `json:"component"`
}

type sectionJSON struct {
	ID     string    `json:"id"`
	Header string    `json:"header,omitempty"`
	Footer string    `json:"footer,omitempty"`
	Rows   []rowJSON `json:"rows"`
}

type treeJSON struct {
	Generation uint64        `json:"generation"`
	Sections   []sectionJSON `json:"sections"`
}

func newTreeJSON(m *protocol.TreeMessage) treeJSON {
	t := treeJSON{Generation: m.Generation, Sections: make([]sectionJSON, len(m.Sections))}
	for i, s := range m.Sections {
		sec := sectionJSON{ID: s.ID, Header: s.Header, Footer: s.Footer, Rows: make([]rowJSON, len(s.Rows))}
		for j, r := range s.Rows {
			sec.Rows[j] = rowJSON{ID: r.ID, Component: r.Component}
		}
		t.Sections[i] = sec
	}
	return t
}

type opJSON struct {
	Kind      string `json:"kind"`
	Level     string `json:"level"`
	Section   int    `json:"section"`
	Row       int    `json:"row"`
	ToSection int    `json:"toSection"`
	ToRow     int    `json:"toRow"`
	SectionID string `json:"sectionId"`
	RowID     string `json:"rowId,omitempty"`
}

type errorJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type scriptJSON struct {
	Generation uint64     `json:"generation"`
	Reloaded   bool       `json:"reloaded"`
	Ops        []opJSON   `json:"ops"`
	Error      *errorJSON `json:"error,omitempty"`
}

func newScriptJSON(m *protocol.ScriptMessage, e *protocol.ErrorMessage) scriptJSON {
	s := scriptJSON{Generation: m.Generation, Reloaded: m.Reloaded, Ops: make([]opJSON, len(m.Ops))}
	for i, op := range m.Ops {
		s.Ops[i] = opJSON{
			Kind:      op.Kind.String(),
			Level:     op.Level.String(),
			Section:   op.Section,
			Row:       op.Row,
			ToSection: op.ToSection,
			ToRow:     op.ToRow,
			SectionID: op.SectionID,
			RowID:     op.RowID,
		}
	}
	if e != nil {
		s.Error = &errorJSON{Code: e.Code, Message: e.Message}
	}
	return s
}
