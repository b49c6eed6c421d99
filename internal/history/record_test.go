// internal/history/record_test.go
package history

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRecordKeepsColumnOrder(t *testing.T) {
	var rec Record
	if err := json.Unmarshal([]byte(`{"state":"CA","name":"Ada","id":7}`), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := rec.Columns(); !reflect.DeepEqual(got, []string{"state", "name", "id"}) {
		t.Fatalf("unexpected column order: %v", got)
	}
	if v, ok := rec.Get("id"); !ok || v != json.Number("7") {
		t.Fatalf("expected id 7 as json.Number, got %#v", v)
	}

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"state":"CA","name":"Ada","id":7}` {
		t.Fatalf("unexpected encoding: %s", out)
	}
}

func TestRecordRejectsNonObject(t *testing.T) {
	var rec Record
	if err := json.Unmarshal([]byte(`[1,2]`), &rec); err == nil {
		t.Fatalf("expected error for array input")
	}
}

func TestPayloadDecodesTableAndChart(t *testing.T) {
	var p Payload
	body := `{"table":[{"b":1,"a":2},{"b":3,"a":4}],"chart":[{"x":"jan","y":10}]}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.Rows) != 2 || len(p.ChartSeries) != 1 {
		t.Fatalf("unexpected payload sizes: rows=%d chart=%d", len(p.Rows), len(p.ChartSeries))
	}
	if got := p.Rows[1].Columns(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("unexpected row columns: %v", got)
	}
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord("message", "hi", "n", 2)
	if !reflect.DeepEqual(rec.Values(), []any{"hi", 2}) {
		t.Fatalf("unexpected values: %v", rec.Values())
	}
}
