package formdata

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetReturnsNewSnapshot(t *testing.T) {
	empty := Data{}
	first := empty.Set("name", "Acme")
	second := first.Set("city", "Austin")

	if empty.Len() != 0 {
		t.Fatalf("zero snapshot mutated: %v", empty.Keys())
	}
	if first.Has("city") {
		t.Fatalf("earlier snapshot observed later write")
	}
	if diff := cmp.Diff([]string{"city", "name"}, second.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestClearAndReset(t *testing.T) {
	data := New(map[string]any{"product": "p-1", "quantity": "2", "name": "Acme"})
	cleared := data.Clear("product", "quantity")

	if diff := cmp.Diff([]string{"name"}, cleared.Keys()); diff != "" {
		t.Fatalf("clear mismatch (-want +got):\n%s", diff)
	}
	if data.Len() != 3 {
		t.Fatalf("clear mutated receiver")
	}
	if got := data.Reset().Len(); got != 0 {
		t.Fatalf("reset: want empty, got %d keys", got)
	}
}

func TestTextIsSanitised(t *testing.T) {
	data := Data{}.Set("company", "<b>Acme</b> & Co")
	if got := data.String("company"); got != "Acme & Co" {
		t.Fatalf("sanitised value: got %q", got)
	}
	plain := Data{}.Set("notes", "5 units")
	if got := plain.String("notes"); got != "5 units" {
		t.Fatalf("plain value changed: %q", got)
	}
}

func TestTextKeepsLiteralEntities(t *testing.T) {
	cases := map[string]string{
		"AT&amp;T":               "AT&amp;T",
		"R&D &lt;team&gt;":       "R&D &lt;team&gt;",
		"x > 3 & y":              "x > 3 & y",
		"<i>AT&amp;T</i> & sons": "AT&amp;T & sons",
		"a < b":                  "a < b",
	}
	for in, want := range cases {
		if got := SanitizeText(in); got != want {
			t.Errorf("SanitizeText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIntAndBlank(t *testing.T) {
	data := New(map[string]any{
		"qty":     "3",
		"float":   float64(4),
		"bad":     "three",
		"spaces":  "   ",
		"agreed":  false,
		"checked": true,
	})

	if n, err := data.Int("qty"); err != nil || n != 3 {
		t.Fatalf("int qty: %d %v", n, err)
	}
	if n, err := data.Int("float"); err != nil || n != 4 {
		t.Fatalf("int float: %d %v", n, err)
	}
	if _, err := data.Int("bad"); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := data.Int("missing"); err == nil {
		t.Fatalf("expected missing error")
	}
	for _, id := range []string{"spaces", "agreed", "missing"} {
		if !data.Blank(id) {
			t.Fatalf("%s should be blank", id)
		}
	}
	if data.Blank("checked") || data.Blank("qty") {
		t.Fatalf("non-blank values reported blank")
	}
}

func TestJSONRoundTripPreservesValues(t *testing.T) {
	data := New(map[string]any{"name": "Acme", "agreed": true})
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Data
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(data.Map(), decoded.Map()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
