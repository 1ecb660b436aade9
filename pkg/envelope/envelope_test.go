package envelope

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	v, err := Decode([]byte(s))
	if err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func ids(t *testing.T, arr []any) []string {
	t.Helper()
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			t.Fatalf("expected object, got %T", item)
		}
		out = append(out, obj["id"].(json.Number).String())
	}
	return out
}

func TestUnwrap_CandidateShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"root array", `[{"id":1},{"id":2}]`, []string{"1", "2"}},
		{"data.hint", `{"data":{"users":[{"id":3}]}}`, []string{"3"}},
		{"hint", `{"users":[{"id":4}]}`, []string{"4"}},
		{"data", `{"data":[{"id":5}]}`, []string{"5"}},
		{"data.data", `{"data":{"data":[{"id":6}]}}`, []string{"6"}},
		{"results", `{"results":[{"id":7}]}`, []string{"7"}},
		{"data.hint wins over hint", `{"users":[{"id":8}],"data":{"users":[{"id":9}]}}`, []string{"9"}},
		{"hint wins over data", `{"users":[{"id":10}],"data":[{"id":11}]}`, []string{"10"}},
		{"data wins over results", `{"data":[{"id":12}],"results":[{"id":13}]}`, []string{"12"}},
		{"empty array is authoritative", `{"data":{"users":[]},"results":[{"id":14}]}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Unwrap(decode(t, tt.body), "users")
			if !ok {
				t.Fatalf("expected a match for %s", tt.body)
			}
			gotIDs := ids(t, got)
			if len(gotIDs) != len(tt.want) {
				t.Fatalf("got %v, want %v", gotIDs, tt.want)
			}
			for i := range gotIDs {
				if gotIDs[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", gotIDs, tt.want)
				}
			}
		})
	}
}

func TestUnwrap_UnrecognizedShapesAreEmpty(t *testing.T) {
	bodies := []string{
		`{}`,
		`null`,
		``,
		`{"data":{"users":{"id":1}}}`,
		`{"items":[{"id":1}]}`,
		`{"data":"nope"}`,
		`42`,
		`"string"`,
	}

	for _, body := range bodies {
		got, ok := Unwrap(decode(t, body), "users")
		if ok {
			t.Fatalf("%q: expected no match", body)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("%q: expected empty non-nil slice, got %#v", body, got)
		}
	}
}

func TestUnwrap_FirstMatchingHint(t *testing.T) {
	v := decode(t, `{"data":{"drivers":[{"id":1}],"users":[{"id":2}]}}`)

	got, ok := Unwrap(v, "users", "drivers")
	if !ok || ids(t, got)[0] != "2" {
		t.Fatalf("expected users hint to win, got %v", got)
	}

	p, ok := NewResolver().MatchedPath(v, "missing", "drivers")
	if !ok || p.String() != "data.drivers" {
		t.Fatalf("unexpected matched path %v", p)
	}
}

func TestUnwrap_PrimitivesPassThrough(t *testing.T) {
	got, ok := Unwrap(decode(t, `{"data":["a","b"]}`))
	if !ok || len(got) != 2 {
		t.Fatalf("expected primitive array, got %v", got)
	}
	if got[0] != "a" || got[1] != "b" {
		t.Fatalf("primitives changed: %v", got)
	}
}

func TestResolver_CustomPaths(t *testing.T) {
	r := NewResolver(ParsePath("payload.rows"))
	got, ok := r.Unwrap(decode(t, `{"payload":{"rows":[1,2,3]},"data":[9]}`))
	if !ok || len(got) != 3 {
		t.Fatalf("custom path not used: %v", got)
	}
}

func TestLookupAndFirst(t *testing.T) {
	v := decode(t, `{"data":{"total_count":45,"meta":null},"count":3}`)

	if _, ok := Lookup(v, ParsePath("data.meta")); ok {
		t.Fatalf("null must not resolve")
	}
	got, ok := First(v, ParsePath("total_count"), ParsePath("data.total_count"), ParsePath("count"))
	if !ok || got.(json.Number).String() != "45" {
		t.Fatalf("unexpected first value %v", got)
	}
	if _, ok := Lookup(v, ParsePath("count.deeper")); ok {
		t.Fatalf("walking through a scalar must fail")
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := Decode([]byte(`{"data":`)); err == nil {
		t.Fatalf("expected error for truncated JSON")
	}
}
