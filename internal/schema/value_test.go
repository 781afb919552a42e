package schema

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodePreservesKeyOrder(t *testing.T) {
	v, err := Decode([]byte(`{"zebra":1,"apple":2,"mango":3}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Kind != KindObject {
		t.Fatalf("expected object, got %v", v.Kind)
	}
	want := []string{"zebra", "apple", "mango"}
	if len(v.Members) != len(want) {
		t.Fatalf("expected %d members, got %d", len(want), len(v.Members))
	}
	for i, m := range v.Members {
		if m.Key != want[i] {
			t.Fatalf("member %d: expected key %q, got %q", i, want[i], m.Key)
		}
	}
}

func TestDecodeDuplicateKeysFirstWins(t *testing.T) {
	v, err := Decode([]byte(`{"a":1,"a":2}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(v.Members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(v.Members))
	}
	if v.Members[0].Value.Str != "1" {
		t.Fatalf("expected first occurrence to win, got %s", v.Members[0].Value.Str)
	}
}

func TestDecodeKeepsNumberLiteral(t *testing.T) {
	v, err := Decode([]byte(`{"price":19.90,"count":3}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Members[0].Value.Str != "19.90" {
		t.Fatalf("expected raw literal 19.90, got %s", v.Members[0].Value.Str)
	}
	if v.Members[1].Value.Str != "3" {
		t.Fatalf("expected raw literal 3, got %s", v.Members[1].Value.Str)
	}
}

func TestDecodeInvalid(t *testing.T) {
	cases := []string{``, `{`, `{"a":}`, `{"a":1} trailing`, `nope`}
	for _, c := range cases {
		if _, err := Decode([]byte(c)); !errors.Is(err, ErrInvalidDocument) {
			t.Fatalf("input %q: expected ErrInvalidDocument, got %v", c, err)
		}
	}
}

func TestMarshalRoundTripKeepsOrder(t *testing.T) {
	src := `{"b":[1,2],"a":{"y":"x","x":null},"c":true}`
	v, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"b":[1,2],"a":{"y":"x","x":null},"c":true}` {
		t.Fatalf("unexpected marshal output: %s", out)
	}
}

func TestFromAny(t *testing.T) {
	v := FromAny(map[string]any{"b": 2, "a": "x"})
	if v.Kind != KindObject || len(v.Members) != 2 {
		t.Fatalf("unexpected value %+v", v)
	}
	// map input is sorted for determinism
	if v.Members[0].Key != "a" || v.Members[1].Key != "b" {
		t.Fatalf("expected sorted keys, got %q %q", v.Members[0].Key, v.Members[1].Key)
	}
	if got := FromAny(3).Str; got != "3" {
		t.Fatalf("expected int literal 3, got %s", got)
	}
	if got := FromAny(struct{}{}); got.Kind != KindNull {
		t.Fatalf("unsupported type should fall back to null, got %v", got.Kind)
	}
}

func TestIsEmpty(t *testing.T) {
	if !(Value{Kind: KindNull}).IsEmpty() {
		t.Fatal("null should be empty")
	}
	if !(Value{Kind: KindObject}).IsEmpty() {
		t.Fatal("empty object should be empty")
	}
	if (Value{Kind: KindString, Str: ""}).IsEmpty() {
		t.Fatal("strings are never empty values")
	}
}
