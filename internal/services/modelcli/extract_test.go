package modelcli

import "testing"

func TestExtractJSONPlain(t *testing.T) {
	got, err := ExtractJSON(`{"assetType":"music","genre":"rock"}`)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if got != `{"assetType":"music","genre":"rock"}` {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestExtractJSONMarkdownFences(t *testing.T) {
	raw := "Sure, here is the classification:\n```json\n{\"assetType\": \"sfx\"}\n```\nLet me know if you need more."
	got, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if got != `{"assetType": "sfx"}` {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestExtractJSONNestedAndStrings(t *testing.T) {
	raw := `prefix {"a":{"b":"brace } inside"},"c":1} trailing {"ignored":true}`
	got, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if got != `{"a":{"b":"brace } inside"},"c":1}` {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestExtractJSONMissing(t *testing.T) {
	if _, err := ExtractJSON("no structured output at all"); err == nil {
		t.Fatal("expected error for output without JSON")
	}
	if _, err := ExtractJSON(`{"never":"closed"`); err == nil {
		t.Fatal("expected error for unterminated object")
	}
}
