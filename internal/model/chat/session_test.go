package chat

import (
	"errors"
	"testing"
)

func TestSessionConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  SessionConfig
		ok   bool
	}{
		{"complete", SessionConfig{Model: "gpt-4o-mini", APIKey: "sk-test", PersonaText: "p"}, true},
		{"missing key", SessionConfig{Model: "gpt-4o-mini"}, false},
		{"blank key", SessionConfig{Model: "gpt-4o-mini", APIKey: "  "}, false},
		{"missing model", SessionConfig{APIKey: "sk-test"}, false},
	}

	for _, tc := range cases {
		err := tc.cfg.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrConfiguration) {
			t.Fatalf("%s: expected configuration error, got %v", tc.name, err)
		}
	}
}

func TestTurnDisplayAppendsTag(t *testing.T) {
	turn := AssistantTurn("안녕하세요", "(부정적)")
	if turn.Display() != "안녕하세요(부정적)" {
		t.Fatalf("unexpected display text %q", turn.Display())
	}
	if turn.Text != "안녕하세요" {
		t.Fatalf("tag leaked into text: %q", turn.Text)
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleUser.Valid() || !RoleAssistant.Valid() {
		t.Fatal("expected known roles to be valid")
	}
	if Role("").Valid() || Role("system").Valid() {
		t.Fatal("expected unknown roles to be invalid")
	}
}
