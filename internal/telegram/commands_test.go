package telegram

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text, command, args string
	}{
		{"/refine кроссовки на пляже", "refine", "кроссовки на пляже"},
		{"/Approve@ad_critic_bot  abc   ok  ", "approve", "abc ok"},
		{"/brands", "brands", ""},
		{"  просто текст ", "", "просто текст"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			command, args := ParseCommand(tt.text)
			if command != tt.command || args != tt.args {
				t.Errorf("ParseCommand(%q) = (%q, %q), want (%q, %q)", tt.text, command, args, tt.command, tt.args)
			}
		})
	}
}

func TestParseBrandTag(t *testing.T) {
	tests := []struct {
		text, brand, rest string
	}{
		{"#Acme летняя распродажа", "acme", "летняя распродажа"},
		{"летняя #acme распродажа #other", "acme", "летняя распродажа #other"},
		{"без тега", "", "без тега"},
		{"# одинокий", "", "# одинокий"},
		{"", "", ""},
	}

	for _, tt := range tests {
		brand, rest := ParseBrandTag(tt.text)
		if brand != tt.brand || rest != tt.rest {
			t.Errorf("ParseBrandTag(%q) = (%q, %q), want (%q, %q)", tt.text, brand, rest, tt.brand, tt.rest)
		}
	}
}

func TestParseDecisionArgs(t *testing.T) {
	id, notes := ParseDecisionArgs("c-1 логотип мелковат")
	if id != "c-1" || notes != "логотип мелковат" {
		t.Errorf("got (%q, %q)", id, notes)
	}

	id, notes = ParseDecisionArgs("")
	if id != "" || notes != "" {
		t.Errorf("empty args = (%q, %q)", id, notes)
	}
}
