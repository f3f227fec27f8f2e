package bot

import (
	"errors"
	"testing"

	"societypay/internal/core"
)

func TestParseCommands(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
	}{
		{"/start", KindStart},
		{"/help", KindHelp},
		{"/table", KindTable},
		{"/today", KindToday},
		{"/month", KindMonth},
		{"/export", KindExport},
		{"/stats", KindStats},
		{"/reset", KindResetRequest},
		{"/confirm_reset", KindResetConfirm},
		{"/TODAY", KindToday},
		{"/today@SocietyPayBot", KindToday},
		{"/unknown", KindNone},
		{"hello there", KindNone},
		{"kamal500", KindNone},
		{"", KindNone},
	}
	for _, tc := range cases {
		if got := Parse(tc.in); got.Kind != tc.kind {
			t.Errorf("Parse(%q).Kind = %d, want %d", tc.in, got.Kind, tc.kind)
		}
	}
}

func TestParseMember(t *testing.T) {
	cmd := Parse("/member kamal")
	if cmd.Kind != KindMember || cmd.Member != "kamal" {
		t.Errorf("Parse(/member kamal) = %+v", cmd)
	}

	cmd = Parse("/member sunil perera")
	if cmd.Kind != KindMember || cmd.Member != "sunil perera" {
		t.Errorf("Parse(/member sunil perera) = %+v", cmd)
	}

	cmd = Parse("/member")
	if cmd.Kind != KindMember || cmd.Member != "" {
		t.Errorf("Parse(/member) = %+v", cmd)
	}
}

func TestParsePayment(t *testing.T) {
	cmd := Parse("kamal-500")
	if cmd.Kind != KindPayment {
		t.Fatalf("Parse(kamal-500).Kind = %d, want KindPayment", cmd.Kind)
	}
	if cmd.Payment.MemberName != "Kamal" || cmd.Payment.Amount.Cents != 50000 {
		t.Errorf("unexpected submission: %+v", cmd.Payment)
	}
}

func TestParseInvalidPayment(t *testing.T) {
	cmd := Parse("kamal2-500")
	if cmd.Kind != KindInvalidPayment || !errors.Is(cmd.Err, core.ErrInvalidName) {
		t.Errorf("Parse(kamal2-500) = %+v", cmd)
	}

	cmd = Parse("kamal-abc")
	if cmd.Kind != KindInvalidPayment || !errors.Is(cmd.Err, core.ErrInvalidAmount) {
		t.Errorf("Parse(kamal-abc) = %+v", cmd)
	}

	// With more than one separator the text is still payment-shaped
	// enough to deserve a hint rather than silence.
	cmd = Parse("a-b-c")
	if cmd.Kind != KindInvalidPayment || !errors.Is(cmd.Err, core.ErrInvalidFormat) {
		t.Errorf("Parse(a-b-c) = %+v", cmd)
	}
}

func TestAdminOnly(t *testing.T) {
	adminKinds := []Kind{KindTable, KindToday, KindMonth, KindMember, KindExport, KindStats, KindResetRequest, KindResetConfirm}
	for _, k := range adminKinds {
		if !(Command{Kind: k}).adminOnly() {
			t.Errorf("kind %d should be admin-only", k)
		}
	}
	openKinds := []Kind{KindNone, KindStart, KindHelp, KindPayment, KindInvalidPayment}
	for _, k := range openKinds {
		if (Command{Kind: k}).adminOnly() {
			t.Errorf("kind %d should not be admin-only", k)
		}
	}
}
