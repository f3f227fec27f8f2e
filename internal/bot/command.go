package bot

import (
	"strings"

	"societypay/internal/core"
)

// Kind enumerates everything an inbound message can mean. Classifying
// once here keeps string matching out of the handlers.
type Kind int

const (
	// KindNone is chat noise: free text that is not a command and not
	// payment-shaped. It is ignored without a reply.
	KindNone Kind = iota
	KindStart
	KindHelp
	KindTable
	KindToday
	KindMonth
	KindMember
	KindExport
	KindStats
	KindResetRequest
	KindResetConfirm
	KindPayment
	// KindInvalidPayment is payment-shaped text (contains the
	// separator) that failed validation; Err holds the reason.
	KindInvalidPayment
)

// Command is the parsed form of one inbound message.
type Command struct {
	Kind    Kind
	Member  string          // KindMember argument
	Payment core.Submission // KindPayment
	Err     error           // KindInvalidPayment reason
}

// adminOnly reports whether this command requires the allow-list.
func (c Command) adminOnly() bool {
	switch c.Kind {
	case KindTable, KindToday, KindMonth, KindMember, KindExport, KindStats, KindResetRequest, KindResetConfirm:
		return true
	}
	return false
}

// Parse classifies raw message text. Slash commands may carry a
// "@BotName" suffix, which Telegram adds in group chats.
func Parse(text string) Command {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "/") {
		fields := strings.Fields(text)
		name := strings.ToLower(fields[0])
		if at := strings.Index(name, "@"); at > 0 {
			name = name[:at]
		}

		switch name {
		case "/start":
			return Command{Kind: KindStart}
		case "/help":
			return Command{Kind: KindHelp}
		case "/table":
			return Command{Kind: KindTable}
		case "/today":
			return Command{Kind: KindToday}
		case "/month":
			return Command{Kind: KindMonth}
		case "/member":
			arg := ""
			if len(fields) > 1 {
				arg = strings.Join(fields[1:], " ")
			}
			return Command{Kind: KindMember, Member: arg}
		case "/export":
			return Command{Kind: KindExport}
		case "/stats":
			return Command{Kind: KindStats}
		case "/reset":
			return Command{Kind: KindResetRequest}
		case "/confirm_reset":
			return Command{Kind: KindResetConfirm}
		}
		// Unknown slash command: treat like noise
		return Command{Kind: KindNone}
	}

	// Free text: only consider it a payment when it carries the
	// separator at all, so ordinary chat stays silent.
	if !strings.Contains(text, "-") {
		return Command{Kind: KindNone}
	}

	sub, err := core.ParseSubmission(text)
	if err != nil {
		return Command{Kind: KindInvalidPayment, Err: err}
	}
	return Command{Kind: KindPayment, Payment: sub}
}
