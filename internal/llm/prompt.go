package llm

import (
	"fmt"
	"strings"
)

// SystemPrompt instructs the model to emit one raw TaskRecord JSON object.
const SystemPrompt = `You are a strict task extractor.
Convert messy message text (email/SMS/notification/OCR/ASR) into ONE actionable task record.

OUTPUT RULES:
- Output ONLY one raw JSON object.
- No markdown, no code fences, no comments, no explanations.
- JSON MUST be directly parseable.
- Do NOT wrap JSON in strings. Do NOT escape quotes.
- Do NOT output extra fields.

Return an object matching this schema exactly:
{
  "title": string,
  "source": string or null,
  "assignee": string or null,
  "due_at": string or null,
  "amount": number or null,
  "currency": "JPY"|"CNY"|"USD"|null,
  "phones": string[],
  "urls": string[],
  "risk": "high"|"mid"|"low",
  "status": "pending"|"done",
  "suggested_actions": ("calendar"|"reply"|"open_link")[],
  "confidence": number,
  "notes": string
}

Hard rules:
- NEVER return an all-empty record if text has readable characters.
- title MUST be meaningful if text readable.
- notes MUST include an exact snippet copied from the text if text readable.
- due_at: If any date expression exists, copy it EXACTLY as it appears (do NOT normalize; do NOT add year).
- amount: must be numeric only. Convert "3万円" -> 30000, "1,200円" -> 1200.
- currency ONLY if explicitly indicated by symbols/words (円/¥/JPY, $/USD, 元/人民币/RMB/CNY).
`

// BuildUserPrompt frames the message text and its context for the model.
// Empty optional values render as null.
func BuildUserPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("INPUT\n")
	fmt.Fprintf(&b, "Locale: %s\n", orNull(in.Locale))
	fmt.Fprintf(&b, "SourceHint: %s\n", orNull(in.SourceHint))
	fmt.Fprintf(&b, "Now: %s\n", orNull(in.Now))
	b.WriteString("\nTEXT_START\n")
	b.WriteString(in.Text)
	b.WriteString("\nTEXT_END\n\n")
	b.WriteString("Return ONLY one JSON object matching the schema exactly.\n")
	b.WriteString("- title must not be empty if TEXT_START..TEXT_END contains any readable text\n")
	b.WriteString("- notes must copy an exact snippet from TEXT_START..TEXT_END\n")
	return b.String()
}

func orNull(s string) string {
	if strings.TrimSpace(s) == "" {
		return "null"
	}
	return s
}
