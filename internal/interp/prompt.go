package interp

import (
	"encoding/json"
	"fmt"
	"strings"
)

// trailerMarker separates the conversational reply from the extraction JSON
// in backend responses.
const trailerMarker = "---JSON---"

// systemPrompt builds the sales-agent instruction grounded on the catalog.
func systemPrompt(catalogBlob string) string {
	return fmt.Sprintf(`You are the official sales agent for a print shop specializing in restaurant and cafe packaging. Introduce yourself as the print shop's sales agent after the standard welcome.

Your job:
1. Understand the customer's needs through natural conversation
2. Advise based on their kind of business
3. Collect the order details: product, size, kind, quantity
4. Confirm the order

Product catalog:
%s

Conversation style:
- Friendly and professional, emoji in moderation
- Ask one question per reply
- If the customer leaves out a detail, ask for it
- Suggest sensibly based on their business

Important notes:
- Minimum order is usually 500 pieces
- Printing is available on every product
- Delivery takes 7-14 days`, catalogBlob)
}

// extractionInstruction tells the backend to append the structured trailer.
const extractionInstruction = `After your reply to the customer, append on the final lines, unformatted:
---JSON---
{"intent": "...", "category": "...", "product_type": "...", "size": "...", "variant": "...", "quantity": 0, "ready_for_invoice": false, "customer_name": "..."}

intent is one of: greeting, inquiry, product_selection, size_selection, variant_selection, quantity_selection, confirmation, other.
Omit keys you did not detect. ready_for_invoice is true only when every detail is complete and the customer confirmed.`

// parseTrailer splits a backend response into reply text and extracted
// fields. A missing or malformed trailer yields intent=other.
func parseTrailer(full string) (string, Fields) {
	idx := strings.Index(full, trailerMarker)
	if idx < 0 {
		return strings.TrimSpace(full), Fields{Intent: IntentOther}
	}

	text := strings.TrimSpace(full[:idx])
	raw := strings.TrimSpace(full[idx+len(trailerMarker):])

	// Some backends wrap the trailer in a code fence despite instructions.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var fields Fields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return text, Fields{Intent: IntentOther}
	}
	if fields.Intent == "" {
		fields.Intent = IntentOther
	}
	return text, fields
}
