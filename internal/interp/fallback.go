package interp

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

var greetingWords = []string{"hello", "hi", "hey", "good morning", "good evening", "salam", "greetings"}

// categoryKeywords map message tokens to catalog category names, checked in
// order so cup-related words win over generic box words.
var categoryKeywords = []struct {
	tokens   []string
	category string
}{
	{[]string{"cup", "cups", "coffee", "latte", "espresso"}, "Cups"},
	{[]string{"bag", "bags", "kraft"}, "Paper Bags"},
	{[]string{"burger", "pizza", "box", "boxes", "wrap", "container"}, "Food Containers"},
	{[]string{"cake", "sweet", "ice cream", "bakery", "dessert"}, "Bakery"},
	{[]string{"napkin", "sticker", "branding"}, "Branding"},
}

// typeWords map tokens to product type names within the matched category.
var typeWords = []struct {
	token    string
	typeName string
}{
	{"hot", "Hot Cups"},
	{"cold", "Cold Cups"},
	{"iced", "Cold Cups"},
	{"kraft", "Kraft Bags"},
	{"white", "White Bags"},
	{"burger", "Burger Boxes"},
	{"sandwich", "Burger Boxes"},
	{"pizza", "Pizza Boxes"},
	{"wrap", "Wrapping Paper"},
	{"cake", "Cake Boxes"},
	{"ice cream", "Ice Cream Cups"},
	{"napkin", "Napkins"},
	{"sticker", "Stickers"},
}

var sizeWords = []struct {
	token string
	size  string
}{
	{"small", "Small"},
	{"medium", "Medium"},
	{"large", "Large"},
	{"jumbo", "Jumbo"},
}

var kindWords = []struct {
	token string
	kind  string
}{
	{"double", "Double Wall"},
	{"single", "Single Wall"},
	{"ripple", "Ripple Wall"},
	{"pet", "PET Clear"},
	{"pp", "PP Economy"},
	{"twisted", "Twisted Handle"},
}

var (
	ounceSizeRe = regexp.MustCompile(`\b(4|8|12|14|16)\s*oz\b`)
	quantityRe  = regexp.MustCompile(`\b(\d+)\s*(?:pcs|pieces|pc|units|cups|bags|boxes)\b`)
	bareQtyRe   = regexp.MustCompile(`\b(\d{3,})\b`)
)

// Fallback is the deterministic keyword-based interpreter used when no
// backend is configured. It never produces response text, so the engine
// always renders the step prompt.
type Fallback struct{}

// Name returns the backend name.
func (Fallback) Name() string { return "fallback" }

// Interpret applies FallbackDetect. Pure, never fails.
func (Fallback) Interpret(ctx context.Context, message string, history []Exchange) Result {
	return Result{Fields: FallbackDetect(message)}
}

// FallbackDetect extracts fields from a message using fixed keyword sets and
// a numeric-quantity pattern. Pure function of its input.
func FallbackDetect(message string) Fields {
	lower := strings.ToLower(message)
	fields := Fields{Intent: IntentOther}

	for _, w := range greetingWords {
		if strings.Contains(lower, w) {
			fields.Intent = IntentGreeting
			break
		}
	}

	for _, ck := range categoryKeywords {
		for _, token := range ck.tokens {
			if strings.Contains(lower, token) {
				fields.Category = ck.category
				if fields.Intent == IntentOther {
					fields.Intent = IntentInquiry
				}
				break
			}
		}
		if fields.Category != "" {
			break
		}
	}

	for _, tw := range typeWords {
		if strings.Contains(lower, tw.token) {
			fields.ProductType = tw.typeName
			if fields.Intent == IntentOther {
				fields.Intent = IntentInquiry
			}
			break
		}
	}

	if m := ounceSizeRe.FindStringSubmatch(lower); m != nil {
		fields.Size = m[1] + " oz"
	} else {
		for _, sw := range sizeWords {
			if strings.Contains(lower, sw.token) {
				fields.Size = sw.size
				break
			}
		}
	}

	for _, kw := range kindWords {
		if containsWord(lower, kw.token) {
			fields.Variant = kw.kind
			break
		}
	}

	// A number with a unit word always reads as a quantity; a bare number
	// only when it is at least three digits, so "8 oz" stays a size.
	if m := quantityRe.FindStringSubmatch(lower); m != nil {
		fields.Quantity, _ = strconv.Atoi(m[1])
	} else if m := bareQtyRe.FindStringSubmatch(lower); m != nil {
		fields.Quantity, _ = strconv.Atoi(m[1])
	}

	return fields
}

func containsWord(haystack, word string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	return re.MatchString(haystack)
}
