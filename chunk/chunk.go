// Package chunk implements the two windowing strategies used to split a
// list of content elements into overlapping chunks bounded by a size
// budget: UTF-8 byte length of text, or an externally-supplied tokenizer's
// encoded token count.
package chunk

import "github.com/delvergo/delver/interp"

// Tokenizer is the external capability used for token-unit chunking:
// encode(text) -> [token_id].
type Tokenizer interface {
	Encode(text string) ([]int, error)
}

// Unit selects how chunkSize/overlap are measured.
type Unit int

const (
	// Chars budgets in UTF-8 bytes of an element's text.
	Chars Unit = iota
	// Tokens budgets in the Tokenizer's encoded token count.
	Tokens
)

// Elements chunks a flat element list left-to-right, guaranteeing every
// element appears in at least one chunk and that consecutive chunks
// overlap by approximately `overlap` size units. chunkSize and overlap
// are always interpreted in `unit`. tokenizer may be nil when unit ==
// Chars.
func Elements(elements []*interp.TextElement, chunkSize, overlap int, unit Unit, tokenizer Tokenizer) ([][]*interp.TextElement, error) {
	if len(elements) == 0 {
		return nil, nil
	}
	sizes, err := elementSizes(elements, unit, tokenizer)
	if err != nil {
		return nil, err
	}

	var chunks [][]*interp.TextElement
	start := 0
	for start < len(elements) {
		end := start
		budget := 0
		// Always emit at least one element per chunk, even if it alone
		// exceeds chunkSize.
		end++
		budget += sizes[start]
		for end < len(elements) && budget+sizes[end] <= chunkSize {
			budget += sizes[end]
			end++
		}
		chunks = append(chunks, append([]*interp.TextElement(nil), elements[start:end]...))

		if end >= len(elements) {
			break
		}
		// Walk backward from the chunk end until the overlap budget is
		// reached; that position becomes the next start.
		next := end
		overlapBudget := 0
		for next > start+1 && overlapBudget+sizes[next-1] <= overlap {
			next--
			overlapBudget += sizes[next]
		}
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks, nil
}

func elementSizes(elements []*interp.TextElement, unit Unit, tokenizer Tokenizer) ([]int, error) {
	sizes := make([]int, len(elements))
	for i, e := range elements {
		switch unit {
		case Tokens:
			toks, err := tokenizer.Encode(e.Text)
			if err != nil {
				return nil, err
			}
			sizes[i] = len(toks)
		default:
			sizes[i] = len(e.Text)
		}
	}
	return sizes, nil
}
