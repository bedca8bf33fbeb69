package interpret

import (
	"regexp"
	"strings"
)

// jsonFence matches a ```json fenced block non-greedily, so the first closing
// fence ends the block.
var jsonFence = regexp.MustCompile("(?s)```json[^\\S\\n]*\\n?(.*?)```")

// Block is one fenced json block found in model text. Start and End are byte
// offsets of the whole fence (markers included) within the source text.
type Block struct {
	Start int
	End   int
	Body  string
}

// ExtractJSONBlocks returns up to max fenced json blocks in order of
// appearance. A nil result means no block was found. max <= 0 means no limit.
func ExtractJSONBlocks(text string, max int) []Block {
	if max <= 0 {
		max = -1
	}
	matches := jsonFence.FindAllStringSubmatchIndex(text, max)
	if len(matches) == 0 {
		return nil
	}
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, Block{
			Start: m[0],
			End:   m[1],
			Body:  strings.TrimSpace(text[m[2]:m[3]]),
		})
	}
	return blocks
}

// removeBlocks cuts the given blocks out of text. blocks must be sorted by
// Start and must not overlap.
func removeBlocks(text string, blocks []Block) string {
	if len(blocks) == 0 {
		return text
	}
	var sb strings.Builder
	prev := 0
	for _, b := range blocks {
		sb.WriteString(text[prev:b.Start])
		prev = b.End
	}
	sb.WriteString(text[prev:])
	return sb.String()
}
