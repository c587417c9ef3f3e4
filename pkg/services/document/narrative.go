package document

import "strings"

type BlockKind int

const (
	BlockBody BlockKind = iota
	BlockSubheading
	BlockBullet
)

func (k BlockKind) String() string {
	switch k {
	case BlockSubheading:
		return "subheading"
	case BlockBullet:
		return "bullet"
	default:
		return "body"
	}
}

type Block struct {
	Kind BlockKind
	Text string
}

var numberedMarkers = []string{"1)", "2)", "3)", "4)", "5)"}

// ClassifyNarrative turns generated text into report blocks, one per
// non-blank line. Each line is classified on its own.
func ClassifyNarrative(text string) []Block {
	var blocks []Block
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case isSubheading(line):
			blocks = append(blocks, Block{Kind: BlockSubheading, Text: line})
		case strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•"):
			blocks = append(blocks, Block{
				Kind: BlockBullet,
				Text: strings.TrimSpace(strings.TrimLeft(line, "-•")),
			})
		default:
			blocks = append(blocks, Block{Kind: BlockBody, Text: line})
		}
	}
	return blocks
}

func isSubheading(line string) bool {
	if strings.HasSuffix(line, ":") {
		return true
	}
	for _, m := range numberedMarkers {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}
