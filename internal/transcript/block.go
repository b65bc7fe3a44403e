package transcript

// Block is a run of raw lines introduced by a user, assistant or tool-call line
type Block struct {
	Type  LineType
	Lines []string // The opener with its marker stripped, then following lines verbatim
}

// Assemble groups raw lines into blocks in a single pass. Lines before the first opener are
// dropped, as are tool output and progress lines that would land in a conversational block.
func Assemble(lines []string) []Block {
	var blocks []Block
	var current *Block // nil until the first opener

	for _, line := range lines {
		lt := Classify(line)
		switch {
		case lt.opensBlock():
			blocks = append(blocks, Block{Type: lt, Lines: []string{stripMarker(line)}})
			current = &blocks[len(blocks)-1]
		case lt == ToolOutput || lt == Progress:
			if current != nil && current.Type.isNoise() {
				current.Lines = append(current.Lines, line)
			}
		default:
			if current != nil {
				current.Lines = append(current.Lines, line)
			}
		}
	}

	return blocks
}
