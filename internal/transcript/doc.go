// Package transcript parses terminal transcripts of assistant conversations into turns.
//
// Parsing happens in two passes. The first pass classifies every line by its prefix and
// groups lines into blocks, each introduced by a user prompt, an assistant bullet or a tool
// invocation. The second pass drops scaffolding blocks (unless verbose output was requested)
// and reflows terminal-wrapped lines back into paragraphs.
//
// Example usage:
//
//	doc, err := transcript.ParseFile("session.txt", transcript.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	title := transcript.DetectTitle(doc.Path, doc.Turns, doc.Head)
//	date := transcript.DetectDate(doc.Path, doc.Head)
package transcript
