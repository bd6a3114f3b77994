package tokenizer

import "strings"

const defaultWordPiecePrefix = "##"

// cleanupReplacer undoes the spaces WordPiece decoding leaves in front of
// punctuation and English contractions.
var cleanupReplacer = strings.NewReplacer(
	" .", ".",
	" ?", "?",
	" !", "!",
	" ,", ",",
	" ' ", "'",
	" n't", "n't",
	" 'm", "'m",
	" do not", " don't",
	" 's", "'s",
	" 've", "'ve",
	" 're", "'re",
)

// decodeWordPiece joins tokens with spaces and glues continuation pieces
// onto the previous token. The first token is never rewritten. With cleanup
// set the joined text is cleaned again so patterns spanning tokens match.
func decodeWordPiece(tokens []string, prefix string, cleanup bool) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			if rest, ok := strings.CutPrefix(tok, prefix); ok && prefix != "" {
				tok = rest
			} else {
				tok = " " + tok
			}
		}
		if cleanup {
			tok = cleanupReplacer.Replace(tok)
		}
		b.WriteString(tok)
	}
	if cleanup {
		return cleanupReplacer.Replace(b.String())
	}
	return b.String()
}
