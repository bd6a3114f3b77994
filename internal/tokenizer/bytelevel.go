package tokenizer

import "strings"

// byteLevelDecoder maps the printable runes GPT-2 style vocabularies use
// back to the raw bytes they stand for.
func byteLevelDecoder() map[rune]byte {
	var bs []int
	for i := int('!'); i <= int('~'); i++ {
		bs = append(bs, i)
	}
	for i := int('¡'); i <= int('¬'); i++ {
		bs = append(bs, i)
	}
	for i := int('®'); i <= int('ÿ'); i++ {
		bs = append(bs, i)
	}

	printable := make(map[int]bool, len(bs))
	for _, b := range bs {
		printable[b] = true
	}

	dec := make(map[rune]byte, 256)
	for _, b := range bs {
		dec[rune(b)] = byte(b)
	}
	n := 0
	for b := 0; b < 256; b++ {
		if printable[b] {
			continue
		}
		dec[rune(256+n)] = byte(b)
		n++
	}
	return dec
}

func decodeByteLevel(tokens []string, dec map[rune]byte) string {
	var b []byte
	for _, tok := range tokens {
		for _, r := range tok {
			if by, ok := dec[r]; ok {
				b = append(b, by)
			} else {
				b = append(b, string(r)...)
			}
		}
	}
	return string(b)
}

// metaspace is the word-boundary rune of SentencePiece vocabularies.
const metaspace = "▁"

func decodeMetaspace(tokens []string, stripFirst bool) string {
	var b strings.Builder
	for i, tok := range tokens {
		tok = strings.ReplaceAll(tok, metaspace, " ")
		if i == 0 && stripFirst {
			tok = strings.TrimPrefix(tok, " ")
		}
		b.WriteString(tok)
	}
	return b.String()
}
