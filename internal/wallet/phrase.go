package wallet

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// PhraseWords is the number of words in a recovery phrase.
const PhraseWords = 12

// Phrase is a recovery phrase of exactly PhraseWords words.
type Phrase struct {
	words []string
}

// GeneratePhrase samples PhraseWords words independently and uniformly
// (with replacement) from words using crypto/rand.
func GeneratePhrase(words Wordlist) (Phrase, error) {
	if err := CheckWordlist(words); err != nil {
		return Phrase{}, err
	}
	n := big.NewInt(int64(words.Len()))
	out := make([]string, PhraseWords)
	for i := range out {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			return Phrase{}, fmt.Errorf("sample word: %w", err)
		}
		out[i] = words.Word(int(idx.Int64()))
	}
	return Phrase{words: out}, nil
}

// ParsePhrase splits text on whitespace and requires exactly PhraseWords
// tokens. Tokens are not checked against any wordlist: a user-supplied
// phrase is accepted as an opaque secret.
func ParsePhrase(text string) (Phrase, error) {
	fields := strings.Fields(text)
	if len(fields) != PhraseWords {
		return Phrase{}, fmt.Errorf("%w: got %d words, want %d", ErrInvalidPhrase, len(fields), PhraseWords)
	}
	return Phrase{words: fields}, nil
}

// String joins the words with single spaces.
func (p Phrase) String() string {
	return strings.Join(p.words, " ")
}

// Words returns a copy of the words.
func (p Phrase) Words() []string {
	out := make([]string, len(p.words))
	copy(out, p.words)
	return out
}
