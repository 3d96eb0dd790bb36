package wallet

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"

	"github.com/tyler-smith/go-bip39"
)

// MinPhraseEntropyBits is the minimum entropy a generated phrase must carry.
// With PhraseWords words that requires at least 1626 distinct words; the
// default BIP-39 list (2048 words) gives 132 bits.
const MinPhraseEntropyBits = 128

// Wordlist supplies the words recovery phrases are sampled from.
type Wordlist interface {
	Len() int
	Word(i int) string
}

// StaticWordlist is an in-memory Wordlist.
type StaticWordlist []string

// Len returns the number of words.
func (w StaticWordlist) Len() int { return len(w) }

// Word returns the i-th word.
func (w StaticWordlist) Word(i int) string { return w[i] }

// EnglishWordlist returns the BIP-39 English wordlist.
func EnglishWordlist() Wordlist {
	return StaticWordlist(bip39.GetWordList())
}

// LoadWordlist reads a wordlist file with one word per line. Blank lines and
// lines starting with '#' are skipped. Duplicates are rejected because they
// silently lower phrase entropy.
func LoadWordlist(path string) (StaticWordlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()

	var words StaticWordlist
	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.ContainsFunc(line, unicode.IsSpace) {
			return nil, fmt.Errorf("wordlist line %d: word contains whitespace", lineNum)
		}
		if _, dup := seen[line]; dup {
			return nil, fmt.Errorf("wordlist line %d: duplicate word %q", lineNum, line)
		}
		seen[line] = struct{}{}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read wordlist: %w", err)
	}
	if err := CheckWordlist(words); err != nil {
		return nil, err
	}
	return words, nil
}

// PhraseEntropyBits returns the entropy of a PhraseWords-word phrase drawn
// uniformly from w.
func PhraseEntropyBits(w Wordlist) float64 {
	if w == nil || w.Len() < 2 {
		return 0
	}
	return PhraseWords * math.Log2(float64(w.Len()))
}

// CheckWordlist returns ErrWeakWordlist if w cannot reach MinPhraseEntropyBits.
func CheckWordlist(w Wordlist) error {
	if bits := PhraseEntropyBits(w); bits < MinPhraseEntropyBits {
		return fmt.Errorf("%w: %.1f bits, need %d", ErrWeakWordlist, bits, MinPhraseEntropyBits)
	}
	return nil
}
