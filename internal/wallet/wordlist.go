package wallet

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/text/unicode/norm"
)

// WordlistSize is the number of words in a BIP-39 wordlist.
const WordlistSize = 2048

// DefaultLanguage is the wordlist used when none is configured.
const DefaultLanguage = "english"

// Wordlist is an ordered BIP-39 wordlist. A word's position is its 11-bit
// value. Words are stored NFKD-normalized.
type Wordlist struct {
	words []string
	index map[string]int
}

// NewWordlist builds a wordlist from exactly 2048 unique, non-empty words.
func NewWordlist(words []string) (*Wordlist, error) {
	if len(words) != WordlistSize {
		return nil, fmt.Errorf("%w: %d words, want %d", ErrInvalidWordlist, len(words), WordlistSize)
	}
	wl := &Wordlist{
		words: make([]string, WordlistSize),
		index: make(map[string]int, WordlistSize),
	}
	for i, w := range words {
		w = normalizeWord(w)
		if w == "" || strings.ContainsAny(w, " \t\r\n") {
			return nil, fmt.Errorf("%w: bad word at position %d", ErrInvalidWordlist, i)
		}
		if _, dup := wl.index[w]; dup {
			return nil, fmt.Errorf("%w: duplicate word %q", ErrInvalidWordlist, w)
		}
		wl.words[i] = w
		wl.index[w] = i
	}
	return wl, nil
}

// Word returns the word for an 11-bit value.
func (wl *Wordlist) Word(i int) string {
	return wl.words[i]
}

// Index returns the position of word in the list.
func (wl *Wordlist) Index(word string) (int, bool) {
	i, ok := wl.index[normalizeWord(word)]
	return i, ok
}

// Len returns the number of words.
func (wl *Wordlist) Len() int {
	return len(wl.words)
}

func normalizeWord(w string) string {
	return norm.NFKD.String(strings.ToLower(strings.TrimSpace(w)))
}

var builtinWordlists = map[string][]string{
	"english":             wordlists.English,
	"spanish":             wordlists.Spanish,
	"french":              wordlists.French,
	"italian":             wordlists.Italian,
	"japanese":            wordlists.Japanese,
	"korean":              wordlists.Korean,
	"chinese_simplified":  wordlists.ChineseSimplified,
	"chinese_traditional": wordlists.ChineseTraditional,
}

var (
	wordlistMu    sync.Mutex
	wordlistCache = make(map[string]*Wordlist)
)

// English returns the default English wordlist.
func English() *Wordlist {
	wl, err := WordlistByName(DefaultLanguage)
	if err != nil {
		panic(err)
	}
	return wl
}

// WordlistByName returns a built-in wordlist by language name.
func WordlistByName(name string) (*Wordlist, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultLanguage
	}

	wordlistMu.Lock()
	defer wordlistMu.Unlock()

	if wl, ok := wordlistCache[name]; ok {
		return wl, nil
	}
	words, ok := builtinWordlists[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown language %q (available: %s)",
			ErrInvalidWordlist, name, strings.Join(Languages(), ", "))
	}
	wl, err := NewWordlist(words)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	wordlistCache[name] = wl
	return wl, nil
}

// Languages returns the names of the built-in wordlists, sorted.
func Languages() []string {
	names := make([]string, 0, len(builtinWordlists))
	for name := range builtinWordlists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadWordlist reads a wordlist file with one word per line.
// Blank lines are ignored.
func LoadWordlist(path string) (*Wordlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if w := strings.TrimSpace(scanner.Text()); w != "" {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read wordlist: %w", err)
	}
	return NewWordlist(words)
}
