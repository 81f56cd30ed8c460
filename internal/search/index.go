package search

import (
	"strconv"
	"sync"
	"time"

	"github.com/couchcryptid/birdband-service/internal/domain"
	"github.com/patrickmn/go-cache"
)

// DefaultLimit caps query results when no limit is given.
const DefaultLimit = 10

// Index is a token prefix trie over a corpus of entries. Rebuild replaces the
// whole corpus; queries never mutate it.
type Index struct {
	mu           sync.RWMutex
	entries      []Entry
	root         *node
	defaultLimit int
	memo         *cache.Cache
}

// node is a trie node. ids lists, in ascending order, the entries with a token
// passing through this node.
type node struct {
	children map[rune]*node
	ids      []int
}

func newNode() *node { return &node{children: make(map[rune]*node)} }

// NewIndex creates an empty index. A defaultLimit <= 0 uses [DefaultLimit].
// A positive memoTTL memoizes query results until the next Rebuild.
func NewIndex(defaultLimit int, memoTTL time.Duration) *Index {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	x := &Index{root: newNode(), defaultLimit: defaultLimit}
	if memoTTL > 0 {
		x.memo = cache.New(memoTTL, 0)
	}
	return x
}

// Rebuild replaces the corpus with entries built from sightings.
func (x *Index) Rebuild(sightings []*domain.Sighting) {
	entries := Build(sightings)
	root := newNode()
	for id, e := range entries {
		for _, tok := range Tokenize(e.Val) {
			root.insert(tok, id)
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = entries
	x.root = root
	if x.memo != nil {
		x.memo.Flush()
	}
}

func (n *node) insert(token string, id int) {
	cur := n
	for _, r := range token {
		next, ok := cur.children[r]
		if !ok {
			next = newNode()
			cur.children[r] = next
		}
		// an entry reaches a node once even if several of its tokens share it
		if k := len(next.ids); k == 0 || next.ids[k-1] != id {
			next.ids = append(next.ids, id)
		}
		cur = next
	}
}

func (n *node) lookup(prefix string) []int {
	cur := n
	for _, r := range prefix {
		next, ok := cur.children[r]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur.ids
}

// Query returns at most limit entries having, for every token of partial, a
// token with that prefix. Results keep corpus order. A limit <= 0 uses the
// index default; an empty or blank partial matches nothing.
func (x *Index) Query(partial string, limit int) []Entry {
	if limit <= 0 {
		limit = x.defaultLimit
	}
	tokens := Tokenize(partial)
	if len(tokens) == 0 {
		return nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	key := strconv.Itoa(limit) + "|" + partial
	if x.memo != nil {
		if cached, ok := x.memo.Get(key); ok {
			return cloneEntries(cached.([]Entry))
		}
	}

	ids := x.root.lookup(tokens[0])
	for _, tok := range tokens[1:] {
		if len(ids) == 0 {
			break
		}
		ids = intersect(ids, x.root.lookup(tok))
	}

	n := min(len(ids), limit)
	out := make([]Entry, n)
	for i := range n {
		out[i] = x.entries[ids[i]]
	}

	if x.memo != nil {
		x.memo.SetDefault(key, cloneEntries(out))
	}
	return out
}

// Len returns the number of entries in the corpus.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// intersect merges two ascending id lists.
func intersect(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func cloneEntries(in []Entry) []Entry {
	out := make([]Entry, len(in))
	copy(out, in)
	return out
}
