package pac

import (
	"sort"

	"feather-nrf52840/errcode"
)

// Token is exclusive access to one peripheral block. Holding a live token is
// the only proof of access; Move hands it on and leaves the old value stale.
type Token struct {
	c   *cell
	gen uint32
}

// cell is shared by every value ever moved from the same minted token.
type cell struct {
	id  ID
	bk  Backend
	gen uint32
}

func mint(id ID, bk Backend) *Token {
	return &Token{c: &cell{id: id, bk: bk}}
}

func (t *Token) live() bool { return t != nil && t.c != nil && t.gen == t.c.gen }

func (t *Token) check(op string) {
	if !t.live() {
		panic(errcode.New(errcode.TokenConsumed, op, t.name()))
	}
}

func (t *Token) name() string {
	if t == nil || t.c == nil {
		return "<nil>"
	}
	return t.c.id.String()
}

// ID returns the block identity. It stays readable on stale tokens.
func (t *Token) ID() ID { return t.c.id }

func (t *Token) String() string { return t.name() }

// Live reports whether t is the current owner of its block.
func (t *Token) Live() bool { return t.live() }

// Backend returns the register model this token grants access to.
func (t *Token) Backend() Backend {
	t.check("pac.Token.Backend")
	return t.c.bk
}

// Move transfers ownership to the returned token; t is unusable afterwards.
func (t *Token) Move() *Token {
	t.check("pac.Token.Move")
	t.c.gen++
	return &Token{c: t.c, gen: t.c.gen}
}

// ---- Token sets ----

// Set is a keyed collection of tokens. Take removes a token, so a block held
// in a Set is never also held elsewhere.
type Set struct {
	m map[ID]*Token
}

func newSet(ids []ID, bk Backend) *Set {
	s := &Set{m: make(map[ID]*Token, len(ids))}
	for _, id := range ids {
		s.m[id] = mint(id, bk)
	}
	return s
}

// Take removes and returns the token for id.
func (s *Set) Take(id ID) (*Token, bool) {
	t, ok := s.m[id]
	if !ok {
		return nil, false
	}
	delete(s.m, id)
	return t.Move(), true
}

// MustTake is Take for identities the caller knows are present.
func (s *Set) MustTake(id ID) *Token {
	t, ok := s.Take(id)
	if !ok {
		panic(errcode.New(errcode.PeripheralsTaken, "pac.Set.MustTake", id.String()))
	}
	return t
}

// Has reports whether id is still held by s.
func (s *Set) Has(id ID) bool { _, ok := s.m[id]; return ok }

// Len returns the number of held tokens.
func (s *Set) Len() int { return len(s.m) }

// IDs returns the held identities in PAC order.
func (s *Set) IDs() []ID {
	out := make([]ID, 0, len(s.m))
	for id := range s.m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
