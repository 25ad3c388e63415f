/*
Package intern implements a string interner for identifier spellings.

Every identifier the front-end touches is interned exactly once; the
resulting Name handles are cheap to copy, compare with ==, and usable as
map keys. Symbol tables key their lookup tables by Name, so two symbols
spell the same identifier iff their Names are equal.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package intern

import "hash/fnv"

// Name is an opaque handle for an interned identifier spelling. The zero
// Name is valid and denotes the absent name.
type Name struct {
	s string
}

// Raw returns the spelling behind a name handle.
func (n Name) Raw() string {
	return n.s
}

// IsZero is true for the absent name.
func (n Name) IsZero() bool {
	return n.s == ""
}

// Hash returns a stable FNV-1a hash of the spelling.
func (n Name) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(n.s))
	return h.Sum64()
}

func (n Name) String() string {
	return n.s
}

// Pool is a string interning pool. The zero value is not usable; create
// pools with NewPool.
type Pool struct {
	strings map[string]string
}

// NewPool creates an empty interning pool.
func NewPool() *Pool {
	return &Pool{strings: make(map[string]string, 512)}
}

// Intern puts a byte spelling into the pool and returns its handle.
// Interning the same spelling twice returns equal handles.
func (p *Pool) Intern(b []byte) Name {
	return p.InternString(string(b))
}

// InternString is Intern for a string spelling.
func (p *Pool) InternString(s string) Name {
	if s == "" {
		return Name{}
	}
	if is, ok := p.strings[s]; ok {
		return Name{s: is}
	}
	p.strings[s] = s
	return Name{s: s}
}

// Size counts the distinct spellings in the pool.
func (p *Pool) Size() int {
	return len(p.strings)
}
