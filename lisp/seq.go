package lisp

// Seq is a persistent sequence node.  A node is the canonical empty seq, a
// cons-like node with a head and tail, or an unforced lazy node holding a
// thunk and the context it was created in.  Forcing settles the node
// exactly once; a forced node drops its thunk.
type Seq struct {
	hd    *LVal
	tl    *Seq
	empty bool
	thunk *LVal
	env   *LEnv
	err   *LVal
}

var emptySeq = &Seq{empty: true}

// force settles an unforced node.  The thunk runs at most once; its result
// becomes the node's contents.  A thunk returning nil or an empty seq
// produces the empty node, a seq donates its head and tail, and any other
// value becomes a one-element seq.  Forcing failures are sticky.
func (s *Seq) force() *LVal {
	if s.err != nil {
		return s.err
	}
	if s.thunk == nil {
		return nil
	}
	r := s.env.FunCall(s.thunk, nil)
	s.thunk = nil
	s.env = nil
	if r.Type == LError {
		s.err = r
		return r
	}
	switch r.Type {
	case LNil:
		s.empty = true
	case LSeq:
		rs := r.Seq
		if lerr := rs.force(); lerr != nil {
			s.err = lerr
			return lerr
		}
		if rs.empty {
			s.empty = true
		} else {
			s.hd = rs.hd
			s.tl = rs.tl
		}
	default:
		s.hd = r
		s.tl = emptySeq
	}
	return nil
}

// IsEmpty forces s and reports whether it is the empty sequence.
func (s *Seq) IsEmpty() (bool, *LVal) {
	if lerr := s.force(); lerr != nil {
		return false, lerr
	}
	return s.empty, nil
}

// First forces s and returns its head, or nil for the empty sequence.
func (s *Seq) First() (*LVal, *LVal) {
	if lerr := s.force(); lerr != nil {
		return nil, lerr
	}
	if s.empty {
		return Nil(), nil
	}
	return s.hd, nil
}

// Rest forces s and returns its tail.  The tail of the empty sequence is
// the empty sequence.
func (s *Seq) Rest() (*Seq, *LVal) {
	if lerr := s.force(); lerr != nil {
		return nil, lerr
	}
	if s.empty {
		return emptySeq, nil
	}
	return s.tl, nil
}

// Slice forces the entire sequence and returns its elements.  Slice does
// not terminate on an infinite sequence.
func (s *Seq) Slice() ([]*LVal, *LVal) {
	var cells []*LVal
	for {
		empty, lerr := s.IsEmpty()
		if lerr != nil {
			return nil, lerr
		}
		if empty {
			return cells, nil
		}
		cells = append(cells, s.hd)
		s = s.tl
	}
}

// Len forces the entire sequence and returns its length.
func (s *Seq) Len() (int, *LVal) {
	n := 0
	for {
		empty, lerr := s.IsEmpty()
		if lerr != nil {
			return 0, lerr
		}
		if empty {
			return n, nil
		}
		n++
		s = s.tl
	}
}

// SeqIterator traverses a sequence or vector, forcing lazy nodes on
// demand.  Evaluation errors raised while forcing stop the iteration and
// are reported by Err.
type SeqIterator struct {
	seq   *Seq
	cells []*LVal
	pos   int
	v     *LVal
	err   *LVal
}

// NewSeqIterator returns an iterator over v, which must be a seq or a
// vector.
func NewSeqIterator(v *LVal) *SeqIterator {
	switch v.Type {
	case LSeq:
		return &SeqIterator{seq: v.Seq}
	case LVector:
		return &SeqIterator{cells: v.Cells}
	default:
		return &SeqIterator{err: Errorf(ErrInvalidArgument, "cannot iterate value of type %s", v.Type)}
	}
}

// Next advances the iterator.  It returns false at the end of the sequence
// or when forcing fails.
func (it *SeqIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.seq == nil {
		if it.pos >= len(it.cells) {
			return false
		}
		it.v = it.cells[it.pos]
		it.pos++
		return true
	}
	empty, lerr := it.seq.IsEmpty()
	if lerr != nil {
		it.err = lerr
		return false
	}
	if empty {
		return false
	}
	it.v = it.seq.hd
	it.seq = it.seq.tl
	return true
}

// Value returns the element produced by the last successful call to Next.
func (it *SeqIterator) Value() *LVal {
	return it.v
}

// Err returns the evaluation error that stopped the iteration, if any.
func (it *SeqIterator) Err() *LVal {
	return it.err
}
