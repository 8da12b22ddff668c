package symbol

// An ID identifies a string interned in a Table.  Two IDs taken from the
// same table are equal iff the strings they identify are equal.
type ID uint32

// None is the zero ID.  No interned string ever receives it, so it can be
// used to mark an absent qualifier on a symbol.
const None ID = 0
