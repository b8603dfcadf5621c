package umash

import "golang.org/x/xerrors"

// ErrReservoirExhausted is returned by Prepare's callers (via
// NewParamSetFromBytes / NewParamSetFromReader) when repairing a ParamSet
// demanded more entropy than its two-word reservoir could supply. This is
// the only failure mode spec.md §7 defines for the core.
var ErrReservoirExhausted = xerrors.New("umash: param set entropy reservoir exhausted during prepare")

// ErrShortRead is returned by NewParamSetFromReader when the supplied
// io.Reader could not produce a full seed buffer.
var ErrShortRead = xerrors.New("umash: short read while sourcing param set entropy")
