package script

import (
	"errors"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/pkg/hash"
)

// errScriptFailure marks a script that failed to evaluate (stack
// underflow, unimplemented opcode, a falsy OP_VERIFY/OP_EQUALVERIFY).
// Evaluate turns it into (false, nil): script evaluation failure
// yields false rather than a Go error. Only genuine caller
// misconfiguration (no SignatureChecker wired) still surfaces as an
// error.
var errScriptFailure = errors.New("script evaluation failed")

// SignatureChecker verifies a CHECKSIG op's (signature, pubkey) pair
// against whatever sighash the calling transaction context computes.
// script stays independent of pkg/tx by taking this as an interface;
// the transient-copy sighash computation itself lives in pkg/tx.
type SignatureChecker interface {
	CheckSig(sigWithType, pubKey []byte) bool
}

// Engine executes a concatenated scriptSig+scriptPubKey stream over a
// single byte-string stack.
type Engine struct {
	stack   [][]byte
	checker SignatureChecker
}

// NewEngine builds an Engine that will consult checker for
// OP_CHECKSIG.
func NewEngine(checker SignatureChecker) *Engine {
	return &Engine{checker: checker}
}

// Evaluate concatenates scriptSig with scriptPubKey and executes the
// combined command stream. It returns true iff the stack is non-empty
// and its top element is truthy after every command has run.
func (e *Engine) Evaluate(scriptSig, scriptPubKey Script) (bool, error) {
	combined := append(append(Script{}, scriptSig...), scriptPubKey...)

	for _, cmd := range combined {
		if cmd.isPush() {
			e.push(cmd.Data)
			continue
		}
		if err := e.execute(cmd.Op); err != nil {
			if errors.Is(err, errScriptFailure) {
				return false, nil
			}
			return false, err
		}
	}

	if len(e.stack) == 0 {
		return false, nil
	}
	return isTruthy(e.top()), nil
}

func (e *Engine) push(b []byte) { e.stack = append(e.stack, b) }

func (e *Engine) top() []byte { return e.stack[len(e.stack)-1] }

func (e *Engine) pop() ([]byte, error) {
	if len(e.stack) == 0 {
		return nil, errScriptFailure
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v, nil
}

// isTruthy reproduces Bitcoin Script's CastToBool: any nonzero byte
// makes the value true, except a single trailing 0x80 (negative
// zero), which is still false.
func isTruthy(b []byte) bool {
	for i, v := range b {
		if v == 0 {
			continue
		}
		if i == len(b)-1 && v == 0x80 {
			return false
		}
		return true
	}
	return false
}

func (e *Engine) execute(op byte) error {
	switch {
	case op == OP_0:
		e.push([]byte{})
		return nil

	case op >= OP_1 && op <= OP_16:
		e.push([]byte{op - OP_1 + 1})
		return nil

	case op == OP_DUP:
		if len(e.stack) < 1 {
			return errScriptFailure
		}
		top := e.top()
		e.push(append([]byte{}, top...))
		return nil

	case op == OP_HASH160:
		v, err := e.pop()
		if err != nil {
			return err
		}
		h := hash.Sum160(v)
		e.push(h[:])
		return nil

	case op == OP_EQUAL:
		b, err := e.pop()
		if err != nil {
			return err
		}
		a, err := e.pop()
		if err != nil {
			return err
		}
		if bytesEqual(a, b) {
			e.push([]byte{1})
		} else {
			e.push([]byte{})
		}
		return nil

	case op == OP_EQUALVERIFY:
		if err := e.execute(OP_EQUAL); err != nil {
			return err
		}
		return e.execute(OP_VERIFY)

	case op == OP_VERIFY:
		v, err := e.pop()
		if err != nil {
			return err
		}
		if !isTruthy(v) {
			return errScriptFailure
		}
		return nil

	case op == OP_CHECKSIG:
		pubKey, err := e.pop()
		if err != nil {
			return err
		}
		sig, err := e.pop()
		if err != nil {
			return err
		}
		if e.checker == nil {
			return bterrors.Newf(bterrors.Invariant, "OP_CHECKSIG", "no signature checker configured")
		}
		if e.checker.CheckSig(sig, pubKey) {
			e.push([]byte{1})
		} else {
			e.push([]byte{})
		}
		return nil

	default:
		return errScriptFailure
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
