package tx

import (
	"context"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/pkg/ecdsa"
	"github.com/karpathy/cryptos/pkg/keys"
	"github.com/karpathy/cryptos/pkg/script"
)

// sigChecker adapts one (transaction, input index, funding
// script_pubkey) triple to script.SignatureChecker, computing the
// sighash OP_CHECKSIG needs without the VM itself knowing about
// transactions.
type sigChecker struct {
	tx                  *Transaction
	index               int
	fundingScriptPubKey script.Script
}

func (c *sigChecker) CheckSig(sigWithType, pubKeyBytes []byte) bool {
	if len(sigWithType) == 0 {
		return false
	}
	sighashType := sigWithType[len(sigWithType)-1]
	if uint32(sighashType) != SighashAll {
		return false
	}

	sig, err := ecdsa.ParseDER(sigWithType[:len(sigWithType)-1])
	if err != nil {
		return false
	}

	pub, err := keys.ParseSEC(pubKeyBytes)
	if err != nil {
		return false
	}

	z, err := Sighash(c.tx, c.index, c.fundingScriptPubKey)
	if err != nil {
		return false
	}

	return ecdsa.Verify(pub, z, sig)
}

// Validate checks every input of t against its funding output:
// fetch the prev tx, compute the sighash, and run the combined
// script_sig/script_pubkey stream, requiring a truthy result. This
// core supports P2PKH funding outputs only.
func (t *Transaction) Validate(ctx context.Context, fetcher Fetcher) error {
	const op = "tx.Validate"

	for i, in := range t.TxIns {
		prevTx, err := fetcher.Fetch(ctx, in.PrevTx)
		if err != nil {
			return err
		}
		if int(in.PrevIndex) >= len(prevTx.TxOuts) {
			return bterrors.Newf(bterrors.Parse, op, "input %d references out-of-range output %d", i, in.PrevIndex)
		}
		fundingScriptPubKey := prevTx.TxOuts[in.PrevIndex].ScriptPubKey

		checker := &sigChecker{tx: t, index: i, fundingScriptPubKey: fundingScriptPubKey}
		eng := script.NewEngine(checker)
		ok, err := eng.Evaluate(in.ScriptSig, fundingScriptPubKey)
		if err != nil {
			return err
		}
		if !ok {
			log.Warnf("input %d of %x failed script evaluation", i, t.ID())
			return bterrors.Newf(bterrors.Crypto, op, "input %d failed script evaluation", i)
		}
	}
	log.Debugf("validated transaction %x (%d inputs)", t.ID(), len(t.TxIns))
	return nil
}
