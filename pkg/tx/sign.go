package tx

import (
	"github.com/karpathy/cryptos/pkg/ecdsa"
	"github.com/karpathy/cryptos/pkg/keys"
	"github.com/karpathy/cryptos/pkg/script"
)

// SignInput builds a P2PKH script_sig for input i and installs it on
// t, using pk to sign the legacy SIGHASH_ALL digest over
// fundingScriptPubKey. This is the inverse of Validate's per-input
// check: every signer needs it to produce the script_sig that
// Validate later consumes.
func (t *Transaction) SignInput(i int, pk *keys.PrivateKey, fundingScriptPubKey script.Script) error {
	z, err := Sighash(t, i, fundingScriptPubKey)
	if err != nil {
		return err
	}

	sig, err := ecdsa.Sign(pk, z)
	if err != nil {
		return err
	}

	der := sig.Serialize()
	sigWithType := append(der, byte(SighashAll))

	pub, err := pk.PublicKey()
	if err != nil {
		return err
	}
	pubKeySEC := pub.SECCompressed()

	t.TxIns[i].ScriptSig = script.Script{
		script.DataPush(sigWithType),
		script.DataPush(pubKeySEC),
	}
	return nil
}
