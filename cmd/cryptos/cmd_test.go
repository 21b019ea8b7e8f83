package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karpathy/cryptos/internal/bterrors"
)

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	rootCmd.SetArgs(args)
	if stdin != "" {
		rootCmd.SetIn(strings.NewReader(stdin))
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)

	// RunE writes with fmt.Println/Printf straight to the process's
	// real stdout rather than through cmd.OutOrStdout(), so redirect
	// os.Stdout for the duration of the call to capture it.
	r, w, err := os.Pipe()
	require.NoError(t, err)
	saved := os.Stdout
	os.Stdout = w

	execErr := rootCmd.Execute()

	os.Stdout = saved
	w.Close()
	var captured bytes.Buffer
	captured.ReadFrom(r)

	return captured.String(), execErr
}

func TestSha256CommandMatchesKnownVector(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sha256cmd")
	require.NoError(t, err)
	_, err = f.WriteString("some test file lol\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out, err := runCmd(t, "", "sha256", f.Name())
	require.NoError(t, err)
	require.Equal(t, "4a79aed64097a0cd9e87f1e88e9ad771ddb5c5d762b3c3bbf02adf3112d5d375\n", out)
}

func TestSha256CommandMissingFileIsIoError(t *testing.T) {
	_, err := runCmd(t, "", "sha256", "/no/such/path/ever")
	require.Error(t, err)
	var be *bterrors.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, bterrors.Io, be.Kind)
}

func TestPrivateKeyMasteringIsDeterministic(t *testing.T) {
	out1, err := runCmd(t, "", "private_key", "mastering")
	require.NoError(t, err)
	out2, err := runCmd(t, "", "private_key", "mastering")
	require.NoError(t, err)
	require.Equal(t, out1, out2)
	require.True(t, strings.HasPrefix(out1, "0x"))
}

func TestPrivateKeyUnknownModeIsParseError(t *testing.T) {
	_, err := runCmd(t, "", "private_key", "bogus")
	require.Error(t, err)
	var be *bterrors.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, bterrors.Parse, be.Kind)
}

func TestPublicKeyCommandPrintsMatchingCoordinates(t *testing.T) {
	out, err := runCmd(t, "", "public_key", masteringScalar)
	require.NoError(t, err)
	require.Contains(t, out, "X=")
	require.Contains(t, out, "Y=")
	require.Equal(t, "X=5C0DE3B9C8AB18DD04E3511243EC2952002DBFADC864B9628910169D9B9B00EC\n"+
		"Y=243BCEFDD4347074D44BD7356D6A53C495737DD96295E2A9374BF5F02EBFC176\n", out)
}

func TestPublicKeyCommandRejectsNonHex(t *testing.T) {
	_, err := runCmd(t, "", "public_key", "not-hex-zz")
	require.Error(t, err)
	var be *bterrors.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, bterrors.Parse, be.Kind)
}

func TestGetNewAddressMasteringMode(t *testing.T) {
	out, err := runCmd(t, "", "getnewaddress", "mastering")
	require.NoError(t, err)
	require.Equal(t, "14cxpo3MBCYYWCgF74SWTdcmxipnGUsPw3", strings.TrimSpace(out))
}

func TestWalkHeadersRejectsBadHashHex(t *testing.T) {
	_, err := runCmd(t, "", "walkheaders", "not-a-hash", "10")
	require.Error(t, err)
	var be *bterrors.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, bterrors.Parse, be.Kind)
}

func TestWalkHeadersRejectsBadDepth(t *testing.T) {
	validHash := strings.Repeat("00", 32)
	_, err := runCmd(t, "", "walkheaders", validHash, "not-a-number")
	require.Error(t, err)
	var be *bterrors.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, bterrors.Parse, be.Kind)
}

func TestExitCodeForMapsEveryKind(t *testing.T) {
	require.Equal(t, 1, exitCodeFor(bterrors.New(bterrors.Parse, "op", nil)))
	require.Equal(t, 2, exitCodeFor(bterrors.New(bterrors.Crypto, "op", nil)))
	require.Equal(t, 3, exitCodeFor(bterrors.New(bterrors.Protocol, "op", nil)))
	require.Equal(t, 4, exitCodeFor(bterrors.New(bterrors.Io, "op", nil)))
	require.Equal(t, 5, exitCodeFor(bterrors.New(bterrors.Invariant, "op", nil)))
	require.Equal(t, 1, exitCodeFor(errors.New("untyped")))
}
