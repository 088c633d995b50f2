//
// Copyright 2024 The Ledgersig Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package receipt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLedgerEntryClaim() ApplicationClaim {
	return ApplicationClaim{
		Kind: LedgerEntryClaimKind,
		LedgerEntry: &LedgerEntryClaim{
			Protocol:     LedgerEntryV1ClaimProtocol,
			CollectionID: "subledger:0",
			Contents:     "Hello world",
			SecretKey:    base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		},
	}
}

func TestComputeClaimsDigestLedgerEntry(t *testing.T) {
	claim := testLedgerEntryClaim()

	// Recompute the expected digest from first principles.
	secret, err := base64.StdEncoding.DecodeString(claim.LedgerEntry.SecretKey)
	require.NoError(t, err)
	collectionMAC := hmac.New(sha256.New, secret)
	collectionMAC.Write([]byte(claim.LedgerEntry.CollectionID))
	contentsMAC := hmac.New(sha256.New, secret)
	contentsMAC.Write([]byte(claim.LedgerEntry.Contents))

	inner := sha256.New()
	inner.Write([]byte(LedgerEntryV1ClaimProtocol))
	inner.Write(collectionMAC.Sum(nil))
	inner.Write(contentsMAC.Sum(nil))

	outer := sha256.New()
	outer.Write([]byte{1, 0, 0, 0})
	outer.Write(inner.Sum(nil))

	digest, err := ComputeClaimsDigest([]ApplicationClaim{claim})
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(outer.Sum(nil), digest))
}

func TestComputeClaimsDigestClaimDigestKind(t *testing.T) {
	value := sha256.Sum256([]byte("opaque claim"))
	claim := ApplicationClaim{
		Kind: ClaimDigestClaimKind,
		Digest: &ClaimDigest{
			Protocol: LedgerEntryV1ClaimProtocol,
			Value:    hex.EncodeToString(value[:]),
		},
	}

	inner := sha256.New()
	inner.Write([]byte(LedgerEntryV1ClaimProtocol))
	inner.Write(value[:])

	outer := sha256.New()
	outer.Write([]byte{1, 0, 0, 0})
	outer.Write(inner.Sum(nil))

	digest, err := ComputeClaimsDigest([]ApplicationClaim{claim})
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(outer.Sum(nil), digest))
}

func TestComputeClaimsDigestCountPrefix(t *testing.T) {
	claim := testLedgerEntryClaim()

	one, err := ComputeClaimsDigest([]ApplicationClaim{claim})
	require.NoError(t, err)
	two, err := ComputeClaimsDigest([]ApplicationClaim{claim, claim})
	require.NoError(t, err)
	assert.NotEqual(t, one, two)

	// The empty claim set still has a well-defined digest.
	empty, err := ComputeClaimsDigest(nil)
	require.NoError(t, err)
	want := sha256.Sum256([]byte{0, 0, 0, 0})
	assert.Equal(t, want[:], empty)
}

func TestComputeClaimsDigestSensitivity(t *testing.T) {
	baseline, err := ComputeClaimsDigest([]ApplicationClaim{testLedgerEntryClaim()})
	require.NoError(t, err)

	for name, mutate := range map[string]func(*LedgerEntryClaim){
		"collection id": func(c *LedgerEntryClaim) { c.CollectionID = "subledger:1" },
		"contents":      func(c *LedgerEntryClaim) { c.Contents = "Hello world!" },
		"secret key": func(c *LedgerEntryClaim) {
			c.SecretKey = base64.StdEncoding.EncodeToString([]byte("ffffffffffffffffffffffffffffffff"))
		},
	} {
		claim := testLedgerEntryClaim()
		mutate(claim.LedgerEntry)
		digest, err := ComputeClaimsDigest([]ApplicationClaim{claim})
		require.NoError(t, err)
		assert.NotEqual(t, baseline, digest, "mutating %s did not change the digest", name)
	}
}

func TestComputeClaimsDigestRejectsMalformedClaims(t *testing.T) {
	badProtocol := testLedgerEntryClaim()
	badProtocol.LedgerEntry.Protocol = "LedgerEntryV2"

	badSecret := testLedgerEntryClaim()
	badSecret.LedgerEntry.SecretKey = "%%%"

	for name, claims := range map[string][]ApplicationClaim{
		"unknown kind":         {{Kind: "Mystery"}},
		"missing ledger entry": {{Kind: LedgerEntryClaimKind}},
		"missing digest":       {{Kind: ClaimDigestClaimKind}},
		"unknown protocol":     {badProtocol},
		"bad secret key":       {badSecret},
		"bad digest value":     {{Kind: ClaimDigestClaimKind, Digest: &ClaimDigest{Protocol: LedgerEntryV1ClaimProtocol, Value: "zz"}}},
	} {
		_, err := ComputeClaimsDigest(claims)
		var claimsErr *ClaimsDigestComputationError
		require.ErrorAs(t, err, &claimsErr, "case %q", name)
		assert.Equal(t, 0, claimsErr.Index, "case %q", name)
	}
}

func TestVerifyApplicationClaims(t *testing.T) {
	claims := []ApplicationClaim{testLedgerEntryClaim()}
	digest, err := ComputeClaimsDigest(claims)
	require.NoError(t, err)

	r := &Receipt{LeafComponents: LeafComponents{ClaimsDigest: hex.EncodeToString(digest)}}
	require.NoError(t, VerifyApplicationClaims(claims, r))

	// A receipt committed to different claims must be rejected.
	r.LeafComponents.ClaimsDigest = hexDigestOf("other claims")
	err = VerifyApplicationClaims(claims, r)
	var claimsErr *ClaimsDigestComputationError
	require.ErrorAs(t, err, &claimsErr)
	assert.Equal(t, -1, claimsErr.Index)
}
