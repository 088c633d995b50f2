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
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// Application-claim kinds and protocols understood by this package.
const (
	// LedgerEntryClaimKind marks a claim carrying the full ledger-entry
	// contents plus the secret key needed to recompute its commitments.
	LedgerEntryClaimKind = "LedgerEntry"

	// ClaimDigestClaimKind marks a claim carrying only a precomputed digest.
	ClaimDigestClaimKind = "ClaimDigest"

	// LedgerEntryV1ClaimProtocol is the only ledger-entry claim protocol the
	// ledger currently emits.
	LedgerEntryV1ClaimProtocol = "LedgerEntryV1"
)

// LedgerEntryClaim is an application claim disclosing a ledger entry's
// collection id and contents together with the base64-encoded secret key
// that keyed their commitments.
type LedgerEntryClaim struct {
	Protocol     string `json:"protocol"`
	CollectionID string `json:"collectionId"`
	Contents     string `json:"contents"`
	SecretKey    string `json:"secretKey"`
}

// ClaimDigest is an application claim disclosing only the hex-encoded digest
// of an undisclosed claim.
type ClaimDigest struct {
	Protocol string `json:"protocol"`
	Value    string `json:"value"`
}

// ApplicationClaim is one claim attached to a write transaction. Exactly one
// of LedgerEntry or Digest is set, according to Kind.
type ApplicationClaim struct {
	Kind        string            `json:"kind"`
	LedgerEntry *LedgerEntryClaim `json:"ledgerEntry,omitempty"`
	Digest      *ClaimDigest      `json:"digest,omitempty"`
}

// hmacSHA256 is the commitment function for disclosed ledger-entry fields.
func hmacSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}

// ledgerEntryClaimDigest recomputes the digest of a disclosed ledger-entry
// claim: HMAC-SHA256 commitments of the collection id and contents, keyed by
// the claim's secret key, hashed together under the protocol label.
func ledgerEntryClaimDigest(claim *LedgerEntryClaim) ([]byte, error) {
	if claim.Protocol != LedgerEntryV1ClaimProtocol {
		return nil, fmt.Errorf("unsupported ledger entry claim protocol %q", claim.Protocol)
	}
	secretKey, err := base64.StdEncoding.DecodeString(claim.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("decoding claim secret key: %w", err)
	}

	collectionCommitment := hmacSHA256(secretKey, []byte(claim.CollectionID))
	contentsCommitment := hmacSHA256(secretKey, []byte(claim.Contents))

	h := sha256.New()
	h.Write([]byte(claim.Protocol))
	h.Write(collectionCommitment)
	h.Write(contentsCommitment)
	return h.Sum(nil), nil
}

// claimDigestClaimDigest recomputes the digest of an undisclosed claim from
// its precomputed value under the protocol label.
func claimDigestClaimDigest(claim *ClaimDigest) ([]byte, error) {
	value, err := hex.DecodeString(claim.Value)
	if err != nil {
		return nil, fmt.Errorf("decoding claim digest value: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(claim.Protocol))
	h.Write(value)
	return h.Sum(nil), nil
}

// ComputeClaimsDigest recomputes the claims digest committed in a receipt's
// leaf components: the SHA-256 digest of the claim count (little-endian
// uint32) followed by each claim's digest in order.
func ComputeClaimsDigest(claims []ApplicationClaim) ([]byte, error) {
	h := sha256.New()
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(claims))) //nolint:gosec // claim counts are tiny
	h.Write(count[:])

	for i, claim := range claims {
		var digest []byte
		var err error
		switch claim.Kind {
		case LedgerEntryClaimKind:
			if claim.LedgerEntry == nil {
				err = errors.New("ledger entry claim has no ledger entry")
			} else {
				digest, err = ledgerEntryClaimDigest(claim.LedgerEntry)
			}
		case ClaimDigestClaimKind:
			if claim.Digest == nil {
				err = errors.New("claim digest claim has no digest")
			} else {
				digest, err = claimDigestClaimDigest(claim.Digest)
			}
		default:
			err = fmt.Errorf("unsupported claim kind %q", claim.Kind)
		}
		if err != nil {
			return nil, &ClaimsDigestComputationError{Index: i, Err: err}
		}
		h.Write(digest)
	}

	return h.Sum(nil), nil
}

// VerifyApplicationClaims checks that the given application claims are the
// ones the receipt's leaf committed to, by recomputing their digest and
// comparing it to the receipt's claims digest. It does not verify the
// receipt itself; callers run VerifyReceipt first.
func VerifyApplicationClaims(claims []ApplicationClaim, r *Receipt) error {
	computed, err := ComputeClaimsDigest(claims)
	if err != nil {
		return err
	}

	committed, err := decodeDigest(r.LeafComponents.ClaimsDigest)
	if err != nil {
		return &ClaimsDigestComputationError{Index: -1, Err: fmt.Errorf("decoding receipt claims digest: %w", err)}
	}

	if !bytes.Equal(computed, committed) {
		return &ClaimsDigestComputationError{
			Index: -1,
			Err:   fmt.Errorf("claims digest %s does not match receipt claims digest %s", hex.EncodeToString(computed), r.LeafComponents.ClaimsDigest),
		}
	}
	return nil
}
