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
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// decodeDigest decodes a hex-encoded SHA-256 digest.
func decodeDigest(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != sha256.Size {
		return nil, fmt.Errorf("digest is %d bytes, expected %d", len(b), sha256.Size)
	}
	return b, nil
}

// ComputeLeafHash recomputes the Merkle leaf for a transaction from its leaf
// components. The leaf is the SHA-256 digest of the write-set digest, the
// SHA-256 digest of the commit evidence, and the claims digest, concatenated
// in exactly that order. The order matches the ledger's own leaf
// construction; changing it breaks verification for every receipt.
func ComputeLeafHash(components LeafComponents) ([]byte, error) {
	writeSetDigest, err := decodeDigest(components.WriteSetDigest)
	if err != nil {
		return nil, &LeafComputationError{Components: components, Err: fmt.Errorf("decoding write set digest: %w", err)}
	}
	claimsDigest, err := decodeDigest(components.ClaimsDigest)
	if err != nil {
		return nil, &LeafComputationError{Components: components, Err: fmt.Errorf("decoding claims digest: %w", err)}
	}
	commitEvidenceDigest := sha256.Sum256([]byte(components.CommitEvidence))

	h := sha256.New()
	h.Write(writeSetDigest)
	h.Write(commitEvidenceDigest[:])
	h.Write(claimsDigest)
	return h.Sum(nil), nil
}

// ComputeRootHash walks the inclusion proof from the given leaf hash up to
// the Merkle root. Each proof element carries the sibling hash for one level
// of the tree, with exactly one of left/right set to indicate which side of
// the concatenation the sibling occupies. The sibling side is part of what
// the root commits to, so a left sibling recorded as right (or vice versa)
// yields a different root.
func ComputeRootHash(leafHash []byte, proof []ProofElement) ([]byte, error) {
	if len(leafHash) != sha256.Size {
		return nil, &RootComputationError{Index: -1, Err: fmt.Errorf("leaf hash is %d bytes, expected %d", len(leafHash), sha256.Size)}
	}

	current := make([]byte, len(leafHash))
	copy(current, leafHash)

	for i, element := range proof {
		if (element.Left == nil) == (element.Right == nil) {
			return nil, &RootComputationError{Index: i, Err: errors.New("proof element must set exactly one of left or right")}
		}

		h := sha256.New()
		switch {
		case element.Left != nil:
			sibling, err := decodeDigest(*element.Left)
			if err != nil {
				return nil, &RootComputationError{Index: i, Err: fmt.Errorf("decoding left sibling: %w", err)}
			}
			h.Write(sibling)
			h.Write(current)
		default:
			sibling, err := decodeDigest(*element.Right)
			if err != nil {
				return nil, &RootComputationError{Index: i, Err: fmt.Errorf("decoding right sibling: %w", err)}
			}
			h.Write(current)
			h.Write(sibling)
		}
		current = h.Sum(nil)
	}

	return current, nil
}
