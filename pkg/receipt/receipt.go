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

// Package receipt verifies write-transaction receipts issued by a
// tamper-evident confidential ledger. A receipt proves that a transaction
// was durably committed: it carries the components of the transaction's
// Merkle leaf, the sibling hashes needed to recompute the Merkle root, an
// ECDSA signature over that root produced by one of the ledger's nodes, and
// a chain of endorsement certificates binding the signing node to the
// service identity the caller already trusts.
package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
)

// LeafComponents are the three preimage pieces hashed together to form the
// Merkle leaf of a single write transaction.
type LeafComponents struct {
	// ClaimsDigest is the hex-encoded SHA-256 digest of the application
	// claims attached to the transaction.
	ClaimsDigest string `json:"claimsDigest"`

	// CommitEvidence is an opaque per-transaction commit-evidence string.
	CommitEvidence string `json:"commitEvidence"`

	// WriteSetDigest is the hex-encoded SHA-256 digest of the transaction's
	// write set.
	WriteSetDigest string `json:"writeSetDigest"`
}

// ProofElement is one step of a Merkle inclusion proof. Exactly one of Left
// or Right is set: the sibling hash sits on that side of the running hash
// when the two are concatenated to form the parent node.
type ProofElement struct {
	Left  *string `json:"left,omitempty"`
	Right *string `json:"right,omitempty"`
}

// Receipt is a write-transaction receipt as returned by the ledger service.
// It is an immutable value object; verification never modifies it.
type Receipt struct {
	// Cert is the PEM-encoded X.509 certificate of the node that signed the
	// receipt.
	Cert string `json:"cert"`

	// LeafComponents are hashed to recompute the transaction's Merkle leaf.
	LeafComponents LeafComponents `json:"leafComponents"`

	// NodeID is the hex-encoded SHA-256 digest of the signing node's public
	// key in SubjectPublicKeyInfo DER form.
	NodeID string `json:"nodeId"`

	// Proof holds the sibling hashes from the leaf up to the root, in
	// bottom-to-top order.
	Proof []ProofElement `json:"proof"`

	// ServiceEndorsements is the ordered chain of PEM-encoded intermediate
	// certificates between the signing node's certificate and the trusted
	// service certificate. An empty, non-nil slice means the service
	// certificate endorses the node directly; a nil slice is a malformed
	// receipt.
	ServiceEndorsements []string `json:"serviceEndorsements"`

	// Signature is the base64-encoded ECDSA signature over the Merkle root,
	// produced with the signing node's private key.
	Signature string `json:"signature"`

	// IsSignatureTransaction marks receipts for signature transactions,
	// which use a different verification scheme and are not supported.
	IsSignatureTransaction bool `json:"isSignatureTransaction,omitempty"`
}

// TransactionReceipt is the envelope the ledger service wraps receipts in
// when they are fetched per transaction.
type TransactionReceipt struct {
	Receipt           *Receipt           `json:"receipt"`
	State             string             `json:"state,omitempty"`
	TransactionID     string             `json:"transactionId,omitempty"`
	ApplicationClaims []ApplicationClaim `json:"applicationClaims,omitempty"`
}

// ParseReceipt decodes raw JSON into a TransactionReceipt. It accepts either
// the service's transaction-receipt envelope or a bare receipt object, which
// it wraps into an envelope with no transaction metadata.
func ParseReceipt(raw []byte) (*TransactionReceipt, error) {
	var tr TransactionReceipt
	if err := json.Unmarshal(raw, &tr); err != nil {
		return nil, fmt.Errorf("unmarshaling receipt: %w", err)
	}
	if tr.Receipt != nil {
		return &tr, nil
	}

	var r Receipt
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("unmarshaling receipt: %w", err)
	}
	if r.Cert == "" && r.Signature == "" {
		return nil, errors.New("unmarshaling receipt: document contains neither a receipt envelope nor a bare receipt")
	}
	return &TransactionReceipt{Receipt: &r}, nil
}
