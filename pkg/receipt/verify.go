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
	"crypto"
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/sigstore/sigstore/pkg/signature"
	"github.com/sigstore/sigstore/pkg/signature/options"
)

// VerifyReceipt checks that a write-transaction receipt proves durable,
// tamper-evident commitment against the given trusted service certificate:
//
//  1. the receipt's node certificate parses and carries an EC key;
//  2. the endorsement chain binds that certificate to the trusted one;
//  3. the Merkle leaf recomputed from the leaf components, walked through
//     the inclusion proof, yields a root;
//  4. the claimed node id matches the digest of the node certificate's
//     public key; and
//  5. the node's signature over that root verifies.
//
// The checks run in order and fail fast; any failure is returned as a
// *VerificationError wrapping the specific cause. Success returns nil.
// VerifyReceipt is pure and safe for concurrent use.
func VerifyReceipt(r *Receipt, trustedServiceCertPEM string) error {
	fail := func(trusted *x509.Certificate, err error) error {
		subject := ""
		if trusted != nil {
			subject = trusted.Subject.String()
		}
		return &VerificationError{NodeID: r.NodeID, TrustedSubject: subject, Err: err}
	}

	if r.IsSignatureTransaction {
		return fail(nil, &UnsupportedReceiptKindError{})
	}

	trusted, err := ParseCertificate(trustedServiceCertPEM)
	if err != nil {
		return fail(nil, fmt.Errorf("trusted service certificate: %w", err))
	}

	node, err := ParseCertificate(r.Cert)
	if err != nil {
		return fail(trusted, err)
	}

	if err := VerifyEndorsements(node, r.ServiceEndorsements, trusted); err != nil {
		return fail(trusted, err)
	}

	leafHash, err := ComputeLeafHash(r.LeafComponents)
	if err != nil {
		return fail(trusted, err)
	}

	rootHash, err := ComputeRootHash(leafHash, r.Proof)
	if err != nil {
		return fail(trusted, err)
	}

	if err := verifyNodeIdentity(node, r.NodeID); err != nil {
		return fail(trusted, err)
	}

	if err := verifyRootSignature(node, r.Signature, rootHash); err != nil {
		return fail(trusted, err)
	}

	return nil
}

// verifyNodeIdentity binds the receipt's claimed node id to the signing
// certificate: the id must be the SHA-256 digest of the certificate's public
// key in SubjectPublicKeyInfo DER form. Without this check a receipt signed
// by any endorsed key would pass as if it came from the claimed node.
func verifyNodeIdentity(node *x509.Certificate, nodeID string) error {
	der, err := x509.MarshalPKIXPublicKey(node.PublicKey)
	if err != nil {
		return &CertificateParseError{Err: fmt.Errorf("marshaling node public key: %w", err)}
	}
	digest := sha256.Sum256(der)

	claimed, err := hex.DecodeString(nodeID)
	if err != nil || !bytes.Equal(claimed, digest[:]) {
		return &IdentityBindingError{NodeID: nodeID, PublicKeyDigest: hex.EncodeToString(digest[:])}
	}
	return nil
}

// verifyRootSignature checks the node's ECDSA signature over the recomputed
// Merkle root. The root is the signed digest itself (SHA-256 prehash), not a
// message to be hashed again.
func verifyRootSignature(node *x509.Certificate, signatureB64 string, rootHash []byte) error {
	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return &RootSignatureVerificationError{Err: fmt.Errorf("decoding signature: %w", err)}
	}

	pub, ok := node.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return &RootSignatureVerificationError{Err: fmt.Errorf("node certificate %q does not carry an elliptic-curve public key", node.Subject)}
	}
	verifier, err := signature.LoadECDSAVerifier(pub, crypto.SHA256)
	if err != nil {
		return &RootSignatureVerificationError{Err: err}
	}

	if err := verifier.VerifySignature(bytes.NewReader(sig), nil, options.WithDigest(rootHash)); err != nil {
		return &RootSignatureVerificationError{Err: err}
	}
	return nil
}
