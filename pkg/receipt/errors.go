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

import "fmt"

// VerificationError is the single error type returned by VerifyReceipt. It
// names the receipt and trusted certificate involved and wraps the specific
// failure, so callers distinguish failure kinds with errors.As on the cause.
// Every cause is terminal: receipts never become valid on retry.
type VerificationError struct {
	// NodeID is the receipt's claimed signing-node identity.
	NodeID string

	// TrustedSubject is the subject of the trusted service certificate, or
	// empty if it could not be parsed.
	TrustedSubject string

	Err error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verifying receipt from node %q against service certificate %q: %v", e.NodeID, e.TrustedSubject, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// UnsupportedReceiptKindError is returned for signature-transaction
// receipts, which use a verification scheme this package does not implement.
type UnsupportedReceiptKindError struct{}

func (e *UnsupportedReceiptKindError) Error() string {
	return "signature-transaction receipts are not supported"
}

// CertificateParseError is returned when a PEM string does not decode to
// exactly one X.509 certificate carrying an elliptic-curve public key.
type CertificateParseError struct {
	Err error
}

func (e *CertificateParseError) Error() string {
	return fmt.Sprintf("parsing certificate: %v", e.Err)
}

func (e *CertificateParseError) Unwrap() error {
	return e.Err
}

// EndorsementVerificationError is returned when the endorsement chain fails
// to bind the signing node's certificate to the trusted service certificate,
// or when the receipt carries no endorsement list at all.
type EndorsementVerificationError struct {
	// Certificate is the subject of the certificate whose embedded signature
	// failed to verify. Empty when the endorsement list itself is missing.
	Certificate string

	// Endorser is the subject of the certificate whose public key was used.
	Endorser string

	Err error
}

func (e *EndorsementVerificationError) Error() string {
	if e.Certificate == "" && e.Endorser == "" {
		return fmt.Sprintf("verifying service endorsements: %v", e.Err)
	}
	return fmt.Sprintf("verifying endorsement of %q by %q: %v", e.Certificate, e.Endorser, e.Err)
}

func (e *EndorsementVerificationError) Unwrap() error {
	return e.Err
}

// LeafComputationError is returned when the Merkle leaf cannot be recomputed
// from the receipt's leaf components.
type LeafComputationError struct {
	Components LeafComponents
	Err        error
}

func (e *LeafComputationError) Error() string {
	return fmt.Sprintf("computing leaf hash from components (commit evidence %q, write set digest %q, claims digest %q): %v",
		e.Components.CommitEvidence, e.Components.WriteSetDigest, e.Components.ClaimsDigest, e.Err)
}

func (e *LeafComputationError) Unwrap() error {
	return e.Err
}

// RootComputationError is returned when the Merkle root cannot be recomputed
// from the inclusion proof.
type RootComputationError struct {
	// Index is the position of the offending proof element.
	Index int

	Err error
}

func (e *RootComputationError) Error() string {
	return fmt.Sprintf("computing root hash at proof element %d: %v", e.Index, e.Err)
}

func (e *RootComputationError) Unwrap() error {
	return e.Err
}

// IdentityBindingError is returned when the receipt's node id does not match
// the digest of the signing certificate's public key. It means a valid
// signature could have been produced by a key other than the claimed one.
type IdentityBindingError struct {
	// NodeID is the receipt's claimed identity.
	NodeID string

	// PublicKeyDigest is the hex-encoded SHA-256 digest of the signing
	// certificate's public key in SubjectPublicKeyInfo DER form.
	PublicKeyDigest string
}

func (e *IdentityBindingError) Error() string {
	return fmt.Sprintf("node id %q does not match the signing certificate public key digest %q", e.NodeID, e.PublicKeyDigest)
}

// RootSignatureVerificationError is returned when the receipt's signature
// over the recomputed Merkle root fails ECDSA verification.
type RootSignatureVerificationError struct {
	Err error
}

func (e *RootSignatureVerificationError) Error() string {
	return fmt.Sprintf("verifying root signature: %v", e.Err)
}

func (e *RootSignatureVerificationError) Unwrap() error {
	return e.Err
}

// ClaimsDigestComputationError is returned when the digest of a receipt's
// application claims cannot be recomputed, or does not match the claims
// digest committed in the receipt's leaf components.
type ClaimsDigestComputationError struct {
	// Index is the position of the offending claim, or -1 when the failure
	// concerns the claim set as a whole.
	Index int

	Err error
}

func (e *ClaimsDigestComputationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("computing claims digest: %v", e.Err)
	}
	return fmt.Sprintf("computing digest of application claim %d: %v", e.Index, e.Err)
}

func (e *ClaimsDigestComputationError) Unwrap() error {
	return e.Err
}
