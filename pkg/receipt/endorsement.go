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
	_ "crypto/sha256" // for `crypto.SHA256`
	_ "crypto/sha512" // for `crypto.SHA384` and `crypto.SHA512`
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/sigstore/sigstore/pkg/cryptoutils"
	"github.com/sigstore/sigstore/pkg/signature"
	"github.com/sigstore/sigstore/pkg/signature/options"
)

// ParseCertificate parses a PEM string holding exactly one X.509 certificate
// with an elliptic-curve public key. Ledger nodes and service identities are
// always EC; any other key type indicates the wrong certificate was supplied.
func ParseCertificate(certPEM string) (*x509.Certificate, error) {
	certs, err := cryptoutils.UnmarshalCertificatesFromPEM([]byte(certPEM))
	if err != nil {
		return nil, &CertificateParseError{Err: err}
	}
	if len(certs) != 1 {
		return nil, &CertificateParseError{Err: fmt.Errorf("expected exactly one certificate, found %d", len(certs))}
	}
	cert := certs[0]
	if _, ok := cert.PublicKey.(*ecdsa.PublicKey); !ok {
		return nil, &CertificateParseError{Err: fmt.Errorf("certificate %q does not carry an elliptic-curve public key", cert.Subject)}
	}
	return cert, nil
}

// signatureHash maps a certificate's declared signature algorithm to the
// hash used over its TBS body.
func signatureHash(alg x509.SignatureAlgorithm) (crypto.Hash, error) {
	switch alg {
	case x509.ECDSAWithSHA256:
		return crypto.SHA256, nil
	case x509.ECDSAWithSHA384:
		return crypto.SHA384, nil
	case x509.ECDSAWithSHA512:
		return crypto.SHA512, nil
	default:
		return 0, fmt.Errorf("unsupported certificate signature algorithm %q", alg)
	}
}

// verifyEndorsement checks that endorser's public key validates the
// signature embedded in endorsed, over endorsed's TBS bytes, prehashed with
// the hash algorithm endorsed itself declares.
func verifyEndorsement(endorsed, endorser *x509.Certificate) error {
	hash, err := signatureHash(endorsed.SignatureAlgorithm)
	if err != nil {
		return err
	}

	pub, ok := endorser.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("endorser certificate %q does not carry an elliptic-curve public key", endorser.Subject)
	}
	verifier, err := signature.LoadECDSAVerifier(pub, hash)
	if err != nil {
		return fmt.Errorf("loading endorser verifier: %w", err)
	}

	hasher := hash.New()
	hasher.Write(endorsed.RawTBSCertificate)
	return verifier.VerifySignature(bytes.NewReader(endorsed.Signature), nil, options.WithDigest(hasher.Sum(nil)))
}

// VerifyEndorsements walks the endorsement chain from the signing node's
// certificate to the trusted service certificate. Every certificate in
// endorsements, and finally the trusted certificate, must validate the
// embedded signature of the certificate before it. An empty chain is valid
// (the service certificate endorses the node directly); a nil chain is a
// malformed receipt. The caller's slice is never modified.
func VerifyEndorsements(node *x509.Certificate, endorsements []string, trusted *x509.Certificate) error {
	if endorsements == nil {
		return &EndorsementVerificationError{Err: errors.New("service endorsements list is missing")}
	}

	chain := make([]*x509.Certificate, 0, len(endorsements)+1)
	for _, endorsementPEM := range endorsements {
		endorser, err := ParseCertificate(endorsementPEM)
		if err != nil {
			return err
		}
		chain = append(chain, endorser)
	}
	chain = append(chain, trusted)

	current := node
	for _, endorser := range chain {
		if err := verifyEndorsement(current, endorser); err != nil {
			return &EndorsementVerificationError{
				Certificate: current.Subject.String(),
				Endorser:    endorser.Subject.String(),
				Err:         err,
			}
		}
		current = endorser
	}
	return nil
}
