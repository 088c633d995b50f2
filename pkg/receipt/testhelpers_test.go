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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testIdentity is one participant in a fake ledger: a P-256 key pair and a
// certificate, optionally signed by a parent identity.
type testIdentity struct {
	key  *ecdsa.PrivateKey
	cert *x509.Certificate
	pem  string
}

func newTestIdentity(t *testing.T, commonName string, isCA bool, parent *testIdentity) *testIdentity {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	if isCA {
		template.IsCA = true
		template.KeyUsage |= x509.KeyUsageCertSign
	}

	signerCert, signerKey := template, key
	if parent != nil {
		signerCert, signerKey = parent.cert, parent.key
	}
	der, err := x509.CreateCertificate(rand.Reader, template, signerCert, &key.PublicKey, signerKey)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	return &testIdentity{key: key, cert: cert, pem: string(pemBytes)}
}

// newTestChain builds a service root, the requested number of intermediate
// endorsers, and a node identity signed at the bottom of the chain. The
// returned endorsement PEMs are in receipt order, bottom-to-top: the first
// entry endorses the node, the last is endorsed by the service certificate.
func newTestChain(t *testing.T, intermediates int) (service, node *testIdentity, endorsements []string) {
	t.Helper()

	service = newTestIdentity(t, "test ledger service", true, nil)
	parent := service
	chain := make([]*testIdentity, 0, intermediates)
	for i := intermediates; i >= 1; i-- {
		endorser := newTestIdentity(t, fmt.Sprintf("test endorser %d", i), true, parent)
		chain = append(chain, endorser)
		parent = endorser
	}
	node = newTestIdentity(t, "test ledger node", false, parent)

	endorsements = []string{}
	for i := len(chain) - 1; i >= 0; i-- {
		endorsements = append(endorsements, chain[i].pem)
	}
	return service, node, endorsements
}

func hexDigestOf(data string) string {
	d := sha256.Sum256([]byte(data))
	return hex.EncodeToString(d[:])
}

func strptr(s string) *string {
	return &s
}

func nodeID(t *testing.T, node *testIdentity) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(&node.key.PublicKey)
	require.NoError(t, err)
	d := sha256.Sum256(der)
	return hex.EncodeToString(d[:])
}

// buildTestReceipt assembles an honestly generated receipt: consistent leaf
// components, a three-element proof, and the node's signature over the
// recomputed root.
func buildTestReceipt(t *testing.T, node *testIdentity, endorsements []string) *Receipt {
	t.Helper()

	components := LeafComponents{
		ClaimsDigest:   hexDigestOf("test claims"),
		CommitEvidence: "ce:2.35:b113c35f393fa90a5ff68e5c2b01f5b5cdbf7c1a4cc85e3a2196fa5c9dc96e75",
		WriteSetDigest: hexDigestOf("test write set"),
	}
	leaf, err := ComputeLeafHash(components)
	require.NoError(t, err)

	proof := []ProofElement{
		{Left: strptr(hexDigestOf("sibling 0"))},
		{Right: strptr(hexDigestOf("sibling 1"))},
		{Left: strptr(hexDigestOf("sibling 2"))},
	}
	root, err := ComputeRootHash(leaf, proof)
	require.NoError(t, err)

	sig, err := ecdsa.SignASN1(rand.Reader, node.key, root)
	require.NoError(t, err)

	return &Receipt{
		Cert:                node.pem,
		LeafComponents:      components,
		NodeID:              nodeID(t, node),
		Proof:               proof,
		ServiceEndorsements: endorsements,
		Signature:           base64.StdEncoding.EncodeToString(sig),
	}
}
