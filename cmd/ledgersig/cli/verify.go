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

package cli

import (
	"github.com/spf13/cobra"

	"github.com/ledgersig/ledgersig/cmd/ledgersig/cli/options"
	"github.com/ledgersig/ledgersig/cmd/ledgersig/cli/verify"
)

func addVerify(topLevel *cobra.Command) {
	o := &options.VerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a write-transaction receipt against a trusted service certificate",
		Long: `Verify that a write-transaction receipt cryptographically proves the
transaction was committed to the ledger: the Merkle inclusion proof, the
signing node's signature over the Merkle root, and the endorsement chain
binding the node to the trusted service certificate must all check out.

Application claims embedded in a transaction-receipt envelope, or supplied
with --claims, are additionally checked against the claims digest the
receipt's Merkle leaf commits to.`,
		Example: `  # verify a receipt fetched from the ledger
  ledgersig verify --receipt receipt.json --service-certificate service_cert.pem

  # additionally check separately held application claims
  ledgersig verify --receipt receipt.json --service-certificate service_cert.pem --claims claims.json

  # machine-readable result
  ledgersig verify --receipt receipt.json --service-certificate service_cert.pem -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := &verify.ReceiptCommand{
				ReceiptRef:            o.Receipt,
				ServiceCertificateRef: o.ServiceCertificate,
				ClaimsRef:             o.Claims,
				Output:                o.Output,
			}
			return v.Exec(cmd.Context())
		},
	}

	o.AddFlags(cmd)
	topLevel.AddCommand(cmd)
}
