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

package options

import (
	"github.com/spf13/cobra"
)

// VerifyOptions is the top level wrapper for the `verify` command.
type VerifyOptions struct {
	Receipt            string
	ServiceCertificate string
	Claims             string
	Output             string
}

var _ Interface = (*VerifyOptions)(nil)

// AddFlags implements Interface
func (o *VerifyOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Receipt, "receipt", "",
		"path to the receipt JSON file, either a bare receipt or a transaction-receipt envelope")
	_ = cmd.MarkFlagRequired("receipt")
	_ = cmd.MarkFlagFilename("receipt", receiptExts...)

	cmd.Flags().StringVar(&o.ServiceCertificate, "service-certificate", "",
		"path to the PEM-encoded trusted service certificate, obtained over a separately trusted channel")
	_ = cmd.MarkFlagRequired("service-certificate")
	_ = cmd.MarkFlagFilename("service-certificate", certificateExts...)

	cmd.Flags().StringVar(&o.Claims, "claims", "",
		"path to a JSON file holding the application claims to check against the receipt's claims digest; "+
			"claims embedded in a transaction-receipt envelope are checked without this flag")
	_ = cmd.MarkFlagFilename("claims", receiptExts...)

	cmd.Flags().StringVarP(&o.Output, "output", "o", "text",
		"output format for the verification result (text|json)")
}
