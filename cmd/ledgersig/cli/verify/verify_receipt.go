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

package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledgersig/ledgersig/cmd/ledgersig/cli/options"
	"github.com/ledgersig/ledgersig/internal/ui"
	"github.com/ledgersig/ledgersig/pkg/receipt"
)

// ReceiptCommand verifies a write-transaction receipt held in a local file
// against a trusted service certificate.
type ReceiptCommand struct {
	ReceiptRef            string
	ServiceCertificateRef string
	ClaimsRef             string
	Output                string
}

// verificationResult is the machine-readable shape printed with -o json.
type verificationResult struct {
	Verified       bool   `json:"verified"`
	TransactionID  string `json:"transactionId,omitempty"`
	NodeID         string `json:"nodeId,omitempty"`
	ClaimsVerified bool   `json:"claimsVerified,omitempty"`
}

// Exec runs the verification. Verification failures are returned as errors;
// the caller treats any failure as "do not trust this receipt".
func (c *ReceiptCommand) Exec(ctx context.Context) error {
	if c.Output != "text" && c.Output != "json" {
		return &options.OutputFormatError{Format: c.Output}
	}

	raw, err := os.ReadFile(filepath.Clean(c.ReceiptRef))
	if err != nil {
		return fmt.Errorf("reading receipt: %w", err)
	}
	tr, err := receipt.ParseReceipt(raw)
	if err != nil {
		return err
	}

	servicePEM, err := os.ReadFile(filepath.Clean(c.ServiceCertificateRef))
	if err != nil {
		return fmt.Errorf("reading service certificate: %w", err)
	}

	claims := tr.ApplicationClaims
	if c.ClaimsRef != "" {
		rawClaims, err := os.ReadFile(filepath.Clean(c.ClaimsRef))
		if err != nil {
			return fmt.Errorf("reading application claims: %w", err)
		}
		if err := json.Unmarshal(rawClaims, &claims); err != nil {
			return fmt.Errorf("unmarshaling application claims: %w", err)
		}
	}

	if err := receipt.VerifyReceipt(tr.Receipt, string(servicePEM)); err != nil {
		return err
	}
	if len(claims) > 0 {
		if err := receipt.VerifyApplicationClaims(claims, tr.Receipt); err != nil {
			return err
		}
	}

	result := verificationResult{
		Verified:       true,
		TransactionID:  tr.TransactionID,
		NodeID:         tr.Receipt.NodeID,
		ClaimsVerified: len(claims) > 0,
	}
	if c.Output == "json" {
		out, err := json.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if result.TransactionID != "" {
		ui.Info(ctx, "Verified receipt for transaction %s", result.TransactionID)
	} else {
		ui.Info(ctx, "Verified receipt")
	}
	if result.ClaimsVerified {
		ui.Info(ctx, "Verified %d application claim(s) against the receipt claims digest", len(claims))
	}
	return nil
}
