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
)

var (
	ro = &options.RootOptions{}
)

// New builds the ledgersig root command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "ledgersig",
		Short:             "Verify confidential-ledger write receipts",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	ro.AddFlags(cmd)

	// Add sub-commands.
	addVerify(cmd)
	addVersion(cmd)

	return cmd
}
