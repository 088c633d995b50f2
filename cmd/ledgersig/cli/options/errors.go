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

import "fmt"

var receiptExts = []string{
	"json",
}

var certificateExts = []string{
	"cert",
	"crt",
	"pem",
}

// OutputFormatError is an error returned when an unknown output format
// is requested by the CLI.
type OutputFormatError struct {
	Format string
}

func (e *OutputFormatError) Error() string {
	return fmt.Sprintf("unsupported output format %q, expected one of: text, json", e.Format)
}
