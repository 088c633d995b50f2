//
// Copyright 2024 The Ledgersig Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ui writes human-facing command output. Messages go to stderr so
// stdout stays reserved for machine-readable output; tests capture messages
// through a writer carried on the context.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// WriteFunc emits one already-formatted chunk of output.
type WriteFunc func(string)

type writerKey struct{}

func stderrWrite(s string) {
	fmt.Fprint(os.Stderr, s)
}

// WithWriter returns a context whose ui output goes through write instead of
// stderr.
func WithWriter(ctx context.Context, write WriteFunc) context.Context {
	return context.WithValue(ctx, writerKey{}, write)
}

func writerFrom(ctx context.Context) WriteFunc {
	if write, ok := ctx.Value(writerKey{}).(WriteFunc); ok {
		return write
	}
	return stderrWrite
}

// Info prints an informational message to the user.
func Info(ctx context.Context, msg string, a ...any) {
	writerFrom(ctx)(fmt.Sprintf(msg, a...) + "\n")
}

// Warn prints a warning message to the user.
func Warn(ctx context.Context, msg string, a ...any) {
	writerFrom(ctx)("WARNING: " + fmt.Sprintf(msg, a...) + "\n")
}

// RunWithTestCtx runs fn with a context that captures ui output and returns
// everything that was written.
func RunWithTestCtx(fn func(ctx context.Context, write WriteFunc)) string {
	var out strings.Builder
	write := func(s string) { out.WriteString(s) }
	fn(WithWriter(context.Background(), write), write)
	return out.String()
}
