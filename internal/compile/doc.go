// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package compile talks to the remote LaTeX compile service.
//
// The service accepts the primary document's full source and answers with
// either a rendered PDF or a JSON error carrying a readable message and the
// LaTeX log. Failures are never retried: a service failure surfaces as a
// *ServiceError with the message verbatim, and a transport failure as an
// error matching ErrUnreachable so callers can tell the two apart.
//
// # Wire Format
//
//	POST {base}/compile
//	{"content": "\\documentclass{article}..."}
//
//	200 application/pdf      -> raw PDF bytes
//	4xx/5xx application/json -> {"error": "...", "log": "..."}
//
// # Key Types
//
//   - Client: HTTP client for the service
//   - Artifact: a compiled document
//   - ServiceError: structured failure reported by the service
//
// # Usage
//
//	client := compile.NewClient("http://localhost:8080",
//	    compile.WithRateLimit(30),
//	    compile.WithPDFValidation(true),
//	)
//	art, err := client.Compile(ctx, source)
//	switch {
//	case errors.Is(err, compile.ErrUnreachable):
//	    // network problem
//	case err != nil:
//	    // compile error, see (*ServiceError).Log
//	}
//	_ = art.WriteFile("document.pdf")
package compile
