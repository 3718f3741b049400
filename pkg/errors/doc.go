// Copyright (c) 2025, the kubeops authors.  All rights reserved.
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

// Package errors provides structured error types shared across kubeops
// components.
//
// Errors carry a machine-readable code alongside the human-readable message
// and optional cause and context, so callers can branch on classification
// (transport failure vs. exhausted retries vs. bad input) without string
// matching:
//
//	if errors.CodeOf(err) == errors.ErrCodeTransport {
//		// retry or surface connectivity guidance
//	}
//
// StructuredError supports errors.Is / errors.As through Unwrap.
package errors
