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

// Package logging provides structured logging for kubeops commands.
//
// It wraps the standard library slog package with project defaults: JSON
// records to stderr, module and version context on every record, and
// environment-based level configuration. Debug level adds source location
// tracking.
//
// Setting the default logger, typically early in main():
//
//	logging.SetDefaultStructuredLogger("kubeops", version)
//	slog.Info("starting", "namespace", ns)
//
// The LOG_LEVEL environment variable controls verbosity (debug, info, warn,
// error; case-insensitive, default info):
//
//	LOG_LEVEL=debug kubeops wait --prefix web-
//
// Commands pass --log-level through SetDefaultStructuredLoggerWithLevel to
// override the environment.
package logging
