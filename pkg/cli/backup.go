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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/clusterkit/kubeops/pkg/defaults"
	"github.com/clusterkit/kubeops/pkg/k8s/backup"
	"github.com/clusterkit/kubeops/pkg/k8s/client"
	"github.com/clusterkit/kubeops/pkg/oci"
)

func backupCmd() *cli.Command {
	return &cli.Command{
		Name:                  "backup",
		EnableShellCompletion: true,
		Usage:                 "Export namespace resource definitions to files",
		ArgsUsage:             "OUTPUT_DIR",
		Description: `Export the target namespace's pods, services, configmaps, secrets,
service accounts, and persistent volume claims, plus the cluster's
persistent volumes, as one YAML file per resource. Server-populated
metadata and status are stripped so the files can be re-applied. An
index manifest at the root records every file and the volume-to-claim
bindings at export time.

With --push the finished tree is additionally published to an OCI
registry as an artifact.

# Examples

Export a namespace:
  kubeops backup ./backups/prod -n prod

Only NFS-backed volumes:
  kubeops backup ./backups/prod -n prod --volume-type nfs

Publish to a registry:
  kubeops backup ./backups/prod -n prod --push oci://ghcr.io/org/backups:nightly`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "volume-type",
				Usage: "only export persistent volumes backed by this source (e.g. nfs, hostPath; can be repeated)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "sustained API requests per second",
				Value: defaults.BackupAPIRate,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "deadline for the whole export",
				Value: defaults.BackupTimeout,
			},
			&cli.StringFlag{
				Name:  "push",
				Usage: "publish the backup tree to an OCI registry (oci://registry/repository:tag)",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "use HTTP for the registry connection",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "skip registry TLS certificate verification",
			},
			namespaceFlag,
			kubeconfigFlag,
			contextFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outputDir := cmd.Args().First()
			if outputDir == "" {
				return fmt.Errorf("output directory argument is required")
			}

			clientset, _, err := buildClient(cmd)
			if err != nil {
				return err
			}

			namespace := cmd.String("namespace")
			if namespace == "" {
				namespace, err = client.CurrentNamespace(clientConfig(cmd))
				if err != nil {
					return err
				}
			}

			var pushRef *oci.Reference
			if target := cmd.String("push"); target != "" {
				pushRef, err = oci.ParseReference(target)
				if err != nil {
					return err
				}
				if pushRef.Tag == "" {
					pushRef = pushRef.WithTag(time.Now().UTC().Format("20060102-150405"))
				}
			}

			runCtx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			res, err := backup.New(clientset).Run(runCtx, backup.Config{
				Namespace:   namespace,
				OutputDir:   outputDir,
				VolumeTypes: cmd.StringSlice("volume-type"),
				RateLimit:   rate.Limit(cmd.Float("rate")),
			})
			if err != nil {
				return err
			}

			slog.Info("backup complete",
				"namespace", res.Namespace,
				"resources", len(res.Entries),
				"dir", outputDir)

			if pushRef == nil {
				return nil
			}

			pushResult, err := oci.Push(runCtx, oci.PushOptions{
				SourceDir: outputDir,
				Reference: pushRef,
				Annotations: map[string]string{
					"org.opencontainers.image.created": res.Taken.Format(time.RFC3339),
					"org.opencontainers.image.title":   fmt.Sprintf("kubeops backup of %s", res.Namespace),
				},
				PlainHTTP:   cmd.Bool("plain-http"),
				InsecureTLS: cmd.Bool("insecure-tls"),
			})
			if err != nil {
				return err
			}

			slog.Info("backup published",
				"reference", pushResult.Reference,
				"digest", pushResult.Digest)
			fmt.Printf("%s@%s\n", pushResult.Reference, pushResult.Digest)
			return nil
		},
	}
}
