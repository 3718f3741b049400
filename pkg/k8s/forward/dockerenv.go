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

package forward

import "fmt"

// DockerEnvHost is the environment variable consumed by container engine
// clients to locate the daemon.
const DockerEnvHost = "DOCKER_HOST"

// DefaultEnginePort is the conventional unencrypted container engine API
// port forwarded by the docker-env bridge.
const DefaultEnginePort = 2375

// DockerEnv renders shell export lines pointing a container engine client at
// the forwarded socket. Output is eval-able:
//
//	eval "$(kubeops forward docker-env --prefix dind-)"
func DockerEnv(addr string) []string {
	return []string{
		fmt.Sprintf("export %s=tcp://%s", DockerEnvHost, addr),
	}
}
