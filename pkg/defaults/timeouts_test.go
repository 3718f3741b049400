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

package defaults

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Guard the relationships operational tuning depends on; absolute values are
// free to change.
func TestTimeoutRelationships(t *testing.T) {
	assert.Less(t, PollDelay, PollTimeout,
		"a single delay must fit well inside the overall poll deadline")
	assert.Less(t, TokenMinExpiration, TokenExpiration,
		"default token expiration must satisfy the API server floor")
	assert.Less(t, ForwardStopTimeout, ForwardReadyTimeout)
	assert.Less(t, SyncExecTimeout, BackupTimeout)
	assert.Positive(t, BackupAPIRate)
	assert.Positive(t, BackupAPIBurst)
}
