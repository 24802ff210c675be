// Copyright 2025 walteh LLC
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

package fileops_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/walteh/lumins/pkg/fileops"
	"github.com/walteh/lumins/pkg/status"
)

// 🧪 testEnv holds a source and destination root plus the recorder
type testEnv struct {
	ctx    context.Context
	src    string
	dest   string
	status *status.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return &testEnv{
		ctx:    logger.WithContext(context.Background()),
		src:    t.TempDir(),
		dest:   t.TempDir(),
		status: status.New(nil),
	}
}

func (e *testEnv) copier() *fileops.Copier {
	return &fileops.Copier{SrcRoot: e.src, DestRoot: e.dest, Workers: 4, Reporter: e.status}
}

func writeFile(t *testing.T, root, rel, content string, mtime time.Time) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	if !mtime.IsZero() {
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	return string(data)
}
