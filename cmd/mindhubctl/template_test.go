package main

import (
	"bytes"
	"context"
	"io"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/pkg/utils"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTemplate = `
id: gad-2
name: Escala breve de ansiedad
response_groups:
  frequency:
    - {value: 0, label: Nunca, score: 0}
    - {value: 1, label: Casi siempre, score: 1}
sections:
  - id: s1
    title: Ansiedad
    items:
      - {id: q1, number: 1, text: Nerviosismo, response_type: likert, response_group: frequency, required: true}
`

const brokenTemplate = `
id: broken
name: Sin grupo
sections:
  - id: s1
    title: Uno
    items:
      - {id: q1, number: 1, text: Uno, response_type: likert, response_group: missing, required: true}
      - {id: q1, number: 2, text: Dos, response_type: telepathy}
`

type memoryRepo struct {
	values map[string]any
	ttls   map[string]time.Duration
}

func (m *memoryRepo) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memoryRepo) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	m.values[key] = value
	m.ttls[key] = exp
	return nil
}

func (m *memoryRepo) Get(ctx context.Context, key string) (string, error) { return "", nil }

func (m *memoryRepo) Increment(ctx context.Context, key string) (int64, error) { return 0, nil }

func (m *memoryRepo) Expire(ctx context.Context, key string, exp time.Duration) error { return nil }

func (m *memoryRepo) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	return true, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestTemplateValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "gad2.yaml", validTemplate)
	bad := writeFile(t, dir, "broken.yaml", brokenTemplate)

	c := &cli{log: quietLogger(), internalConfig: &config.InternalConfig{}}

	t.Run("all valid", func(t *testing.T) {
		var out bytes.Buffer
		root := newRootCmd(c)
		root.SetOut(&out)
		root.SetArgs([]string{"template", "validate", good})

		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "ok   "+good+" (gad-2, 1 items)")
	})

	t.Run("reports every problem", func(t *testing.T) {
		var out bytes.Buffer
		root := newRootCmd(c)
		root.SetOut(&out)
		root.SetArgs([]string{"template", "validate", good, bad, filepath.Join(dir, "missing.yaml")})

		err := root.Execute()
		require.ErrorIs(t, err, errInvalidTemplates)
		assert.Contains(t, err.Error(), "2 of 3")
		assert.Contains(t, out.String(), "FAIL "+bad)
		assert.Contains(t, out.String(), `references unknown response group "missing"`)
		assert.Contains(t, out.String(), `duplicate item id "q1"`)
	})

	t.Run("requires a file", func(t *testing.T) {
		root := newRootCmd(c)
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs([]string{"template", "validate"})
		assert.Error(t, root.Execute())
	})
}

func TestImportTemplates(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "gad2.yaml", validTemplate)

	templates, err := loadTemplates(io.Discard, quietLogger(), []string{good})
	require.NoError(t, err)

	repo := &memoryRepo{values: map[string]any{}, ttls: map[string]time.Duration{}}
	require.NoError(t, importTemplates(context.Background(), repo, quietLogger(), templates, 2*time.Hour))

	assert.Contains(t, repo.values, "clinimetrix:template:gad-2")
	assert.Equal(t, 2*time.Hour, repo.ttls["clinimetrix:template:gad-2"])
}

func TestOpsHashKeyCommand(t *testing.T) {
	c := &cli{log: quietLogger(), internalConfig: &config.InternalConfig{}}

	var out bytes.Buffer
	root := newRootCmd(c)
	root.SetIn(bytes.NewBufferString("ops-key-12345\n"))
	root.SetOut(&out)
	root.SetArgs([]string{"ops", "hash-key"})

	require.NoError(t, root.Execute())
	hash := strings.TrimSpace(out.String())
	assert.True(t, utils.CheckSecretHash("ops-key-12345", hash))

	_, err := hashAPIKey(bytes.NewBufferString("   \n"))
	assert.Error(t, err)
}
