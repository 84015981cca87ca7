package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rolegraph-dev/rolegraph/internal/role"
)

func writeRoleFixture(t *testing.T, rolesDir, name, meta string, tasks map[string]string) role.Role {
	t.Helper()
	dir := filepath.Join(rolesDir, name)
	if meta != "" {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "meta"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "meta", "main.yml"), []byte(meta), 0644))
	}
	for file, content := range tasks {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "tasks"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks", file), []byte(content), 0644))
	}
	require.NoError(t, os.MkdirAll(dir, 0755))
	return role.Role{Name: name, Dir: dir}
}

func TestScanMetadataReferences(t *testing.T) {
	rolesDir := t.TempDir()
	r := writeRoleFixture(t, rolesDir, "web-app-foo", `---
description: demo web app
run_after:
  - svc-db-postgres
dependencies:
  - name: svc-cache-redis
  - util-logrotate
`, nil)

	result := Scan(r)
	require.Equal(t, []string{"svc-db-postgres"}, result.Meta.RunAfter)
	require.Equal(t, []string{"svc-cache-redis", "util-logrotate"}, result.Meta.Dependencies)
	require.Equal(t, "demo web app", result.Meta.Info["description"])
	require.Contains(t, result.Refs, Reference{Kind: KindOrderingHint, Target: "svc-db-postgres"})
	require.Contains(t, result.Refs, Reference{Kind: KindDeclaredDependency, Target: "svc-cache-redis"})
	require.Contains(t, result.Refs, Reference{Kind: KindDeclaredDependency, Target: "util-logrotate"})
}

func TestScanMissingMetadataIsEmptyRecord(t *testing.T) {
	rolesDir := t.TempDir()
	r := writeRoleFixture(t, rolesDir, "bare", "", nil)

	result := Scan(r)
	require.Empty(t, result.Meta.RunAfter)
	require.Empty(t, result.Meta.Dependencies)
	require.Empty(t, result.Refs)
}

func TestScanTaskDirectives(t *testing.T) {
	rolesDir := t.TempDir()
	r := writeRoleFixture(t, rolesDir, "web-app-foo", "", map[string]string{
		"main.yml": `---
- name: configure tls
  import_role:
    name: util-tls

- include_role:
    name: "{{ item }}"
  loop:
    - svc-a
    - svc-b

- name: grouped
  block:
    - include_tasks: setup.yml
    - import_tasks:
        file: teardown.yml
`,
	})

	result := Scan(r)
	require.Equal(t, []Reference{
		{Kind: KindStaticRoleInclusion, Target: "util-tls"},
		{Kind: KindDynamicRoleInclusion, Target: "svc-a"},
		{Kind: KindDynamicRoleInclusion, Target: "svc-b"},
		{Kind: KindDynamicTaskInclusion, Target: "setup.yml"},
		{Kind: KindStaticTaskInclusion, Target: "teardown.yml"},
	}, result.Refs)
}

func TestScanDropsPurePlaceholderDirective(t *testing.T) {
	rolesDir := t.TempDir()
	r := writeRoleFixture(t, rolesDir, "templated", "", map[string]string{
		"main.yml": `---
- include_role:
    name: "{{ chosen_role }}"
`,
	})

	require.Empty(t, Scan(r).Refs)
}

func TestScanMalformedTaskFileFallsBack(t *testing.T) {
	rolesDir := t.TempDir()
	r := writeRoleFixture(t, rolesDir, "broken", "", map[string]string{
		"main.yml": `---
- include_role:
    name: util-tls

- name: "unterminated
`,
	})

	result := Scan(r)
	require.Contains(t, result.Refs, Reference{Kind: KindDynamicRoleInclusion, Target: "util-tls"})
}

func TestFallbackExtractScalarDirectiveAndLoop(t *testing.T) {
	content := []byte(`---
- import_tasks: setup.yml

- include_role:
    name: "{{ item }}"
  loop:
    - svc-a
    - svc-b

- name: "unterminated
`)
	refs := fallbackExtract(content)
	require.Contains(t, refs, Reference{Kind: KindStaticTaskInclusion, Target: "setup.yml"})
	require.Contains(t, refs, Reference{Kind: KindDynamicRoleInclusion, Target: "svc-a"})
	require.Contains(t, refs, Reference{Kind: KindDynamicRoleInclusion, Target: "svc-b"})
}
