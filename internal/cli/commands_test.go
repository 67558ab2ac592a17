// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/texsnap/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// =============================================================================
// DIFF COMMAND
// =============================================================================

func TestHandleDiff(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.tex", "Hello World\n")
	newPath := writeFile(t, dir, "main.tex", "Hello Go World\n")

	t.Run("inline", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, HandleDiff(Args{Raw: []string{oldPath, newPath}}, &out))
		assert.Contains(t, out.String(), "main.tex: Modified +3 chars")
		assert.Contains(t, out.String(), "{+")
	})

	t.Run("stat", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, HandleDiff(Args{Raw: []string{"--stat", oldPath, newPath}}, &out))
		assert.Equal(t, "main.tex: Modified +3 chars\n", out.String())
	})

	t.Run("unified", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, HandleDiff(Args{Raw: []string{"-u", oldPath, newPath}}, &out))
		assert.Contains(t, out.String(), "-Hello World\n")
		assert.Contains(t, out.String(), "+Hello Go World\n")
		assert.Contains(t, out.String(), "@@ -1")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, HandleDiff(Args{JSON: true, Raw: []string{oldPath, newPath}}, &out))
		var doc jsonDiff
		require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
		assert.Equal(t, 3, doc.Inserted)
		assert.Equal(t, 0, doc.Deleted)
		assert.NotEmpty(t, doc.Segments)
	})

	t.Run("identical", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, HandleDiff(Args{Raw: []string{newPath, newPath}}, &out))
		assert.Equal(t, "main.tex: No changes\n", out.String())
	})

	t.Run("errors", func(t *testing.T) {
		err := HandleDiff(Args{Raw: []string{oldPath}}, io.Discard)
		assert.Equal(t, ExitUsageError, ExitCode(err))

		err = HandleDiff(Args{Raw: []string{oldPath, filepath.Join(dir, "missing.tex")}}, io.Discard)
		assert.Equal(t, ExitNotFoundError, ExitCode(err))
	})
}

// =============================================================================
// COMPILE COMMAND
// =============================================================================

func compileServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url string) *config.Config {
	cfg := config.Default()
	cfg.Compile.URL = url
	cfg.Compile.ValidatePDF = false
	cfg.Compile.MaxPerMinute = 0
	return cfg
}

func TestHandleCompile(t *testing.T) {
	var got struct {
		Content string `json:"content"`
	}
	srv := compileServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compile", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 test"))
	})

	dir := t.TempDir()
	src := writeFile(t, dir, "paper.tex", `\documentclass{article}`)
	output := filepath.Join(dir, "build", "paper.pdf")

	var out bytes.Buffer
	err := HandleCompile(context.Background(), testConfig(srv.URL), Args{Raw: []string{src, "-o", output}}, nil, &out)
	require.NoError(t, err)

	assert.Equal(t, `\documentclass{article}`, got.Content)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))
	assert.Contains(t, out.String(), "Wrote "+output)
}

func TestHandleCompile_ServiceErrorWithLog(t *testing.T) {
	srv := compileServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "LaTeX compilation failed.", "log": "! Missing $ inserted."}`))
	})

	dir := t.TempDir()
	src := writeFile(t, dir, "main.tex", "x^2")

	var out bytes.Buffer
	err := HandleCompile(context.Background(), testConfig(srv.URL),
		Args{Quiet: true, Raw: []string{src, "--log", "--output", filepath.Join(dir, "out.pdf")}}, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LaTeX compilation failed.")
	assert.Equal(t, "! Missing $ inserted.\n", out.String())
	assert.NoFileExists(t, filepath.Join(dir, "out.pdf"))
}

func TestHandleCompile_URLOverride(t *testing.T) {
	srv := compileServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF"))
	})
	dir := t.TempDir()
	src := writeFile(t, dir, "main.tex", "x")

	cfg := testConfig("http://127.0.0.1:1")
	err := HandleCompile(context.Background(), cfg,
		Args{Quiet: true, Raw: []string{src, "--url", srv.URL, "-o", filepath.Join(dir, "o.pdf")}}, nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:1", cfg.Compile.URL, "caller config must not change")

	err = HandleCompile(context.Background(), cfg, Args{Raw: []string{src, "--url", "nonsense"}}, nil, io.Discard)
	assert.Equal(t, ExitConfigError, ExitCode(err))
}

func TestHandleCompile_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	dir := t.TempDir()
	src := writeFile(t, dir, "main.tex", "x")
	err := HandleCompile(context.Background(), testConfig(url), Args{Quiet: true, Raw: []string{src}}, nil, io.Discard)
	assert.Equal(t, ExitNetworkError, ExitCode(err))
}

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TEXSNAP_HOME", dir)
	for _, k := range []string{"TEXSNAP_COMPILE_URL", "TEXSNAP_PRIMARY_FILE", "TEXSNAP_THEME", "TEXSNAP_LOG_LEVEL", "TEXSNAP_LOG_FILE"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestHandleConfig_SetGetShow(t *testing.T) {
	home := isolateConfig(t)

	var out bytes.Buffer
	require.NoError(t, HandleConfig(Args{Raw: []string{"set", "compile.url", "http://latex.lan:9000"}}, &out))
	assert.Contains(t, out.String(), "Set compile.url = http://latex.lan:9000")
	assert.FileExists(t, filepath.Join(home, "config.toml"))

	out.Reset()
	require.NoError(t, HandleConfig(Args{Raw: []string{"get", "compile.url"}}, &out))
	assert.Equal(t, "http://latex.lan:9000\n", out.String())

	out.Reset()
	require.NoError(t, HandleConfig(Args{Raw: []string{"set", "editor.extensions", ".tex,", ".bib"}}, &out))
	out.Reset()
	require.NoError(t, HandleConfig(Args{Raw: []string{"get", "editor.extensions"}}, &out))
	assert.Equal(t, ".tex,.bib\n", out.String())

	out.Reset()
	require.NoError(t, HandleConfig(Args{Raw: []string{"show"}}, &out))
	assert.Contains(t, out.String(), "[compile]")
	assert.Contains(t, out.String(), "compile.url: http://latex.lan:9000")

	out.Reset()
	require.NoError(t, HandleConfig(Args{JSON: true}, &out))
	var cfg config.Config
	require.NoError(t, json.Unmarshal(out.Bytes(), &cfg))
	assert.Equal(t, "http://latex.lan:9000", cfg.Compile.URL)
}

func TestHandleConfig_Errors(t *testing.T) {
	isolateConfig(t)

	err := HandleConfig(Args{Raw: []string{"set", "ui.theme", "neon"}}, io.Discard)
	assert.Equal(t, ExitConfigError, ExitCode(err))

	err = HandleConfig(Args{Raw: []string{"set", "nope.key", "1"}}, io.Discard)
	assert.Equal(t, ExitUsageError, ExitCode(err))

	err = HandleConfig(Args{Raw: []string{"get"}}, io.Discard)
	assert.Equal(t, ExitUsageError, ExitCode(err))

	err = HandleConfig(Args{Raw: []string{"frob"}}, io.Discard)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestHandleConfig_SetRefusesBrokenFile(t *testing.T) {
	home := isolateConfig(t)
	broken := "[compile\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte(broken), 0600))

	err := HandleConfig(Args{Raw: []string{"set", "ui.theme", "dark"}}, io.Discard)
	assert.Equal(t, ExitConfigError, ExitCode(err))

	data, err := os.ReadFile(filepath.Join(home, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, broken, string(data))
}

func TestHandleConfig_PathAndReset(t *testing.T) {
	home := isolateConfig(t)

	var out bytes.Buffer
	require.NoError(t, HandleConfig(Args{Raw: []string{"path"}}, &out))
	assert.Equal(t, filepath.Join(home, "config.toml")+"\n", out.String())

	require.NoError(t, HandleConfig(Args{Raw: []string{"set", "compile.max_per_minute", "3"}}, io.Discard))
	require.NoError(t, HandleConfig(Args{Raw: []string{"reset"}}, io.Discard))

	out.Reset()
	require.NoError(t, HandleConfig(Args{Raw: []string{"get", "compile.max_per_minute"}}, &out))
	assert.Equal(t, "30\n", out.String())

	out.Reset()
	require.NoError(t, HandleConfig(Args{Raw: []string{"path", "--json"}}, &out))
	assert.Contains(t, out.String(), `"exists": true`)
}
