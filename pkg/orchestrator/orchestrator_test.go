package orchestrator_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formedit/pkg/orchestrator"
	"github.com/goliatone/go-formedit/pkg/persist"
	"github.com/goliatone/go-formedit/pkg/persist/memstore"
	"github.com/goliatone/go-formedit/pkg/rawdoc"
	"github.com/goliatone/go-formedit/pkg/render"
	"github.com/goliatone/go-formedit/pkg/testsupport"
)

func newOrchestrator(t *testing.T, kv persist.KV) *orchestrator.Orchestrator {
	t.Helper()
	bridge, err := persist.NewBridge(kv)
	require.NoError(t, err)
	return orchestrator.New(orchestrator.WithBridge(bridge))
}

func intakeRequest(renderer string) orchestrator.Request {
	return orchestrator.Request{
		Source:   rawdoc.SourceFromFile(filepath.Join("testdata", "intake.yaml")),
		FormID:   "intake-1",
		Renderer: renderer,
	}
}

func TestOrchestrator_OpenPersistsAcrossRuns(t *testing.T) {
	ctx := testsupport.Context()
	kv := memstore.New()
	orch := newOrchestrator(t, kv)

	s, err := orch.Open(ctx, intakeRequest(""))
	require.NoError(t, err)
	require.Equal(t, []string{"patient", "plan"}, s.Form().SectionIDs())
	require.Len(t, s.Form().Diagnostics, 1)
	require.NoError(t, s.SetValue(ctx, "dob", "13/40/9999"))
	require.Equal(t, []string{"dntel-form-intake-1"}, kv.Keys())

	again, err := newOrchestrator(t, kv).Open(ctx, intakeRequest(""))
	require.NoError(t, err)
	require.True(t, again.Restored())
	assessment, err := again.Assess("dob")
	require.NoError(t, err)
	require.True(t, assessment.Drifted)
}

func TestOrchestrator_GenerateWithEachRenderer(t *testing.T) {
	ctx := testsupport.Context()
	orch := newOrchestrator(t, memstore.New())
	require.Equal(t, []string{"html", "tui"}, orch.Renderers())

	out, err := orch.Generate(ctx, intakeRequest(""))
	require.NoError(t, err)
	require.Contains(t, string(out), `data-form-id="intake-1"`)
	require.Contains(t, string(out), `<code>sections.plan.fields.broken</code>`)

	out, err = orch.Generate(ctx, intakeRequest("tui"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "intake-1 (read-only, 0 change(s))"))

	_, err = orch.Generate(ctx, intakeRequest("pdf"))
	require.ErrorIs(t, err, render.ErrUnknownRenderer)
}

func TestOrchestrator_DocumentBypassesLoader(t *testing.T) {
	ctx := context.Background()
	doc := rawdoc.MustNewDocument(rawdoc.SourceFromMemory("inline"), []byte(`{"sections": {"s": {"fields": {"f": {}}}}}`))

	s, err := orchestrator.New().Open(ctx, orchestrator.Request{Document: &doc, FormID: "inline"})
	require.NoError(t, err)
	require.False(t, s.Restored())
	require.Len(t, s.Form().Fields(), 1)
}

func TestOrchestrator_Errors(t *testing.T) {
	ctx := context.Background()
	orch := orchestrator.New()

	_, err := orch.Open(ctx, orchestrator.Request{FormID: "x"})
	require.Error(t, err)

	_, err = orch.Open(ctx, orchestrator.Request{Source: rawdoc.SourceFromFile("missing.json")})
	require.Error(t, err)

	_, err = orch.Open(ctx, orchestrator.Request{Source: rawdoc.SourceFromFile(filepath.Join("testdata", "missing.json")), FormID: "x"})
	require.Error(t, err)

	bad := rawdoc.MustNewDocument(rawdoc.SourceFromMemory("bad"), []byte(`{"nothing": true}`))
	_, err = orch.Open(ctx, orchestrator.Request{Document: &bad, FormID: "x"})
	require.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = orch.Open(cancelled, intakeRequest(""))
	require.True(t, errors.Is(err, context.Canceled))
}
