package html_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formedit/pkg/model"
	"github.com/goliatone/go-formedit/pkg/render"
	"github.com/goliatone/go-formedit/pkg/renderers/html"
	"github.com/goliatone/go-formedit/pkg/session"
)

const doc = `{"sections": {
	"info": {"title": "Info <script>alert(1)</script>", "order": 1, "bgColor": "#fff", "tooltip": "Read <b>carefully</b> <img src=x onerror=alert(1)>", "fields": {
		"name": {"title": "Name", "placeholder": "Full name", "required": true},
		"dob": {"title": "DOB", "interface": {"type": "date"}, "value": "01/02/1990"},
		"active": {"title": "Active", "interface": {"type": "boolean"}, "value": true, "colSpan": 2},
		"plan": {"title": "Plan", "interface": {"type": "select", "options": [{"value": "ppo", "label": "PPO"}, "HMO"]}, "value": "ppo"}
	}},
	"extra": {"title": "Extra", "order": 2, "bgColor": "red;background:url(x)", "fields": {"note": {}}}
}}`

func newSession(t *testing.T) *session.Session {
	t.Helper()
	form, err := model.Normalize([]byte(doc))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	s, err := session.New(context.Background(), form, "claim-1")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return s
}

func renderView(t *testing.T, view session.FormView, opts render.RenderOptions) string {
	t.Helper()
	r, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), view, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, out string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(out, part) {
			t.Fatalf("output missing %q:\n%s", part, out)
		}
	}
}

func assertNotContains(t *testing.T, out string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if strings.Contains(out, part) {
			t.Fatalf("output unexpectedly contains %q:\n%s", part, out)
		}
	}
}

func TestRenderer_CollapsedSectionsHideBodies(t *testing.T) {
	out := renderView(t, newSession(t).View(), render.RenderOptions{})
	assertContains(t, out, `id="section-info"`, `id="section-extra"`, `data-expanded="false"`)
	assertNotContains(t, out, `data-field-id="name"`)
}

func TestRenderer_NativeControls(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	if err := s.ExpandAll(ctx); err != nil {
		t.Fatalf("expand: %v", err)
	}
	out := renderView(t, s.View(), render.RenderOptions{})

	assertContains(t, out,
		`type="date" id="field-dob" name="dob" value="1990-01-02"`,
		`type="checkbox" id="field-active" name="active" value="true" checked disabled`,
		`<option value="ppo" selected>PPO</option>`,
		`<option value="HMO">HMO</option>`,
		`placeholder="Full name" required disabled`,
		`formedit-span-2`,
		`formedit-span-1`,
		`class="formedit-required"`,
	)
	assertNotContains(t, out, `formedit-reset-type`)
}

func TestRenderer_DriftedFieldOffersReset(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	if err := s.SetEditMode(ctx, true); err != nil {
		t.Fatalf("edit mode: %v", err)
	}
	if err := s.SetValue(ctx, "dob", "13/40/9999"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out := renderView(t, s.View(), render.RenderOptions{ExpandAll: true})

	assertContains(t, out,
		`type="text" id="field-dob" name="dob" value="13/40/9999"`,
		`class="formedit-reset-type" data-field-id="dob" title="Reset to date"`,
		`data-declared="date" data-effective="text"`,
		`is-drifted`,
		`is-changed`,
		`data-edit-mode="true"`,
		`data-last-changed=`,
	)
}

func TestRenderer_SanitizesContent(t *testing.T) {
	out := renderView(t, newSession(t).View(), render.RenderOptions{})

	assertContains(t, out,
		`style="background-color: #fff"`,
		`style="background-color: #f0f0f0"`,
		`Read <b>carefully</b>`,
	)
	assertNotContains(t, out, `<script`, `onerror`, `url(x)`)
}

func TestRenderer_Diagnostics(t *testing.T) {
	out := renderView(t, newSession(t).View(), render.RenderOptions{
		Diagnostics: []model.Diagnostic{{Path: "sections.broken", Reason: "section has no fields mapping"}},
	})
	assertContains(t, out, `<code>sections.broken</code> section has no fields mapping`)
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"form.tmpl": {Data: []byte(`{% for s in form.sections %}[{{ s.id }}:{{ s.bgColor }}]{% endfor %}`)},
	}
	r, err := html.New(html.WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), newSession(t).View(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "[info:#fff][extra:#f0f0f0]" {
		t.Fatalf("got %q", got)
	}
	if r.Name() != "html" || !strings.HasPrefix(r.ContentType(), "text/html") {
		t.Fatalf("unexpected renderer identity %s %s", r.Name(), r.ContentType())
	}
}
