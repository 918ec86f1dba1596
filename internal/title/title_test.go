package title

import (
	"errors"
	"sort"
	"testing"

	"github.com/dejo1307/routetree/internal/source"
	"github.com/stretchr/testify/require"
)

func newIndex(t *testing.T, files map[string]string) *source.Index {
	t.Helper()
	idx := source.NewIndex()
	t.Cleanup(idx.Close)
	// Sorted insertion keeps "first unit wins" predictable.
	for _, p := range sortedKeys(files) {
		_, err := idx.Add(p, []byte(files[p]))
		require.NoError(t, err)
	}
	return idx
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestResolve_ValueForms(t *testing.T) {
	idx := newIndex(t, map[string]string{
		"libs/pages/pages.ts": "" +
			"@FunselPage({ title: 'Home' })\n" +
			"export class HomeComponent {}\n" +
			"\n" +
			"@FunselPage({ title: \"Double\" })\n" +
			"export class DoubleComponent {}\n" +
			"\n" +
			"@FunselPage({ title: `Plain template` })\n" +
			"export class TemplateComponent {}\n" +
			"\n" +
			"@FunselPage({ title: `Hi ${name}` })\n" +
			"export class SubstitutionComponent {}\n" +
			"\n" +
			"@FunselPage({ title: DASHBOARD_TITLE })\n" +
			"export class DashboardComponent {}\n" +
			"\n" +
			"@FunselPage({ title: MISSING_TITLE })\n" +
			"export class MissingConstComponent {}\n" +
			"\n" +
			"@Component({ selector: 'x' })\n" +
			"@FunselPage({ 'title': 'Quoted key', icon: 'x' })\n" +
			"export class QuotedKeyComponent {}\n",
		"libs/pages/titles.ts": "export const DASHBOARD_TITLE = 'Dashboard';\n",
	})
	r := New(idx, "")

	tests := []struct {
		typeName string
		want     string
	}{
		{"HomeComponent", "Home"},
		{"DoubleComponent", "Double"},
		{"TemplateComponent", "Plain template"},
		{"SubstitutionComponent", "Hi ${name}"},
		{"DashboardComponent", "Dashboard"},
		{"MissingConstComponent", "MISSING_TITLE"},
		{"QuotedKeyComponent", "Quoted key"},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got, err := r.Resolve(tt.typeName)
			if err != nil {
				t.Fatalf("Resolve(%s): %v", tt.typeName, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%s) = %q, want %q", tt.typeName, got, tt.want)
			}
		})
	}
}

func TestResolve_Failures(t *testing.T) {
	idx := newIndex(t, map[string]string{
		"libs/pages/pages.ts": `
@Component({ selector: 'plain' })
export class PlainComponent {}

@FunselPage({ icon: 'gear' })
export class NoTitleComponent {}

@FunselPage()
export class NoArgsComponent {}

@FunselPage(PAGE_META)
export class IdentArgComponent {}

@FunselPage({ title: 42 })
export class NumericComponent {}

@FunselPage
export class BareComponent {}
`,
	})
	r := New(idx, DefaultAnnotation)

	tests := []struct {
		typeName string
		wantErr  error
	}{
		{"UnknownComponent", ErrTypeNotFound},
		{"PlainComponent", ErrAnnotationNotFound},
		{"NoTitleComponent", ErrTitleNotFound},
		{"NoArgsComponent", ErrTitleNotFound},
		{"IdentArgComponent", ErrTitleNotFound},
		{"NumericComponent", ErrUnsupportedTitle},
		{"BareComponent", ErrTitleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			_, err := r.Resolve(tt.typeName)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve(%s) error = %v, want %v", tt.typeName, err, tt.wantErr)
			}
		})
	}
}

func TestResolve_CustomAnnotation(t *testing.T) {
	idx := newIndex(t, map[string]string{
		"a.ts": `
@RoutePage({ title: 'Custom' })
@FunselPage({ title: 'Default' })
export class PageComponent {}
`,
	})

	got, err := New(idx, "RoutePage").Resolve("PageComponent")
	require.NoError(t, err)
	if got != "Custom" {
		t.Errorf("got %q, want Custom", got)
	}
}

func TestResolve_FirstDeclarationWins(t *testing.T) {
	idx := newIndex(t, map[string]string{
		"a/first.ts":  "export class DupComponent {}\n",
		"b/second.ts": "@FunselPage({ title: 'Second' })\nexport class DupComponent {}\n",
	})

	_, err := New(idx, "").Resolve("DupComponent")
	if !errors.Is(err, ErrAnnotationNotFound) {
		t.Errorf("expected the first declaration (no annotation) to be used, got err=%v", err)
	}
}
