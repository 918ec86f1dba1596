package routes

import (
	"testing"

	"github.com/dejo1307/routetree/internal/source"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func parseUnit(t *testing.T, src string) *source.Unit {
	t.Helper()
	idx := source.NewIndex()
	t.Cleanup(idx.Close)
	u, err := idx.Add("apps/funsel/src/app/app-routing.module.ts", []byte(src))
	require.NoError(t, err)
	return u
}

func decodeAll(t *testing.T, src string) []Declaration {
	t.Helper()
	u := parseUnit(t, src)
	var out []Declaration
	for _, obj := range Declarations(u) {
		out = append(out, Decode(u, obj))
	}
	return out
}

var ignoreLine = cmpopts.IgnoreFields(Declaration{}, "Line")

func TestDeclarations_OnlyTopLevelArrays(t *testing.T) {
	u := parseUnit(t, `
import { Routes } from '@angular/router';

export const routes: Routes = [
  { path: 'a', component: A },
  SHARED_ROUTE,
  { path: 'b', component: B },
];

const other = [{ path: 'c', component: C }], notArray = { path: 'x' };
let nested = [[{ path: 'deep', component: D }]];

function build() {
  const local = [{ path: 'fn', component: F }];
  return local;
}

@NgModule({ imports: [RouterModule.forRoot([{ path: 'inline', component: I }])] })
export class AppRoutingModule {}
`)

	objs := Declarations(u)
	var paths []string
	for _, o := range objs {
		paths = append(paths, Decode(u, o).Path)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, paths); diff != "" {
		t.Errorf("declaration paths mismatch (-want +got):\n%s", diff)
	}
}

func TestDeclarations_NilUnit(t *testing.T) {
	if got := Declarations(nil); got != nil {
		t.Errorf("Declarations(nil) = %v, want nil", got)
	}
}

func TestDecode_Classification(t *testing.T) {
	got := decodeAll(t, `
export const routes = [
  { path: 'home', component: HomeComponent },
  { path: 'admin', loadChildren: () => import('./admin/admin.module').then(m => m.AdminModule) },
  { path: 'profile', loadComponent: () => import('@funsel/profile').then(m => m.ProfileComponent) },
  { path: 'group', canActivate: [AuthGuard] },
];
`)

	want := []Declaration{
		{Path: "home", Strategy: Eager, Handler: "HomeComponent"},
		{Path: "admin", Strategy: LazyModule, Module: "() => import('./admin/admin.module').then(m => m.AdminModule)"},
		{Path: "profile", Strategy: LazyDestination, Destination: "() => import('@funsel/profile').then(m => m.ProfileComponent)"},
		{Path: "group", Strategy: Unknown},
	}
	if diff := cmp.Diff(want, got, ignoreLine); diff != "" {
		t.Errorf("decoded routes mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_PathForms(t *testing.T) {
	got := decodeAll(t, "export const routes = [\n"+
		"  { path: \"double\" },\n"+
		"  { path: `tmpl` },\n"+
		"  { path: AppRoutes.USER_PROFILE },\n"+
		"  { path: SOME_IDENT },\n"+
		"  { component: X },\n"+
		"  { path: '' },\n"+
		"  { 'path': 'quoted-key' },\n"+
		"];\n")

	var paths []string
	for _, d := range got {
		paths = append(paths, d.Path)
	}
	want := []string{"double", "tmpl", "user-profile", "", "", "", "quoted-key"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_ChildrenInOrder(t *testing.T) {
	got := decodeAll(t, `
export const routes = [
  {
    path: 'shell',
    component: ShellComponent,
    children: [
      { path: 'one', component: OneComponent },
      { path: 'two', children: [{ path: 'deep', component: DeepComponent }] },
      NOT_AN_OBJECT,
    ],
  },
];
`)

	want := []Declaration{{
		Path: "shell", Strategy: Eager, Handler: "ShellComponent",
		Children: []Declaration{
			{Path: "one", Strategy: Eager, Handler: "OneComponent"},
			{Path: "two", Children: []Declaration{
				{Path: "deep", Strategy: Eager, Handler: "DeepComponent"},
			}},
		},
	}}
	if diff := cmp.Diff(want, got, ignoreLine); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_LastLoadingMemberWins(t *testing.T) {
	got := decodeAll(t, `
export const routes = [
  { path: 'x', component: XComponent, loadChildren: () => import('./x/x.module').then(m => m.XModule) },
];
`)
	require.Len(t, got, 1)
	if got[0].Strategy != LazyModule {
		t.Errorf("Strategy = %v, want lazy-module", got[0].Strategy)
	}
	if got[0].Handler != "" {
		t.Errorf("Handler = %q, want cleared", got[0].Handler)
	}
}

func TestDecode_Line(t *testing.T) {
	got := decodeAll(t, "export const routes = [\n\n  { path: 'l' },\n];\n")
	require.Len(t, got, 1)
	if got[0].Line != 3 {
		t.Errorf("Line = %d, want 3", got[0].Line)
	}
}

func TestSegmentFromAccess(t *testing.T) {
	tests := map[string]string{
		"AppRoutes.USER_PROFILE": "user-profile",
		"Paths.admin.users":      "admin",
		"Routes.HOME":            "home",
		"plain":                  "",
	}
	for in, want := range tests {
		if got := SegmentFromAccess(in); got != want {
			t.Errorf("SegmentFromAccess(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStrategyString(t *testing.T) {
	for s, want := range map[Strategy]string{
		Unknown:         "unknown",
		Eager:           "eager",
		LazyModule:      "lazy-module",
		LazyDestination: "lazy-component",
	} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
