package lazyref

import "testing"

func TestPattern_Module(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		want   string
		wantOK bool
	}{
		{"relative", "() => import('./admin/admin.module').then(m => m.AdminModule)", "./admin/admin.module", true},
		{"alias double quotes", `() => import("@funsel/shop").then(m => m.ShopModule)`, "@funsel/shop", true},
		{"backticks", "() => import(`@funsel/ui`)", "@funsel/ui", true},
		{"across newlines", "() =>\n  import(\n    '../reports/reports.module'\n  ).then((m) => m.ReportsModule)", "../reports/reports.module", true},
		{"string form", "'./admin/admin.module#AdminModule'", "", false},
		{"identifier", "AdminModule", "", false},
		{"empty specifier", "() => import('')", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Pattern{}.Module(tt.expr)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Module(%q) = %q, %v; want %q, %v", tt.expr, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPattern_Destination(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		want   Destination
		wantOK bool
	}{
		{
			"alias with then",
			"() => import('@funsel/profile').then(m => m.ProfileComponent)",
			Destination{Module: "@funsel/profile", Export: "ProfileComponent"}, true,
		},
		{
			"parenthesized parameter",
			"() => import('./settings/settings.component').then((c) => c.SettingsComponent)",
			Destination{Module: "./settings/settings.component", Export: "SettingsComponent"}, true,
		},
		{
			"missing then",
			"() => import('./settings/settings.component')",
			Destination{}, false,
		},
		{
			"then without member access",
			"() => import('./x').then(m => m)",
			Destination{}, false,
		},
		{
			"mismatched parameter",
			"() => import('./x').then(m => other.XComponent)",
			Destination{}, false,
		},
		{
			"missing import",
			"() => loader().then(m => m.XComponent)",
			Destination{}, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Pattern{}.Destination(tt.expr)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Destination(%q) = %+v, %v; want %+v, %v", tt.expr, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
