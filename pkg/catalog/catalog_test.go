package catalog

import "testing"

func TestWebServers(t *testing.T) {
	got := WebServers()

	want := []string{"nginx", "apache2", "openlitespeed", "mern"}
	if len(got) != len(want) {
		t.Fatalf("expected %d web servers, got %d", len(want), len(got))
	}

	for i, v := range want {
		if got[i].Value != v {
			t.Errorf("position %d: expected %s, got %s", i, v, got[i].Value)
		}
		if got[i].Label == "" || got[i].Description == "" {
			t.Errorf("%s: label and description must be set", v)
		}
	}
}

func TestDatabases(t *testing.T) {
	got := Databases()

	want := []string{"mysql", "mariadb", "mongodb"}
	if len(got) != len(want) {
		t.Fatalf("expected %d databases, got %d", len(want), len(got))
	}

	for i, v := range want {
		if got[i].Value != v {
			t.Errorf("position %d: expected %s, got %s", i, v, got[i].Value)
		}
	}
}

func TestListReturnsCopy(t *testing.T) {
	list := WebServers()
	list[0].Value = "caddy"

	if WebServers()[0].Value != WebServerNginx {
		t.Error("mutating a returned slice must not change the catalog")
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name      string
		category  Category
		value     string
		wantLabel string
		wantOK    bool
	}{
		{name: "mern", category: CategoryWebServer, value: "mern", wantLabel: "MERN Stack", wantOK: true},
		{name: "openlitespeed", category: CategoryWebServer, value: "openlitespeed", wantLabel: "OpenLiteSpeed", wantOK: true},
		{name: "mariadb", category: CategoryDatabase, value: "mariadb", wantLabel: "MariaDB", wantOK: true},
		{name: "database in web category", category: CategoryWebServer, value: "mysql", wantOK: false},
		{name: "unknown value", category: CategoryDatabase, value: "postgres", wantOK: false},
		{name: "unknown category", category: Category("cache"), value: "redis", wantOK: false},
		{name: "case sensitive", category: CategoryWebServer, value: "Nginx", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Find(tt.category, tt.value)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && d.Label != tt.wantLabel {
				t.Errorf("expected label %q, got %q", tt.wantLabel, d.Label)
			}
		})
	}
}

func TestValuesAndIndex(t *testing.T) {
	values := Values(CategoryDatabase)
	for i, v := range values {
		if Index(CategoryDatabase, v) != i {
			t.Errorf("index mismatch for %s", v)
		}
	}

	if Index(CategoryWebServer, "caddy") != -1 {
		t.Error("expected -1 for unknown value")
	}
}

func TestParseCategory(t *testing.T) {
	for _, s := range []string{"web-server", "web_server", "web"} {
		if c, ok := ParseCategory(s); !ok || c != CategoryWebServer {
			t.Errorf("%s: expected web_server", s)
		}
	}
	for _, s := range []string{"database", "database-type", "db"} {
		if c, ok := ParseCategory(s); !ok || c != CategoryDatabase {
			t.Errorf("%s: expected database", s)
		}
	}
	if _, ok := ParseCategory("os"); ok {
		t.Error("expected unknown category to fail")
	}
}
