package config

import (
	"reflect"
	"testing"
)

func TestValuesString(t *testing.T) {
	v := Values{"WGET_BINARY": "wget2", "EMPTY": ""}

	if got := v.String("WGET_BINARY", "wget"); got != "wget2" {
		t.Errorf("String = %q, want wget2", got)
	}
	if got := v.String("MISSING", "fallback"); got != "fallback" {
		t.Errorf("String default = %q, want fallback", got)
	}
	// An explicitly empty value is still a value, not an absent key
	if got := v.String("EMPTY", "fallback"); got != "" {
		t.Errorf("String empty = %q, want empty string", got)
	}
}

func TestValuesBool(t *testing.T) {
	tests := []struct {
		name    string
		values  Values
		key     string
		def     bool
		want    bool
		wantErr bool
	}{
		{name: "absent_uses_default", values: Values{}, key: "LDAP", def: true, want: true},
		{name: "true", values: Values{"LDAP": "true"}, key: "LDAP", want: true},
		{name: "yes", values: Values{"LDAP": "yes"}, key: "LDAP", want: true},
		{name: "no", values: Values{"LDAP": "No"}, key: "LDAP", def: true, want: false},
		{name: "numeric_one", values: Values{"LDAP": "1"}, key: "LDAP", want: true},
		{name: "garbage", values: Values{"LDAP": "maybe"}, key: "LDAP", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.values.Bool(tt.key, tt.def)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Bool = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValuesInt(t *testing.T) {
	v := Values{"WGET_TIMEOUT": "120", "BAD": "soon"}

	got, err := v.Int("WGET_TIMEOUT", 60)
	if err != nil || got != 120 {
		t.Errorf("Int = (%d, %v), want (120, nil)", got, err)
	}

	got, err = v.Int("MISSING", 60)
	if err != nil || got != 60 {
		t.Errorf("Int default = (%d, %v), want (60, nil)", got, err)
	}

	if _, err := v.Int("BAD", 60); err == nil {
		t.Error("expected error for non-numeric value")
	}
}

func TestValuesArgs(t *testing.T) {
	v := Values{
		"WGET_ARGS":  "--no-check-certificate   --adjust-extension",
		"EMPTY_ARGS": "",
	}

	want := []string{"--no-check-certificate", "--adjust-extension"}
	if got := v.Args("WGET_ARGS", nil); !reflect.DeepEqual(got, want) {
		t.Errorf("Args = %v, want %v", got, want)
	}

	def := []string{"--default"}
	if got := v.Args("MISSING", def); !reflect.DeepEqual(got, def) {
		t.Errorf("Args default = %v, want %v", got, def)
	}

	// An explicitly empty override clears the defaults
	if got := v.Args("EMPTY_ARGS", def); len(got) != 0 {
		t.Errorf("Args empty override = %v, want empty", got)
	}
}

func TestValuesMerge(t *testing.T) {
	base := Values{"A": "1", "B": "2"}
	overlay := Values{"B": "override", "C": "3"}

	merged := base.Merge(overlay)
	if merged["A"] != "1" || merged["B"] != "override" || merged["C"] != "3" {
		t.Errorf("unexpected merge result: %v", merged)
	}
	// Inputs are not modified
	if base["B"] != "2" {
		t.Error("merge must not modify the base")
	}
}
