package envbridge

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"optconf/internal/parser"
	"optconf/internal/registry"
	"optconf/internal/value"
)

func TestKey(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{"app", "age", "APP_AGE"},
		{"APP", "verbose", "APP_VERBOSE"},
		{"MyTool", "Count", "MYTOOL_COUNT"},
	}
	for _, tt := range tests {
		if got := Key(tt.prefix, tt.name); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestFromEnviron(t *testing.T) {
	got := FromEnviron([]string{
		"PLAIN=value",
		"EMPTY=",
		"EQUALS=a=b",
		"malformed",
	})
	want := Map{
		"PLAIN":  "value",
		"EMPTY":  "",
		"EQUALS": "a=b",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromEnviron mismatch (-want +got):\n%s", diff)
	}
}

func appRegistry(t *testing.T, prefix string) *registry.Registry {
	t.Helper()
	r := registry.New(registry.Settings{EnvPrefix: prefix})
	if err := r.Num(map[string]registry.Option{"age": {}}); err != nil {
		t.Fatalf("register age: %v", err)
	}
	if err := r.Flag(map[string]registry.Option{"verbose": {}}); err != nil {
		t.Fatalf("register verbose: %v", err)
	}
	if err := r.Opt(map[string]registry.Option{"name": {}}); err != nil {
		t.Fatalf("register name: %v", err)
	}
	return r
}

func TestWriteEnv(t *testing.T) {
	reg := appRegistry(t, "APP")
	store := Map{}
	res := parser.Result{Values: map[string]value.Value{
		"age":     value.Num(30),
		"verbose": value.Flag(false),
		"name":    value.Str("alice"),
	}}

	if err := WriteEnv(reg, res, store); err != nil {
		t.Fatalf("WriteEnv: %v", err)
	}

	want := Map{
		"APP_AGE":     "30",
		"APP_VERBOSE": "0",
		"APP_NAME":    "alice",
	}
	if diff := cmp.Diff(want, store); diff != "" {
		t.Errorf("store mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteEnv_NoPrefixIsNoOp(t *testing.T) {
	reg := appRegistry(t, "")
	store := Map{}
	res := parser.Result{Values: map[string]value.Value{"age": value.Num(30)}}

	if err := WriteEnv(reg, res, store); err != nil {
		t.Fatalf("WriteEnv: %v", err)
	}
	if len(store) != 0 {
		t.Errorf("store = %v, want empty without a prefix", store)
	}
}

type failingStore struct {
	Map
	fail map[string]bool
}

func (s failingStore) Set(key, val string) error {
	if s.fail[key] {
		return errors.New("store rejected write")
	}
	return s.Map.Set(key, val)
}

func TestWriteEnv_WritesAreIndependent(t *testing.T) {
	reg := appRegistry(t, "APP")
	store := failingStore{Map: Map{}, fail: map[string]bool{"APP_AGE": true}}
	res := parser.Result{Values: map[string]value.Value{
		"age":  value.Num(30),
		"name": value.Str("alice"),
	}}

	err := WriteEnv(reg, res, store)
	if err == nil {
		t.Fatal("WriteEnv did not report the failing write")
	}
	// The other write still happened; there is no rollback.
	if got, ok := store.Lookup("APP_NAME"); !ok || got != "alice" {
		t.Errorf("APP_NAME = %q, %v; want alice to be written despite the failure", got, ok)
	}
}

func TestSetDefaultsFromEnv(t *testing.T) {
	reg := appRegistry(t, "APP")
	store := Map{"APP_AGE": "42", "APP_VERBOSE": "1"}

	if err := SetDefaultsFromEnv(reg, store); err != nil {
		t.Fatalf("SetDefaultsFromEnv: %v", err)
	}

	age, _ := reg.Option("age")
	if age.Default == nil || !age.Default.Equal(value.Num(42)) {
		t.Errorf("age default = %v, want Num(42)", age.Default)
	}
	verbose, _ := reg.Option("verbose")
	if verbose.Default == nil || !verbose.Default.Equal(value.Flag(true)) {
		t.Errorf("verbose default = %v, want Flag(true)", verbose.Default)
	}
	// No APP_NAME in the store: default stays unset.
	name, _ := reg.Option("name")
	if name.Default != nil {
		t.Errorf("name default = %v, want nil for absent variable", name.Default)
	}
}

func TestSetDefaultsFromEnv_NoPrefixIsNoOp(t *testing.T) {
	reg := appRegistry(t, "")
	store := Map{"_AGE": "42", "AGE": "42"}

	if err := SetDefaultsFromEnv(reg, store); err != nil {
		t.Fatalf("SetDefaultsFromEnv: %v", err)
	}
	age, _ := reg.Option("age")
	if age.Default != nil {
		t.Errorf("age default = %v, want nil without a prefix", age.Default)
	}
}

func TestSetDefaultsFromEnv_MalformedValue(t *testing.T) {
	reg := appRegistry(t, "APP")
	store := Map{"APP_AGE": "not-a-number"}

	err := SetDefaultsFromEnv(reg, store)
	if err == nil {
		t.Fatal("SetDefaultsFromEnv succeeded on malformed value, want error")
	}
	var perr *value.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error chain %v does not contain *value.ParseError", err)
	}
}

// Writing a parse result and reading it back as defaults reproduces the
// original values, for every value kind.
func TestEnvRoundTrip_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("numbers survive the env round trip", prop.ForAll(
		func(n int64) bool {
			reg := appRegistry(t, "APP")
			store := Map{}
			res := parser.Result{Values: map[string]value.Value{"age": value.Num(n)}}
			if err := WriteEnv(reg, res, store); err != nil {
				return false
			}
			if err := SetDefaultsFromEnv(reg, store); err != nil {
				return false
			}
			opt, _ := reg.Option("age")
			return opt.Default != nil && opt.Default.Equal(value.Num(n))
		},
		gen.Int64(),
	))

	properties.Property("booleans survive the env round trip", prop.ForAll(
		func(b bool) bool {
			reg := appRegistry(t, "APP")
			store := Map{}
			res := parser.Result{Values: map[string]value.Value{"verbose": value.Flag(b)}}
			if err := WriteEnv(reg, res, store); err != nil {
				return false
			}
			if err := SetDefaultsFromEnv(reg, store); err != nil {
				return false
			}
			opt, _ := reg.Option("verbose")
			return opt.Default != nil && opt.Default.Equal(value.Flag(b))
		},
		gen.Bool(),
	))

	properties.TestingRun(t)
}
