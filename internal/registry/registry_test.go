package registry

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/warden-archive/warden/internal/binary"
	"github.com/warden-archive/warden/internal/binprovider"
	"github.com/warden-archive/warden/internal/extractor"
)

// namedExtractor is a minimal Extractor for registry tests.
type namedExtractor struct {
	name string
}

func (e *namedExtractor) Name() string                              { return e.name }
func (e *namedExtractor) ShouldExtract(t extractor.Target) bool     { return true }
func (e *namedExtractor) OutputPath(t extractor.Target) string      { return t.OutDir }
func (e *namedExtractor) Extract(ctx context.Context, t extractor.Target) (*extractor.Result, error) {
	return &extractor.Result{Extractor: e.name}, nil
}

func TestRegistryLookup(t *testing.T) {
	r := New()

	provider := binprovider.NewEnvProvider("/usr/bin")
	r.RegisterProvider(provider)

	bin := binary.New("wget", provider)
	r.RegisterBinary(bin)

	ext := &namedExtractor{name: "wget"}
	r.RegisterExtractor(ext)

	if got, ok := r.Provider("env"); !ok || got != binprovider.Provider(provider) {
		t.Errorf("Provider(env) = %v, %v; want registered provider", got, ok)
	}
	if got, ok := r.Binary("wget"); !ok || got != bin {
		t.Errorf("Binary(wget) = %v, %v; want registered binary", got, ok)
	}
	if got, ok := r.Extractor("wget"); !ok || got != extractor.Extractor(ext) {
		t.Errorf("Extractor(wget) = %v, %v; want registered extractor", got, ok)
	}
}

func TestRegistryMissLookup(t *testing.T) {
	r := New()

	if _, ok := r.Provider("nope"); ok {
		t.Error("Provider(nope) ok = true, want false")
	}
	if _, ok := r.Binary("nope"); ok {
		t.Error("Binary(nope) ok = true, want false")
	}
	if _, ok := r.Extractor("nope"); ok {
		t.Error("Extractor(nope) ok = true, want false")
	}
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := New()

	first := &namedExtractor{name: "wget"}
	second := &namedExtractor{name: "wget"}

	r.RegisterExtractor(first)
	r.RegisterExtractor(second)

	got, ok := r.Extractor("wget")
	if !ok {
		t.Fatal("Extractor(wget) not found")
	}
	if got != extractor.Extractor(second) {
		t.Error("Extractor(wget) returned the first registration, want the last")
	}
	if len(r.ExtractorNames()) != 1 {
		t.Errorf("ExtractorNames() = %v, want single entry", r.ExtractorNames())
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := New()
	for _, name := range []string{"warc", "dom", "pdf", "media"} {
		r.RegisterExtractor(&namedExtractor{name: name})
	}

	want := []string{"dom", "media", "pdf", "warc"}
	if got := r.ExtractorNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractorNames() = %v, want %v", got, want)
	}

	extractors := r.Extractors()
	for i, e := range extractors {
		if e.Name() != want[i] {
			t.Errorf("Extractors()[%d].Name() = %q, want %q", i, e.Name(), want[i])
		}
	}
}

func TestRegistryConcurrentReads(t *testing.T) {
	r := New()
	r.RegisterBinary(binary.New("wget"))
	r.RegisterExtractor(&namedExtractor{name: "wget"})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Binary("wget")
				r.Extractor("wget")
				r.ExtractorNames()
			}
		}()
	}
	wg.Wait()
}
