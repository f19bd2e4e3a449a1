package pipeline

import (
	"context"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/porelab/porenet/pkg/cache"
	"github.com/porelab/porenet/pkg/observability"
	"github.com/porelab/porenet/pkg/recipe"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"vtk", false},
		{"csv", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "vtk"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"json", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// No formats requested is fine.
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{
		Shape: [3]int{3, 3, 3},
	}

	if err := opts.ValidateForBuild(); err != nil {
		t.Errorf("Valid options should pass: %v", err)
	}

	// Validation fills in the zero fields.
	if opts.Connectivity != DefaultConnectivity {
		t.Errorf("Connectivity should be %d, got %d", DefaultConnectivity, opts.Connectivity)
	}
	if opts.Spacing != DefaultSpacing {
		t.Errorf("Spacing should be %g, got %g", DefaultSpacing, opts.Spacing)
	}
	if opts.Logger == nil {
		t.Error("Logger default should be set")
	}
}

func TestOptionsValidateForBuild(t *testing.T) {
	// Missing shape
	opts := Options{}
	if err := opts.ValidateForBuild(); err == nil {
		t.Error("Zero shape should fail")
	}

	// Flat dimension
	opts = Options{Shape: [3]int{3, 0, 3}}
	if err := opts.ValidateForBuild(); err == nil {
		t.Error("Zero dimension should fail")
	}

	// Negative spacing
	opts = Options{Shape: [3]int{3, 3, 3}, Spacing: -1}
	if err := opts.ValidateForBuild(); err == nil {
		t.Error("Negative spacing should fail")
	}
}

func TestOptionsValidateForCompose(t *testing.T) {
	frac := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"no species", Options{}, false},
		{
			"balanced pair",
			Options{
				Species: []SpeciesOptions{{Name: "O2", Fraction: frac(0.21)}, {Name: "N2"}},
				Balance: "N2",
			},
			false,
		},
		{
			"empty species name",
			Options{Species: []SpeciesOptions{{Name: ""}}},
			true,
		},
		{
			"duplicate species",
			Options{Species: []SpeciesOptions{{Name: "O2", Fraction: frac(1)}, {Name: "O2"}}},
			true,
		},
		{
			"balance not in list",
			Options{Species: []SpeciesOptions{{Name: "O2", Fraction: frac(1)}}, Balance: "N2"},
			true,
		},
		{
			"balance with fraction",
			Options{Species: []SpeciesOptions{{Name: "N2", Fraction: frac(0.5)}}, Balance: "N2"},
			true,
		},
		{
			"negative tolerance",
			Options{Tolerance: -1e-6},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForCompose()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForCompose() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsShouldReduce(t *testing.T) {
	opts := Options{}
	if opts.ShouldReduce() {
		t.Error("Zero coordination should skip reduction")
	}

	opts.Coordination = 4.5
	if !opts.ShouldReduce() {
		t.Error("Positive coordination should reduce")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{
		Shape: [3]int{3, 3, 3},
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalSeed := opts.Seed
	originalFormats := len(opts.Formats)

	// Repeating the call must not re-roll the seed or re-append formats.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Seed != originalSeed {
		t.Error("Seed changed on second call")
	}
	if len(opts.Formats) != originalFormats {
		t.Error("Formats changed on second call")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats should be [json], got %v", opts.Formats)
	}
}

func TestSetReduceDefaults(t *testing.T) {
	opts := Options{}
	opts.SetReduceDefaults()

	if opts.Seed != DefaultSeed {
		t.Errorf("Seed should be %d, got %d", DefaultSeed, opts.Seed)
	}
}

func TestFromRecipe(t *testing.T) {
	r := &recipe.Recipe{
		Name: "air",
		Network: recipe.NetworkSpec{
			Shape:        [3]int{10, 10, 10},
			Connectivity: 6,
			Spacing:      1e-4,
		},
		Reduce:  &recipe.ReduceSpec{Coordination: 4.5, Seed: 7},
		Mixture: &recipe.MixtureSpec{Name: "air", Balance: "N2", Tolerance: 1e-5},
		Species: []recipe.SpeciesSpec{
			{Name: "O2", Fraction: ptr(0.21), Props: map[string]float64{"molecular_weight": 0.032}},
			{Name: "N2", Props: map[string]float64{"molecular_weight": 0.028}},
		},
	}

	opts := FromRecipe(r)

	if opts.Shape != [3]int{10, 10, 10} || opts.Spacing != 1e-4 {
		t.Errorf("network options not carried over: %+v", opts)
	}
	if opts.Coordination != 4.5 || opts.Seed != 7 {
		t.Errorf("reduce options not carried over: %+v", opts)
	}
	if opts.Balance != "N2" || opts.Tolerance != 1e-5 {
		t.Errorf("mixture options not carried over: %+v", opts)
	}
	if len(opts.Species) != 2 || opts.Species[0].Name != "O2" || *opts.Species[0].Fraction != 0.21 {
		t.Errorf("species not carried over: %+v", opts.Species)
	}
	if opts.Species[1].Fraction != nil {
		t.Error("balance species should keep a nil fraction")
	}
}

func ptr(v float64) *float64 { return &v }

func testOptions() Options {
	return Options{
		Shape:        [3]int{3, 3, 3},
		Coordination: 3.0,
		Species: []SpeciesOptions{
			{Name: "O2", Fraction: ptr(0.21), Props: map[string]float64{"molecular_weight": 0.032}},
			{Name: "N2", Props: map[string]float64{"molecular_weight": 0.028}},
		},
		Balance: "N2",
		Formats: []string{FormatJSON},
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, quietLogger())
	defer runner.Close()

	result, err := runner.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	// 3x3x3 lattice has 27 pores and 54 throats; reducing to z=3.0
	// removes 13 throats.
	if result.Stats.PoreCount != 27 {
		t.Errorf("PoreCount = %d, want 27", result.Stats.PoreCount)
	}
	if result.Stats.ThroatCount != 41 {
		t.Errorf("ThroatCount = %d, want 41", result.Stats.ThroatCount)
	}
	if result.Plan == nil || len(result.Plan.Remove) != 13 {
		t.Fatalf("Plan = %+v, want 13 removals", result.Plan)
	}
	if got := result.Plan.Achieved; math.Abs(got-2.0*41/27) > 1e-12 {
		t.Errorf("Achieved = %g, want %g", got, 2.0*41/27)
	}
	if !result.Health.OK() {
		t.Errorf("reduced network should stay healthy: %+v", result.Health)
	}
	if result.NetworkHash == "" {
		t.Error("NetworkHash should be set")
	}

	// Mixture resolved: N2 fills to 1 - 0.21
	if result.Mixture == nil {
		t.Fatal("Mixture should be composed")
	}
	n2, _ := result.Mixture.Fraction("N2")
	if math.Abs(n2[0]-0.79) > 1e-12 {
		t.Errorf("N2 fraction = %g, want 0.79", n2[0])
	}

	// The json artifact round-trips to the reduced network
	doc, ok := result.Artifacts[FormatJSON]
	if !ok {
		t.Fatal("json artifact missing")
	}
	net, err := unmarshalNetwork(doc)
	if err != nil {
		t.Fatalf("json artifact does not parse: %v", err)
	}
	if net.ThroatCount() != 41 {
		t.Errorf("artifact throats = %d, want 41", net.ThroatCount())
	}

	// Nothing came from cache on the first run
	if result.CacheInfo.BuildHit || result.CacheInfo.ReduceHit || result.CacheInfo.RenderHit {
		t.Errorf("first run should miss everywhere: %+v", result.CacheInfo)
	}
}

func TestRunnerExecuteCaches(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, quietLogger())
	defer runner.Close()

	first, err := runner.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}

	second, err := runner.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}

	if !second.CacheInfo.BuildHit || !second.CacheInfo.ReduceHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit everywhere: %+v", second.CacheInfo)
	}
	if second.NetworkHash != first.NetworkHash {
		t.Errorf("NetworkHash changed between runs: %q vs %q", second.NetworkHash, first.NetworkHash)
	}
	if second.Plan == nil || len(second.Plan.Remove) != len(first.Plan.Remove) {
		t.Error("cached run should restore the reduction plan")
	}
	if string(second.Artifacts[FormatJSON]) != string(first.Artifacts[FormatJSON]) {
		t.Error("cached artifact should match the rendered one")
	}

	// Refresh recomputes every stage
	opts := testOptions()
	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute failed: %v", err)
	}
	if third.CacheInfo.BuildHit || third.CacheInfo.ReduceHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run should miss everywhere: %+v", third.CacheInfo)
	}
	if third.NetworkHash != first.NetworkHash {
		t.Error("refresh should still be deterministic")
	}
}

func TestRunnerExecuteSkipsStages(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	result, err := runner.Execute(ctx, Options{Shape: [3]int{2, 2, 2}})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Plan != nil {
		t.Error("reduction should be skipped without a coordination target")
	}
	if result.Mixture != nil {
		t.Error("composition should be skipped without species")
	}
	if result.Stats.ThroatCount != 12 {
		t.Errorf("ThroatCount = %d, want 12", result.Stats.ThroatCount)
	}
	if _, ok := result.Artifacts[FormatJSON]; !ok {
		t.Error("default json artifact missing")
	}
}

func TestRunnerExecuteInvalidOptions(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	if _, err := runner.Execute(context.Background(), Options{}); err == nil {
		t.Error("empty options should fail validation")
	}

	opts := testOptions()
	opts.Formats = []string{"docx"}
	if _, err := runner.Execute(context.Background(), opts); err == nil {
		t.Error("unknown format should fail validation")
	}
}

func TestComposeUnderdetermined(t *testing.T) {
	opts := Options{
		Species: []SpeciesOptions{{Name: "A"}, {Name: "B"}},
	}
	if _, err := Compose(4, opts); err == nil {
		t.Error("two unresolved species should fail to resolve")
	}
}

func TestReduceDisconnected(t *testing.T) {
	opts := Options{Shape: [3]int{2, 1, 1}, Coordination: 1.0}
	net, err := Build(opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := net.RemoveThroats([]int{0}); err != nil {
		t.Fatal(err)
	}

	if _, err := Reduce(net, opts); err == nil {
		t.Error("disconnected network should fail to reduce")
	}
}

type countingPipelineHooks struct {
	observability.NoopPipelineHooks
	builds, reduces, composes, renders int
}

func (h *countingPipelineHooks) OnBuildComplete(_ context.Context, _ [3]int, _ int, _ time.Duration, err error) {
	if err == nil {
		h.builds++
	}
}

func (h *countingPipelineHooks) OnReduceComplete(_ context.Context, _ float64, _ int, _ time.Duration, err error) {
	if err == nil {
		h.reduces++
	}
}

func (h *countingPipelineHooks) OnComposeComplete(_ context.Context, _ int, _ time.Duration, err error) {
	if err == nil {
		h.composes++
	}
}

func (h *countingPipelineHooks) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	if err == nil {
		h.renders++
	}
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestRunnerExecuteEmitsHooks(t *testing.T) {
	defer observability.Reset()

	ph := &countingPipelineHooks{}
	ch := &countingCacheHooks{}
	observability.SetPipelineHooks(ph)
	observability.SetCacheHooks(ch)

	runner := NewRunner(cache.NewNullCache(), nil, quietLogger())
	if _, err := runner.Execute(context.Background(), testOptions()); err != nil {
		t.Fatal(err)
	}

	if ph.builds != 1 || ph.reduces != 1 || ph.composes != 1 || ph.renders != 1 {
		t.Errorf("stage completions = %d/%d/%d/%d, want 1 each",
			ph.builds, ph.reduces, ph.composes, ph.renders)
	}
	// One lookup per cached stage: network, reduction, artifact.
	if ch.misses != 3 {
		t.Errorf("cache misses = %d, want 3", ch.misses)
	}
	if ch.hits != 0 {
		t.Errorf("cache hits = %d, want 0", ch.hits)
	}
	if ch.sets != 3 {
		t.Errorf("cache sets = %d, want 3", ch.sets)
	}
}
