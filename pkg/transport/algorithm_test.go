package transport

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/porelab/porenet/pkg/network"
)

func pathNet(t *testing.T, pores int) *network.Network {
	t.Helper()
	conns := make([][2]int, pores-1)
	for i := range conns {
		conns[i] = [2]int{i, i + 1}
	}
	net, err := network.New(pores, conns)
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func uniform(n int, v float64) []float64 {
	g := make([]float64, n)
	for i := range g {
		g[i] = v
	}
	return g
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestNew_Validation(t *testing.T) {
	net := pathNet(t, 3)

	tests := []struct {
		name        string
		quantity    string
		conductance []float64
		opts        []Option
		wantErr     error
	}{
		{"empty quantity", "", uniform(2, 1), nil, ErrQuantity},
		{"wrong length", "c", uniform(3, 1), nil, ErrConductance},
		{"zero conductance", "c", []float64{1, 0}, nil, ErrConductance},
		{"negative conductance", "c", []float64{1, -2}, nil, ErrConductance},
		{"nan conductance", "c", []float64{1, math.NaN()}, nil, ErrConductance},
		{"bad tolerance", "c", uniform(2, 1), []Option{WithTolerance(0)}, ErrTolerance},
		{"bad max iterations", "c", uniform(2, 1), []Option{WithMaxIterations(-1)}, ErrMaxIterations},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(net, tt.quantity, tt.conductance, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRun_SeriesPath(t *testing.T) {
	net := pathNet(t, 4)
	alg, err := New(net, "concentration", uniform(3, 2))
	if err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValue(1, []int{0}); err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValue(0, []int{3}); err != nil {
		t.Fatal(err)
	}
	if err := alg.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	sol, err := alg.Solution()
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 2.0 / 3, 1.0 / 3, 0}
	for i := range want {
		if !almostEqual(sol[i], want[i]) {
			t.Errorf("sol[%d] = %g, want %g", i, sol[i], want[i])
		}
	}

	// Three conductors of 2 in series pass 2/3 per unit difference.
	rate, err := alg.Rate([]int{3})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(rate, 2.0/3) {
		t.Errorf("Rate(outlet) = %g, want %g", rate, 2.0/3)
	}

	inRate, err := alg.Rate([]int{0})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(inRate, -2.0/3) {
		t.Errorf("Rate(inlet) = %g, want %g", inRate, -2.0/3)
	}
}

func TestRun_CubicLattice(t *testing.T) {
	net, err := network.Cubic([3]int{3, 3, 3})
	if err != nil {
		t.Fatal(err)
	}
	alg, err := New(net, "temperature", uniform(net.ThroatCount(), 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValueLabel(1, network.LabelFront); err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValueLabel(0, network.LabelBack); err != nil {
		t.Fatal(err)
	}
	if err := alg.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Nine parallel lines of two unit throats in series.
	geff, err := alg.EffectiveConductance(network.LabelFront, network.LabelBack)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(geff, 4.5) {
		t.Errorf("EffectiveConductance = %g, want 4.5", geff)
	}

	// Conservation: inflow at the front face equals outflow at the back.
	in, err := alg.Rate(net.PoresWithLabel(network.LabelFront))
	if err != nil {
		t.Fatal(err)
	}
	out, err := alg.Rate(net.PoresWithLabel(network.LabelBack))
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(in, -out) {
		t.Errorf("Rate(front) = %g, Rate(back) = %g, want opposite", in, out)
	}
}

func TestRun_ComponentWithoutBoundary(t *testing.T) {
	net, err := network.New(4, [][2]int{{0, 1}, {2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	alg, err := New(net, "c", uniform(2, 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValue(1, []int{0}); err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValue(0, []int{1}); err != nil {
		t.Fatal(err)
	}

	if err := alg.Run(context.Background()); !errors.Is(err, ErrNoBoundary) {
		t.Errorf("Run() error = %v, want ErrNoBoundary", err)
	}
}

func TestRun_NoBoundaryAtAll(t *testing.T) {
	net := pathNet(t, 3)
	alg, err := New(net, "c", uniform(2, 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := alg.Run(context.Background()); !errors.Is(err, ErrNoBoundary) {
		t.Errorf("Run() error = %v, want ErrNoBoundary", err)
	}
}

func TestRun_Canceled(t *testing.T) {
	net, err := network.Cubic([3]int{6, 6, 6})
	if err != nil {
		t.Fatal(err)
	}
	alg, err := New(net, "c", uniform(net.ThroatCount(), 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValueLabel(1, network.LabelFront); err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValueLabel(0, network.LabelBack); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := alg.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestSetValue_Validation(t *testing.T) {
	net := pathNet(t, 3)
	alg, err := New(net, "c", uniform(2, 1))
	if err != nil {
		t.Fatal(err)
	}

	if err := alg.SetValue(math.NaN(), []int{0}); !errors.Is(err, ErrBoundaryValue) {
		t.Errorf("NaN value: err = %v, want ErrBoundaryValue", err)
	}
	if err := alg.SetValue(1, nil); !errors.Is(err, ErrNoBoundaryPores) {
		t.Errorf("empty set: err = %v, want ErrNoBoundaryPores", err)
	}
	if err := alg.SetValue(1, []int{5}); !errors.Is(err, ErrPoreIndex) {
		t.Errorf("out of range: err = %v, want ErrPoreIndex", err)
	}
	if err := alg.SetValueLabel(1, "nope"); !errors.Is(err, ErrNoBoundaryPores) {
		t.Errorf("unknown label: err = %v, want ErrNoBoundaryPores", err)
	}
}

func TestSetValue_InvalidatesSolution(t *testing.T) {
	net := pathNet(t, 3)
	alg, err := New(net, "c", uniform(2, 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValue(1, []int{0}); err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValue(0, []int{2}); err != nil {
		t.Fatal(err)
	}
	if err := alg.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := alg.Solution(); err != nil {
		t.Fatalf("Solution failed after Run: %v", err)
	}

	if err := alg.SetValue(2, []int{0}); err != nil {
		t.Fatal(err)
	}
	if _, err := alg.Solution(); !errors.Is(err, ErrNotSolved) {
		t.Errorf("Solution() after BC change: err = %v, want ErrNotSolved", err)
	}
}

func TestResults_BeforeRun(t *testing.T) {
	net := pathNet(t, 3)
	alg, err := New(net, "c", uniform(2, 1))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := alg.Solution(); !errors.Is(err, ErrNotSolved) {
		t.Errorf("Solution() = %v, want ErrNotSolved", err)
	}
	if _, err := alg.Rate([]int{0}); !errors.Is(err, ErrNotSolved) {
		t.Errorf("Rate() = %v, want ErrNotSolved", err)
	}
	if _, err := alg.EffectiveConductance("a", "b"); !errors.Is(err, ErrNotSolved) {
		t.Errorf("EffectiveConductance() = %v, want ErrNotSolved", err)
	}
}

func TestEffectiveConductance_FaceValidation(t *testing.T) {
	net := pathNet(t, 4)
	if err := net.LabelPores("in", []int{0, 1}); err != nil {
		t.Fatal(err)
	}
	if err := net.LabelPores("out", []int{3}); err != nil {
		t.Fatal(err)
	}

	alg, err := New(net, "c", uniform(3, 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValue(1, []int{0}); err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValue(0.5, []int{1}); err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValue(0, []int{3}); err != nil {
		t.Fatal(err)
	}
	if err := alg.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := alg.EffectiveConductance("in", "out"); !errors.Is(err, ErrFaceValues) {
		t.Errorf("mixed face: err = %v, want ErrFaceValues", err)
	}
	if _, err := alg.EffectiveConductance("nope", "out"); !errors.Is(err, ErrNoBoundaryPores) {
		t.Errorf("unknown face: err = %v, want ErrNoBoundaryPores", err)
	}
}

func TestEffectiveConductance_EqualValues(t *testing.T) {
	net := pathNet(t, 3)
	if err := net.LabelPores("in", []int{0}); err != nil {
		t.Fatal(err)
	}
	if err := net.LabelPores("out", []int{2}); err != nil {
		t.Fatal(err)
	}

	alg, err := New(net, "c", uniform(2, 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValue(1, []int{0, 2}); err != nil {
		t.Fatal(err)
	}
	if err := alg.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := alg.EffectiveConductance("in", "out"); !errors.Is(err, ErrFaceValues) {
		t.Errorf("equal values: err = %v, want ErrFaceValues", err)
	}
}

func TestRate_InternalThroatsIgnored(t *testing.T) {
	net := pathNet(t, 4)
	alg, err := New(net, "c", uniform(3, 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValue(1, []int{0}); err != nil {
		t.Fatal(err)
	}
	if err := alg.SetValue(0, []int{3}); err != nil {
		t.Fatal(err)
	}
	if err := alg.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// The whole network as one set exchanges nothing with its complement.
	rate, err := alg.Rate([]int{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if rate != 0 {
		t.Errorf("Rate(all) = %g, want 0", rate)
	}
}
