// Command lubench benchmarks the factorization/solve pipeline across a size
// sweep and renders runtime and residual curves.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"gulu"
	"gulu/linalg"
	"gulu/solver"
)

type result struct {
	n           int
	factorTime  time.Duration
	solveTime   time.Duration
	residualInf float64
}

func main() {
	var (
		sizes     = flag.String("sizes", "32,64,128,256", "Comma-separated matrix sizes")
		nrhs      = flag.Int("nrhs", 4, "Right-hand side columns")
		iters     = flag.Int("iters", 3, "Iterations per size (best time wins)")
		seed      = flag.Int64("seed", 1, "RNG seed")
		timePlot  = flag.String("time-plot", "lubench_time.png", "Runtime plot output (empty to skip)")
		residPlot = flag.String("resid-plot", "lubench_resid.png", "Residual plot output (empty to skip)")
	)
	flag.Parse()

	fmt.Println("=== LU factorization/solve benchmark ===")
	fmt.Printf("Device: %s\n", gulu.GetDevice().Name)
	fmt.Printf("Backend: %s\n", solver.CurrentBackendInfo().Name)

	ns, err := parseSizes(*sizes)
	if err != nil {
		log.Fatalf("Invalid -sizes: %v", err)
	}

	h, err := solver.NewHandle(nil)
	if err != nil {
		log.Fatalf("Failed to create handle: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	results := make([]result, 0, len(ns))

	fmt.Printf("\n%8s %14s %14s %14s\n", "n", "factorize", "solve", "residual")
	for _, n := range ns {
		r, err := runSize(h, rng, n, *nrhs, *iters)
		if err != nil {
			log.Fatalf("Size %d failed: %v", n, err)
		}
		results = append(results, r)
		fmt.Printf("%8d %14v %14v %14.3e\n", r.n, r.factorTime, r.solveTime, r.residualInf)
	}

	if *timePlot != "" {
		if err := saveTimePlot(results, *timePlot); err != nil {
			log.Fatalf("Failed to save runtime plot: %v", err)
		}
		fmt.Printf("\nRuntime plot written to %s\n", *timePlot)
	}
	if *residPlot != "" {
		if err := saveResidualPlot(results, *residPlot); err != nil {
			log.Fatalf("Failed to save residual plot: %v", err)
		}
		fmt.Printf("Residual plot written to %s\n", *residPlot)
	}
}

func parseSizes(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("size must be positive, got %d", n)
		}
		out = append(out, n)
	}
	return out, nil
}

// runSize factorizes and solves one random diagonally dominant system,
// keeping the best timing over iters runs.
func runSize(h *solver.Handle, rng *rand.Rand, n, nrhs, iters int) (result, error) {
	ctx := h.Context()

	aHost := make([]float64, n*n)
	for i := range aHost {
		aHost[i] = 2*rng.Float64() - 1
	}
	for i := 0; i < n; i++ {
		aHost[i*n+i] += float64(n)
	}
	bHost := make([]float64, n*nrhs)
	for i := range bHost {
		bHost[i] = 2*rng.Float64() - 1
	}

	res := result{n: n, factorTime: time.Duration(math.MaxInt64), solveTime: time.Duration(math.MaxInt64)}

	for it := 0; it < iters; it++ {
		a, err := linalg.NewFloat64(ctx, n, n, linalg.RowMajor, aHost)
		if err != nil {
			return res, err
		}
		b, err := linalg.NewFloat64(ctx, n, nrhs, linalg.RowMajor, bHost)
		if err != nil {
			a.Free(ctx)
			return res, err
		}

		start := time.Now()
		f, err := linalg.Factorize(h, a, false, false)
		factorTime := time.Since(start)
		if err != nil {
			a.Free(ctx)
			b.Free(ctx)
			return res, err
		}

		start = time.Now()
		x, err := linalg.Solve(h, f, b, linalg.NoTranspose, false, false)
		solveTime := time.Since(start)
		if err != nil {
			f.LU.Free(ctx)
			a.Free(ctx)
			b.Free(ctx)
			return res, err
		}

		if factorTime < res.factorTime {
			res.factorTime = factorTime
		}
		if solveTime < res.solveTime {
			res.solveTime = solveTime
		}
		if it == 0 {
			res.residualInf = residual(aHost, x, bHost, n, nrhs)
		}

		x.Free(ctx)
		f.LU.Free(ctx)
		b.Free(ctx)
		a.Free(ctx)
	}
	return res, nil
}

// residual computes ‖A·X − B‖∞ against the host copies of A and B.
func residual(aHost []float64, x *linalg.Matrix, bHost []float64, n, nrhs int) float64 {
	xHost := make([]float64, n*nrhs)
	for r := 0; r < n; r++ {
		for c := 0; c < nrhs; c++ {
			xHost[r*nrhs+c] = real(x.At(r, c))
		}
	}

	a := mat.NewDense(n, n, aHost)
	xm := mat.NewDense(n, nrhs, xHost)
	b := mat.NewDense(n, nrhs, bHost)

	var r mat.Dense
	r.Mul(a, xm)
	r.Sub(&r, b)
	return mat.Norm(&r, math.Inf(1))
}

func saveTimePlot(results []result, file string) error {
	p := plot.New()
	p.Title.Text = "LU pipeline runtime"
	p.X.Label.Text = "matrix size n"
	p.Y.Label.Text = "time (ms)"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	factor := make(plotter.XYs, len(results))
	solve := make(plotter.XYs, len(results))
	for i, r := range results {
		factor[i].X = float64(r.n)
		factor[i].Y = float64(r.factorTime.Microseconds()) / 1000
		solve[i].X = float64(r.n)
		solve[i].Y = float64(r.solveTime.Microseconds()) / 1000
	}

	fl, err := plotter.NewLine(factor)
	if err != nil {
		return err
	}
	sl, err := plotter.NewLine(solve)
	if err != nil {
		return err
	}
	sl.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(fl, sl)
	p.Legend.Add("factorize", fl)
	p.Legend.Add("solve", sl)
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, file)
}

func saveResidualPlot(results []result, file string) error {
	p := plot.New()
	p.Title.Text = "Solve residual"
	p.X.Label.Text = "matrix size n"
	p.Y.Label.Text = "‖A·X − B‖∞"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	pts := make(plotter.XYs, len(results))
	for i, r := range results {
		pts[i].X = float64(r.n)
		pts[i].Y = r.residualInf
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)

	return p.Save(6*vg.Inch, 4*vg.Inch, file)
}
